package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"laundry-service-api/internal/dto"
	"laundry-service-api/internal/middleware"
	"laundry-service-api/internal/repository"
	"laundry-service-api/internal/service"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	userRepo       repository.UserRepository
}

func NewPaymentHandler(paymentService service.PaymentService, userRepo repository.UserRepository) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		userRepo:       userRepo,
	}
}

func (h *PaymentHandler) ListPending(c echo.Context) error {
	ctx := c.Request().Context()

	payments, err := h.paymentService.ListPendingPayments(ctx, middleware.ActorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) Verify(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	payment, err := h.paymentService.VerifyPayment(ctx, req.PaymentID, req.Status, req.Notes, middleware.ActorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	customer, err := customerFor(c, h.userRepo)
	if err != nil {
		return err
	}

	var req dto.CreatePaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	payment, err := h.paymentService.SubmitPayment(ctx, customer, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, payment)
}
