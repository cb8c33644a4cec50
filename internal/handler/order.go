package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"laundry-service-api/internal/dto"
	"laundry-service-api/internal/middleware"
	"laundry-service-api/internal/model"
	"laundry-service-api/internal/repository"
	"laundry-service-api/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
	userRepo     repository.UserRepository
}

func NewOrderHandler(orderService service.OrderService, userRepo repository.UserRepository) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		userRepo:     userRepo,
	}
}

func (h *OrderHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	customer, err := customerFor(c, h.userRepo)
	if err != nil {
		return err
	}

	var req dto.CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.CreateOrder(ctx, customer, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, order)
}

// List returns the caller's own orders for customers, and outlet
// orders (optionally filtered by ?outlet_id=) for staff and above.
func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	actor := middleware.ActorFrom(c)

	if actor.Role.Can(model.CapManageOrders) {
		orders, err := h.orderService.ListOutletOrders(ctx, c.QueryParam("outlet_id"), actor)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, orders)
	}

	customer, err := customerFor(c, h.userRepo)
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListOrders(ctx, customer.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	actor := middleware.ActorFrom(c)

	customerID := ""
	if actor.Role.Can(model.CapPlaceOrder) {
		customer, err := customerFor(c, h.userRepo)
		if err != nil {
			return err
		}
		customerID = customer.ID
	}

	order, err := h.orderService.GetOrder(ctx, c.Param("id"), actor, customerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

// Update is the staff PATCH: status transition and/or internal notes.
func (h *OrderHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.UpdateOrderStatus(ctx, c.Param("id"),
		model.OrderStatus(req.Status), req.InternalNotes, middleware.ActorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

// Cancel is the customer self-cancel path (DELETE /orders/:id).
func (h *OrderHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	customer, err := customerFor(c, h.userRepo)
	if err != nil {
		return err
	}

	order, err := h.orderService.CancelOrder(ctx, c.Param("id"), customer)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}
