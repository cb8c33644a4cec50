package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"laundry-service-api/internal/dto"
	"laundry-service-api/internal/model"
	"laundry-service-api/internal/repository"
	"laundry-service-api/internal/service"
)

type MembershipHandler struct {
	membershipService service.MembershipService
	userRepo          repository.UserRepository
}

func NewMembershipHandler(membershipService service.MembershipService, userRepo repository.UserRepository) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		userRepo:          userRepo,
	}
}

func (h *MembershipHandler) Plans(c echo.Context) error {
	return c.JSON(http.StatusOK, model.Plans())
}

func (h *MembershipHandler) Purchase(c echo.Context) error {
	ctx := c.Request().Context()

	customer, err := customerFor(c, h.userRepo)
	if err != nil {
		return err
	}

	var req dto.PurchaseMembershipRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	membership, payment, err := h.membershipService.Purchase(ctx, customer, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"membership": membership,
		"payment":    payment,
	})
}

func (h *MembershipHandler) ListMine(c echo.Context) error {
	ctx := c.Request().Context()

	customer, err := customerFor(c, h.userRepo)
	if err != nil {
		return err
	}

	memberships, err := h.membershipService.ListMine(ctx, customer.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, memberships)
}
