package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/middleware"
	"laundry-service-api/internal/service"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) RevenueForecast(c echo.Context) error {
	ctx := c.Request().Context()

	months := 3
	if raw := c.QueryParam("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperror.NewValidation(apperror.FieldError{
				Field:  "months",
				Reason: "must be an integer",
			})
		}
		months = parsed
	}

	result, err := h.analyticsService.RevenueForecast(ctx, months, middleware.ActorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
