// Package handler contains the echo HTTP handlers. Handlers bind and
// validate input, resolve the acting customer where relevant, and
// delegate to services; error translation happens centrally in the
// server's error handler.
package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/middleware"
	"laundry-service-api/internal/model"
	"laundry-service-api/internal/repository"
)

// bindAndValidate decodes the body and runs struct validation,
// translating validator output into the field-level taxonomy before
// any service work starts.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.NewValidation(apperror.FieldError{
			Field:  "body",
			Reason: "malformed request body",
		})
	}

	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]apperror.FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, apperror.FieldError{
					Field:  fe.Field(),
					Reason: "failed " + fe.Tag() + " validation",
				})
			}
			return apperror.NewValidation(fields...)
		}
		return err
	}

	return nil
}

// customerFor resolves the customer profile of the acting user.
// Non-customer roles have no profile and get Forbidden.
func customerFor(c echo.Context, userRepo repository.UserRepository) (*model.Customer, error) {
	actor := middleware.ActorFrom(c)
	if !actor.Role.Can(model.CapPlaceOrder) {
		return nil, apperror.ErrForbidden
	}

	customer, err := userRepo.FindCustomerByUserID(c.Request().Context(), actor.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ErrForbidden
		}
		return nil, err
	}

	return customer, nil
}
