package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/model"
	"laundry-service-api/internal/service"
)

const actorKey = "actor"

// Auth parses the Bearer token and stores the resulting Actor on the
// request context. Requests without a valid token fail with 401.
func Auth(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return apperror.ErrUnauthorized
			}

			actor, err := authService.ParseToken(token)
			if err != nil {
				return err
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// RequireCapability gates a route on the actor's role capability.
func RequireCapability(cap model.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !ActorFrom(c).Role.Can(cap) {
				return apperror.ErrForbidden
			}
			return next(c)
		}
	}
}

// ActorFrom returns the authenticated actor, or the zero Actor when the
// route skipped Auth.
func ActorFrom(c echo.Context) service.Actor {
	actor, _ := c.Get(actorKey).(service.Actor)
	return actor
}
