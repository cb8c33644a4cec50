package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/handler"
	"laundry-service-api/internal/middleware"
	"laundry-service-api/internal/model"
	"laundry-service-api/internal/repository"
	"laundry-service-api/internal/service"
)

type Server struct {
	echo              *echo.Echo
	authHandler       *handler.AuthHandler
	orderHandler      *handler.OrderHandler
	paymentHandler    *handler.PaymentHandler
	membershipHandler *handler.MembershipHandler
	analyticsHandler  *handler.AnalyticsHandler
	authService       service.AuthService
}

type structValidator struct {
	validate *validator.Validate
}

func (v *structValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(
	authService service.AuthService,
	orderService service.OrderService,
	paymentService service.PaymentService,
	membershipService service.MembershipService,
	analyticsService service.AnalyticsService,
	userRepo repository.UserRepository,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	e.Validator = &structValidator{validate: validator.New()}
	e.HTTPErrorHandler = errorHandler

	s := &Server{
		echo:              e,
		authHandler:       handler.NewAuthHandler(authService),
		orderHandler:      handler.NewOrderHandler(orderService, userRepo),
		paymentHandler:    handler.NewPaymentHandler(paymentService, userRepo),
		membershipHandler: handler.NewMembershipHandler(membershipService, userRepo),
		analyticsHandler:  handler.NewAnalyticsHandler(analyticsService),
		authService:       authService,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/auth/login", s.authHandler.Login)
	api.GET("/plans", s.membershipHandler.Plans)

	auth := api.Group("", middleware.Auth(s.authService))

	// -------- orders --------
	auth.POST("/orders", s.orderHandler.Create)
	auth.GET("/orders", s.orderHandler.List)
	auth.GET("/orders/:id", s.orderHandler.Get)
	auth.PATCH("/orders/:id", s.orderHandler.Update)
	auth.DELETE("/orders/:id", s.orderHandler.Cancel)

	// -------- payments --------
	auth.POST("/payments", s.paymentHandler.Submit)
	auth.GET("/payments/pending", s.paymentHandler.ListPending,
		middleware.RequireCapability(model.CapVerifyPayments))
	auth.POST("/payments/verify", s.paymentHandler.Verify,
		middleware.RequireCapability(model.CapVerifyPayments))

	// -------- memberships --------
	auth.POST("/memberships", s.membershipHandler.Purchase)
	auth.GET("/memberships/me", s.membershipHandler.ListMine)

	// -------- analytics --------
	auth.GET("/analytics/revenue-forecast", s.analyticsHandler.RevenueForecast,
		middleware.RequireCapability(model.CapViewAnalytics))
}

// errorHandler maps the apperror taxonomy onto HTTP responses in one
// place. Unclassified errors are logged and reduced to a generic 500 so
// no internal detail leaks to the caller.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, map[string]interface{}{"error": httpErr.Message})
		return
	}

	status := apperror.HTTPStatus(err)

	var ve *apperror.ValidationError
	if errors.As(err, &ve) {
		_ = c.JSON(status, map[string]interface{}{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
		return
	}

	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		_ = c.JSON(status, map[string]string{"error": "internal server error"})
		return
	}

	_ = c.JSON(status, map[string]string{"error": err.Error()})
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
