package server

import (
	"recipe-payments/internal/handler"
	custommw "recipe-payments/internal/middleware"
	"recipe-payments/internal/repository"
	"recipe-payments/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo                 *echo.Echo
	jwtSecret            string
	paymentHandler       *handler.PaymentHandler
	subscriptionHandler  *handler.SubscriptionHandler
	planHandler          *handler.PlanHandler
	paymentMethodHandler *handler.PaymentMethodHandler
}

func NewServer(
	paymentService service.PaymentService,
	subscriptionService service.SubscriptionService,
	planRepo repository.PlanRepository,
	paymentMethodRepo repository.PaymentMethodRepository,
	jwtSecret string,
	logger *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:                 e,
		jwtSecret:            jwtSecret,
		paymentHandler:       handler.NewPaymentHandler(paymentService, logger),
		subscriptionHandler:  handler.NewSubscriptionHandler(subscriptionService),
		planHandler:          handler.NewPlanHandler(planRepo),
		paymentMethodHandler: handler.NewPaymentMethodHandler(paymentMethodRepo),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api/v1")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	auth := custommw.AuthMiddleware(s.jwtSecret)

	// -------- provider callbacks (must stay public) --------
	api.GET("/payments/vnpay_return", s.paymentHandler.VNPayReturn)
	api.GET("/payments/vnpay_ipn", s.paymentHandler.VNPayIPN)
	api.POST("/payments/ipn/momo", s.paymentHandler.MoMoIPN)

	// -------- payments --------
	api.POST("/payments", s.paymentHandler.CreatePayment, auth)
	api.GET("/payments", s.paymentHandler.GetPaymentHistory, auth)

	// -------- subscription --------
	api.GET("/me/subscription", s.subscriptionHandler.GetMySubscription, auth)
	api.DELETE("/me/subscription", s.subscriptionHandler.CancelMySubscription, auth)

	// -------- plans --------
	api.GET("/subscription-plans", s.planHandler.ListPlans)
	api.GET("/subscription-plans/:id", s.planHandler.GetPlan)
	api.POST("/subscription-plans", s.planHandler.CreatePlan, auth, custommw.AdminOnly())
	api.PUT("/subscription-plans/:id", s.planHandler.UpdatePlan, auth, custommw.AdminOnly())
	api.DELETE("/subscription-plans/:id", s.planHandler.DeletePlan, auth, custommw.AdminOnly())

	// -------- payment methods --------
	api.GET("/payment-methods", s.paymentMethodHandler.ListPaymentMethods, auth)
	api.POST("/payment-methods", s.paymentMethodHandler.AddPaymentMethod, auth)
	api.DELETE("/payment-methods/:id", s.paymentMethodHandler.RemovePaymentMethod, auth)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
