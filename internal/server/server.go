package server

import (
	"context"
	"net/http"
	"winnerstore/internal/handler"
	appmiddleware "winnerstore/internal/middleware"
	"winnerstore/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

type Server struct {
	echo             *echo.Echo
	affiliateHandler *handler.AffiliateHandler
	catalogHandler   *handler.CatalogHandler
	orderHandler     *handler.OrderHandler
	creditsHandler   *handler.CreditsHandler
	withdrawHandler  *handler.WithdrawalHandler
	adminHandler     *handler.AdminHandler
	contactHandler   *handler.ContactHandler
	jwtSecret        string
}

type Services struct {
	Affiliate    service.AffiliateService
	Commission   service.CommissionService
	Catalog      service.CatalogService
	Order        service.OrderService
	Credits      service.CreditsService
	Withdrawal   service.WithdrawalService
	Verification service.VerificationService
	Settings     service.SettingsService
	Contact      service.ContactService
}

func NewServer(services Services, jwtSecret, storageDir string) *Server {
	e := echo.New()

	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Static("/storage", storageDir)
	e.Validator = &requestValidator{validate: validator.New()}

	s := &Server{
		echo:             e,
		affiliateHandler: handler.NewAffiliateHandler(services.Affiliate, services.Commission),
		catalogHandler:   handler.NewCatalogHandler(services.Catalog),
		orderHandler:     handler.NewOrderHandler(services.Order),
		creditsHandler:   handler.NewCreditsHandler(services.Credits),
		withdrawHandler:  handler.NewWithdrawalHandler(services.Withdrawal),
		adminHandler:     handler.NewAdminHandler(services.Order, services.Verification, services.Settings),
		contactHandler:   handler.NewContactHandler(services.Contact),
		jwtSecret:        jwtSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- public storefront --------
	api.GET("/products", s.catalogHandler.ListProducts)
	api.GET("/products/:id", s.catalogHandler.GetProduct)
	api.GET("/categories", s.catalogHandler.ListCategories)
	api.GET("/payment-methods", s.catalogHandler.ListPaymentMethods)
	api.POST("/contact", s.contactHandler.Submit)
	api.POST("/affiliates/register", s.affiliateHandler.Register)

	// -------- authenticated storefront --------
	auth := api.Group("", appmiddleware.Auth(s.jwtSecret))
	auth.POST("/orders", s.orderHandler.Checkout)
	auth.GET("/orders", s.orderHandler.MyOrders)
	auth.GET("/orders/:id", s.orderHandler.Get)
	auth.POST("/orders/:id/payment-proof", s.orderHandler.SubmitPaymentProof)
	auth.GET("/credits/balance", s.creditsHandler.Balance)
	auth.GET("/credits/history", s.creditsHandler.History)
	auth.POST("/withdrawals", s.withdrawHandler.Request)
	auth.GET("/withdrawals", s.withdrawHandler.MyRequests)
	auth.GET("/affiliates/me", s.affiliateHandler.Me)
	auth.GET("/affiliates/me/commissions", s.affiliateHandler.MyCommissions)
	auth.GET("/affiliates/me/downline", s.affiliateHandler.MyDownline)

	// -------- admin back-office --------
	admin := api.Group("/admin", appmiddleware.Auth(s.jwtSecret), appmiddleware.RequireAdmin())
	admin.GET("/affiliates", s.affiliateHandler.List)
	admin.PUT("/affiliates/:id/status", s.affiliateHandler.UpdateStatus)
	admin.GET("/orders", s.adminHandler.ListOrders)
	admin.GET("/orders/pending-verification", s.adminHandler.ListPendingVerification)
	admin.PUT("/orders/:id/status", s.adminHandler.UpdateOrderStatus)
	admin.POST("/orders/:id/verify-payment", s.adminHandler.VerifyPayment)
	admin.GET("/payment-proofs", s.adminHandler.ListPaymentProofs)
	admin.POST("/credits/add", s.creditsHandler.AddCredits)
	admin.GET("/credits", s.creditsHandler.ListAccounts)
	admin.GET("/withdrawals", s.withdrawHandler.List)
	admin.POST("/withdrawals/:id/process", s.withdrawHandler.Process)
	admin.GET("/products", s.catalogHandler.ListAllProducts)
	admin.POST("/products", s.catalogHandler.CreateProduct)
	admin.PUT("/products/:id", s.catalogHandler.UpdateProduct)
	admin.POST("/products/:id/image", s.catalogHandler.UploadProductImage)
	admin.POST("/categories", s.catalogHandler.CreateCategory)
	admin.POST("/payment-methods", s.catalogHandler.CreatePaymentMethod)
	admin.PUT("/payment-methods/:id", s.catalogHandler.UpdatePaymentMethod)
	admin.POST("/payment-methods/:id/qr", s.catalogHandler.UploadPaymentQR)
	admin.GET("/settings", s.adminHandler.GetSettings)
	admin.PUT("/settings", s.adminHandler.UpdateSetting)
	admin.GET("/contact-messages", s.contactHandler.List)
	admin.PUT("/contact-messages/:id/read", s.contactHandler.MarkRead)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
