package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/uteshop/internal/config"
	"github.com/example/uteshop/internal/handlers"
	"github.com/example/uteshop/internal/middleware"
	"github.com/example/uteshop/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	notifier := services.NewNotifier(db)
	momo := services.NewMomoClient(cfg.MomoEndpoint, cfg.MomoPartnerCode, cfg.MomoAccessKey, cfg.MomoSecretKey)

	loyaltyService := services.NewLoyaltyService(db, services.LoyaltyConfig{
		EarnRate:        cfg.PointsEarnRate,
		RedeemValue:     cfg.PointsRedeemValue,
		SilverThreshold: cfg.SilverThreshold,
		GoldThreshold:   cfg.GoldThreshold,
	})
	voucherService := services.NewVoucherService(db)
	pricingService := services.NewPricingService(db, voucherService, loyaltyService)
	orderService := services.NewOrderService(db, pricingService, voucherService, loyaltyService, notifier, momo)
	refundService := services.NewRefundService(db, loyaltyService, notifier, cfg.ReturnWindow)
	statsService := services.NewStatsService(db)

	authHandler := handlers.NewAuthHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db, orderService, pricingService)
	voucherHandler := handlers.NewVoucherHandler(db, voucherService, statsService)
	pointsHandler := handlers.NewPointsHandler(db, loyaltyService, statsService)
	returnHandler := handlers.NewReturnHandler(refundService, statsService)
	notificationHandler := handlers.NewNotificationHandler(notifier)
	profileHandler := handlers.NewProfileHandler(db, loyaltyService)
	adminHandler := handlers.NewAdminHandler(db, orderService, statsService)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Public catalog
	api.Get("/categories", catalogHandler.ListCategories)
	api.Get("/brands", catalogHandler.ListBrands)
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)

	// Protected customer routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Post("/vouchers/validate", voucherHandler.ValidateVoucher)

	protected.Post("/orders/quote", orderHandler.QuoteOrder)
	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Post("/orders/:id/cancel", orderHandler.CancelOrder)

	protected.Get("/points", pointsHandler.GetHistory)
	protected.Get("/points/config", pointsHandler.GetConfig)

	protected.Post("/returns", returnHandler.CreateReturn)
	protected.Get("/returns", returnHandler.ListOwnReturns)
	protected.Get("/returns/eligibility/:id", returnHandler.CheckEligibility)

	protected.Get("/notifications", notificationHandler.ListNotifications)
	protected.Put("/notifications/:id/read", notificationHandler.MarkNotificationRead)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.AdminOnly())

	admin.Get("/dashboard", adminHandler.Dashboard)

	admin.Get("/orders", adminHandler.ListAllOrders)
	admin.Get("/orders/stats", adminHandler.OrderStats)
	admin.Get("/orders/:id", adminHandler.GetOrderAdmin)
	admin.Put("/orders/:id/status", adminHandler.UpdateOrderStatus)

	admin.Get("/users", adminHandler.ListAllUsers)
	admin.Get("/users/:id", adminHandler.GetUserAdmin)

	admin.Post("/categories", catalogHandler.CreateCategory)
	admin.Put("/categories/:id", catalogHandler.UpdateCategory)
	admin.Delete("/categories/:id", catalogHandler.DeleteCategory)
	admin.Post("/brands", catalogHandler.CreateBrand)
	admin.Put("/brands/:id", catalogHandler.UpdateBrand)
	admin.Delete("/brands/:id", catalogHandler.DeleteBrand)

	admin.Post("/products", productHandler.CreateProduct)
	admin.Put("/products/:id", productHandler.UpdateProduct)
	admin.Delete("/products/:id", productHandler.DeleteProduct)

	admin.Get("/vouchers", voucherHandler.ListVouchers)
	admin.Get("/vouchers/stats", voucherHandler.VoucherStats)
	admin.Get("/vouchers/:id", voucherHandler.GetVoucher)
	admin.Post("/vouchers", voucherHandler.CreateVoucher)
	admin.Put("/vouchers/:id", voucherHandler.UpdateVoucher)
	admin.Delete("/vouchers/:id", voucherHandler.DeleteVoucher)

	admin.Get("/points/customers", pointsHandler.ListCustomers)
	admin.Get("/points/transactions", pointsHandler.ListTransactions)
	admin.Post("/points/adjustments", pointsHandler.CreateAdjustment)
	admin.Get("/points/stats", pointsHandler.PointsStats)

	admin.Get("/returns", returnHandler.ListReturns)
	admin.Get("/returns/stats", returnHandler.ReturnStats)
	admin.Put("/returns/:id/approve", returnHandler.ApproveReturn)
	admin.Put("/returns/:id/reject", returnHandler.RejectReturn)
}
