package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/pos-backoffice/internal/application/analytics"
	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/billing"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/reports"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// AppConfig opciones del servidor Fiber.
type AppConfig struct {
	Name    string
	Log     *logger.Logger
	Metrics *Metrics // nil = sin /metrics
}

// NewApp crea la app con recover, request id, CORS, log de requests, métricas y /health.
func NewApp(cfg AppConfig) *fiber.App {
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(RequestLogger(cfg.Log))
	if cfg.Metrics != nil {
		app.Use(cfg.Metrics.Middleware())
		app.Get("/metrics", cfg.Metrics.Handler())
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	Activity     *usecase.ActivityRecorder
	CompanyUC    *usecase.CompanyUseCase
	GroupUC      *usecase.InventoryGroupUseCase
	ProviderUC   *usecase.ProviderUseCase
	ProductUC    *usecase.ProductUseCase
	CustomerUC   *usecase.CustomerUseCase
	TerminalUC   *usecase.PaymentTerminalUseCase
	GoalUC       *usecase.GoalUseCase
	ResolutionUC *billing.ResolutionUseCase
	InvoiceUC    *billing.InvoiceUseCase
	MovementUC   *inventory.MovementUseCase
	StatsUC      *analytics.StatsUseCase
	ReportsUC    *reports.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, deps.Activity)
	companyHandler := NewCompanyHandler(deps.CompanyUC)

	// Login (público)
	api.Post("/user/login", authHandler.Login)

	// Rutas protegidas: Bearer Token y usuario activo
	protected := []fiber.Handler{AuthMiddleware(deps.JWTSecret), RequireActiveUser(deps.AuthUC)}
	adminOnly := RequireRole(entity.RoleAdmin)
	posAdmins := RequireRole(entity.RoleAdmin, entity.RolePOSAdmin)
	stockAdmins := RequireRole(entity.RoleAdmin, entity.RoleStorageAdmin, entity.RoleShopAdmin)

	user := api.Group("/user", protected...)
	user.Post("/create-user", adminOnly, authHandler.CreateUser)
	user.Post("/update-password", authHandler.UpdatePassword)
	user.Get("/me", authHandler.Me)
	user.Get("/activities", authHandler.Activities)
	user.Get("/users", adminOnly, authHandler.ListUsers)
	user.Put("/users/:id", adminOnly, authHandler.UpdateUser)
	user.Post("/users/:id/toggle-active", adminOnly, authHandler.ToggleUser)
	user.Get("/company", companyHandler.Get)
	user.Put("/company/:id", companyHandler.Update)

	pos := api.Group("/app", protected...)

	groups := NewGroupHandler(deps.GroupUC)
	pos.Get("/group", groups.List)
	pos.Post("/group", groups.Create)
	pos.Put("/group/:id", groups.Update)
	pos.Delete("/group/:id", groups.Delete)
	pos.Post("/group/:id/toggle-active", groups.Toggle)

	providers := NewProviderHandler(deps.ProviderUC)
	pos.Get("/provider", providers.List)
	pos.Post("/provider", providers.Create)
	pos.Put("/provider/:id", providers.Update)
	pos.Delete("/provider/:id", providers.Delete)
	pos.Post("/provider/:id/toggle-active", providers.Toggle)

	products := NewProductHandler(deps.ProductUC)
	pos.Get("/inventory", products.List)
	pos.Post("/inventory", products.Create)
	pos.Get("/inventory/:id", products.GetByID)
	pos.Put("/inventory/:id", products.Update)
	pos.Delete("/inventory/:id", products.Delete)
	pos.Post("/inventory/:id/toggle-active", products.Toggle)
	pos.Post("/inventory-csv", products.Import)
	pos.Post("/upload-photo", products.UploadPhoto)

	customers := NewCustomerHandler(deps.CustomerUC)
	pos.Get("/customer", customers.List)
	pos.Post("/customer", customers.Create)
	pos.Put("/customer/:id", customers.Update)
	pos.Delete("/customer/:id", customers.Delete)

	terminals := NewTerminalHandler(deps.TerminalUC)
	pos.Get("/payment-terminal", terminals.List)
	pos.Post("/payment-terminal", terminals.Create)
	pos.Put("/payment-terminal/:id", terminals.Update)
	pos.Delete("/payment-terminal/:id", terminals.Delete)
	pos.Post("/payment-terminal/:id/toggle-active", terminals.Toggle)

	goals := NewGoalHandler(deps.GoalUC)
	pos.Get("/goals", goals.List)
	pos.Post("/goals", posAdmins, goals.Create)
	pos.Put("/goals/:id", posAdmins, goals.Update)
	pos.Delete("/goals/:id", posAdmins, goals.Delete)

	resolutions := NewResolutionHandler(deps.ResolutionUC)
	pos.Get("/dian-resolution", resolutions.List)
	pos.Post("/dian-resolution", posAdmins, resolutions.Create)
	pos.Put("/dian-resolution/:id", posAdmins, resolutions.Update)
	pos.Delete("/dian-resolution/:id", posAdmins, resolutions.Delete)
	pos.Post("/dian-resolution/:id/toggle-active", posAdmins, resolutions.Toggle)

	invoices := NewInvoiceHandler(deps.InvoiceUC)
	pos.Get("/invoice", invoices.List)
	pos.Post("/invoice", invoices.Create)
	pos.Get("/invoice/:id", invoices.GetByID)
	pos.Get("/invoice/:id/pdf", invoices.Receipt)
	pos.Delete("/invoice/:id", invoices.Delete)
	pos.Get("/invoice-painter", invoices.Painter)
	pos.Get("/invoice-simple-list", invoices.SimpleList)
	pos.Patch("/update-invoice/:invoice_number", invoices.Override)
	pos.Post("/update-payment-methods", invoices.UpdatePaymentMethods)

	movements := NewMovementHandler(deps.MovementUC)
	pos.Get("/inventory-movement", movements.List)
	pos.Post("/inventory-movement", movements.Create)
	pos.Get("/inventory-movement/:id", movements.Get)
	pos.Put("/inventory-movement/:id", movements.Update)
	pos.Delete("/inventory-movement/:id", movements.Delete)
	pos.Post("/inventory-movement/:id/:action", stockAdmins, movements.ChangeState)
	pos.Post("/inventory-movement-item/:id/:action", stockAdmins, movements.ChangeItemState)

	stats := NewStatsHandler(deps.StatsUC)
	pos.Get("/summary", stats.Summary)
	pos.Post("/top-selling", stats.TopSelling)
	pos.Get("/hourly-quantities", stats.Hourly)
	pos.Get("/sales-by-timeframe", stats.SalesByTimeframe)
	pos.Post("/sales-by-user", stats.SalesByUser)
	pos.Post("/purchase-summary", stats.PurchaseSummary)

	exports := NewReportHandler(deps.ReportsUC)
	pos.Post("/daily_report_export", exports.DailySales)
	pos.Post("/inventories_report_export", exports.Inventories)
	pos.Post("/product_sales_report_export", exports.ProductSales)
	pos.Post("/invoices_report_export", exports.Invoices)
	pos.Post("/electronic_invoice_export", exports.ElectronicInvoice)
}
