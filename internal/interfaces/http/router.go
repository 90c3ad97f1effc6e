package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Auth        *AuthHandler
	Products    *ProductHandler
	Suppliers   *SupplierHandler
	Inventory   *InventoryHandler
	Attachments *AttachmentHandler
	Bulk        *BulkHandler
	Dashboard   *DashboardHandler
	Analytics   *AnalyticsHandler
	JWTSecret   string
}

// Router registra las rutas de la API.
// Las rutas estáticas (/products/meta, /products/lookup) van antes de /products/:id.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authn := AuthMiddleware(deps.JWTSecret)
	managers := RequireRole(entity.RoleAdmin, entity.RoleManager)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.Post("/login", deps.Auth.Login)
	authGroup.Get("/me", authn, deps.Auth.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", authn)

	// Products
	products := protected.Group("/products")
	products.Get("/meta", deps.Products.Meta)
	products.Get("/lookup", deps.Products.Lookup)
	products.Get("/", deps.Products.List)
	products.Post("/", managers, deps.Products.Create)
	products.Get("/:id/label", deps.Products.Label)
	products.Patch("/:id/archive", managers, deps.Products.Archive)
	products.Get("/:id", deps.Products.GetByID)
	products.Put("/:id", managers, deps.Products.Update)
	products.Delete("/:id", adminOnly, deps.Products.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", deps.Suppliers.List)
	suppliers.Post("/", managers, deps.Suppliers.Create)

	// Inbound / Outbound
	inbound := protected.Group("/inbound")
	inbound.Get("/", deps.Inventory.InboundHistory)
	inbound.Post("/", managers, deps.Inventory.CreateInbound)

	outbound := protected.Group("/outbound")
	outbound.Get("/", deps.Inventory.OutboundHistory)
	outbound.Post("/", deps.Inventory.CreateOutbound)
	outbound.Get("/:id/dispatch-note", deps.Attachments.DispatchNote)
	outbound.Get("/:id/attachments", deps.Attachments.List)
	outbound.Post("/:id/attachments", managers, deps.Attachments.Upload)

	// Bulk
	bulk := protected.Group("/bulk", managers)
	bulk.Post("/inventory", deps.Bulk.Catalog)
	bulk.Post("/inbound", deps.Bulk.Inbound)
	bulk.Post("/outbound", deps.Bulk.Outbound)

	// Inventory
	inv := protected.Group("/inventory")
	inv.Get("/", deps.Inventory.List)
	inv.Get("/low-stock", deps.Inventory.LowStock)
	inv.Get("/audit", managers, deps.Inventory.AuditTrail)
	inv.Get("/valuation/summary", managers, deps.Analytics.ValuationSummary)
	inv.Get("/valuation/categories", managers, deps.Analytics.ValuationByCategory)
	inv.Get("/valuation/products", managers, deps.Analytics.ValuationByProduct)

	// Dashboard / actividad
	protected.Get("/activity-logs", deps.Dashboard.ActivityLogs)
	protected.Get("/dashboard/summary", deps.Dashboard.GetSummary)

	// Reportes de auditoría
	audit := protected.Group("/audit", managers)
	audit.Get("/summary", deps.Analytics.AuditSummary)
	audit.Get("/top-users", deps.Analytics.TopUsers)
	audit.Get("/top-products", deps.Analytics.TopProducts)
	audit.Get("/high-movement", deps.Analytics.HighMovement)
}
