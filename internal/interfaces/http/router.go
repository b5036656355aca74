package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/auth"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/inventory"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/purchases"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/quotations"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/sales"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/usecase"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	SupplierUC  *usecase.SupplierUseCase
	CustomerUC  *usecase.CustomerUseCase
	SaleUC      *sales.SaleUseCase
	PDFUC       *sales.PDFUseCase
	PurchaseUC  *purchases.PurchaseUseCase
	QuotationUC *quotations.QuotationUseCase
	InventoryUC *inventory.InventoryUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Login es público; todo lo demás
// requiere Bearer Token y, en las escrituras, el rol adecuado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Roles: ventas las maneja el mostrador, bodega y compras el almacén.
	ventas := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	bodega := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	admin := RequireRole(entity.RoleAdmin)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), admin, authHandler.Register)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", bodega, productHandler.Create)
	products.Put("/:id", bodega, productHandler.Update)
	products.Delete("/:id", bodega, productHandler.Deactivate)
	products.Post("/:id/activate", bodega, productHandler.Activate)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", bodega, categoryHandler.Create)
	categories.Put("/:id", bodega, categoryHandler.Update)
	categories.Delete("/:id", admin, categoryHandler.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", bodega, supplierHandler.Create)
	suppliers.Put("/:id", bodega, supplierHandler.Update)
	suppliers.Delete("/:id", bodega, supplierHandler.Deactivate)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/", ventas, customerHandler.Create)
	customers.Put("/:id", ventas, customerHandler.Update)
	customers.Delete("/:id", ventas, customerHandler.Deactivate)

	// Sales
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.PDFUC)
	salesGroup.Get("/stats", saleHandler.Stats)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/pdf", saleHandler.PDF)
	salesGroup.Post("/", ventas, saleHandler.Create)
	salesGroup.Patch("/:id", ventas, saleHandler.UpdatePayment)
	salesGroup.Delete("/:id", ventas, saleHandler.Cancel)

	// Purchases
	purchasesGroup := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchasesGroup.Get("/stats", purchaseHandler.Stats)
	purchasesGroup.Get("/", purchaseHandler.List)
	purchasesGroup.Get("/:id", purchaseHandler.GetByID)
	purchasesGroup.Post("/", bodega, purchaseHandler.Create)
	purchasesGroup.Put("/:id", bodega, purchaseHandler.Update)
	purchasesGroup.Post("/:id/receive", bodega, purchaseHandler.Receive)
	purchasesGroup.Delete("/:id", bodega, purchaseHandler.Cancel)

	// Quotations
	quotationsGroup := protected.Group("/quotations")
	quotationHandler := NewQuotationHandler(deps.QuotationUC)
	quotationsGroup.Get("/", quotationHandler.List)
	quotationsGroup.Get("/:id", quotationHandler.GetByID)
	quotationsGroup.Post("/", ventas, quotationHandler.Create)
	quotationsGroup.Patch("/:id/status", ventas, quotationHandler.UpdateStatus)
	quotationsGroup.Post("/:id/convert-to-sale", ventas, quotationHandler.ConvertToSale)

	// Inventory
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Post("/movements", bodega, inventoryHandler.RegisterMovement)
	products.Get("/:id/movements", inventoryHandler.ProductMovements)

	// Reports
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.PDFUC, deps.InventoryUC)
	reports.Get("/sales", reportHandler.SalesReport)
	reports.Get("/low-stock", reportHandler.LowStockReport)
}
