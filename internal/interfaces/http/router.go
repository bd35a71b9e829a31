package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/reporting"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/application/usecase"
	"github.com/jhoicas/pos-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	CategoryUC   *usecase.CategoryUseCase
	CommitSale   *sales.CommitSaleUseCase
	Receipt      *sales.ReceiptUseCase
	RecordAdjust *inventory.RecordAdjustmentUseCase
	Reader       *reporting.LedgerReader
	JWTSecret    string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(jwt.RoleAdmin)

	// Catálogo: lectura para cualquier rol, escritura solo admin
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Patch("/:id/price", adminOnly, productHandler.UpdatePrice)

	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Put("/:id/threshold", adminOnly, categoryHandler.SetThreshold)

	// Ventas
	salesGroup := api.Group("/sales", RequireRole(jwt.RoleAdmin, jwt.RoleVendedor))
	saleHandler := NewSaleHandler(deps.CommitSale, deps.Receipt)
	salesGroup.Post("/", saleHandler.Commit)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Ajustes de inventario
	invGroup := api.Group("/inventory", adminOnly)
	inventoryHandler := NewInventoryHandler(deps.RecordAdjust, deps.Reader)
	invGroup.Post("/adjustments", inventoryHandler.RecordAdjustment)
	invGroup.Get("/adjustments", inventoryHandler.ListByDate)
	invGroup.Get("/products/:id/adjustments", inventoryHandler.ListByProduct)

	// Reportes
	reports := api.Group("/reports", RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero))
	reportHandler := NewReportHandler(deps.Reader)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/products", reportHandler.ProductCount)
	reports.Get("/stock-value", reportHandler.StockValue)
	reports.Get("/out-of-stock", reportHandler.OutOfStock)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/low-stock/products", reportHandler.LowStockProducts)
	reports.Get("/sales", reportHandler.SalesByDate)
	reports.Get("/sales.csv", reportHandler.SalesCSV)
	reports.Get("/categories", reportHandler.Categories)
	reports.Get("/daily-sales", reportHandler.DailySales)
	reports.Get("/daily-adjustments", reportHandler.DailyAdjustments)
}
