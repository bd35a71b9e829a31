package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LowStockMode forma de calcular el umbral de stock bajo por categoría.
type LowStockMode string

// Modos de stock bajo.
const (
	LowStockConfigured LowStockMode = "configured" // umbral de category_thresholds
	LowStockComputed   LowStockMode = "computed"   // fracción del stock promedio de la categoría
	LowStockCombined   LowStockMode = "combined"   // configurado si existe, si no calculado
)

// Valid indica si el modo es conocido.
func (m LowStockMode) Valid() bool {
	return m == LowStockConfigured || m == LowStockComputed || m == LowStockCombined
}

// InventoryTotals métricas globales del inventario.
type InventoryTotals struct {
	ProductCount int64
	StockUnits   int64
	StockValue   decimal.Decimal // Σ stock × unit_price
	OutOfStock   int64           // stock = 0
}

// LowStockProduct producto por debajo de su umbral.
type LowStockProduct struct {
	ProductID   string
	ProductName string
	CategoryID  string
	Stock       int64
	Threshold   decimal.Decimal
}

// CategoryStockResult distribución del inventario por categoría.
type CategoryStockResult struct {
	CategoryID   string
	CategoryName string
	ProductCount int64
	StockUnits   int64
	StockValue   decimal.Decimal
}

// DailySalesResult ventas agregadas de un día.
type DailySalesResult struct {
	Day         time.Time
	SaleCount   int64
	UnitsSold   int64
	TotalAmount decimal.Decimal
}

// DailyAdjustmentResult ajustes agregados de un día.
type DailyAdjustmentResult struct {
	Day          time.Time
	Adjustments  int64
	UnitsAdded   int64
	UnitsReduced int64
}

// ReportRepository consultas de solo lectura sobre el ledger.
// Con datos vacíos devuelven ceros o slices vacíos, nunca error.
type ReportRepository interface {
	GetInventoryTotals(ctx context.Context) (InventoryTotals, error)
	CountLowStock(ctx context.Context, mode LowStockMode, fraction decimal.Decimal) (int64, error)
	ListLowStock(ctx context.Context, mode LowStockMode, fraction decimal.Decimal) ([]LowStockProduct, error)
	GetCategoryDistribution(ctx context.Context) ([]CategoryStockResult, error)
	// GetSalesTotals devuelve el total vendido y el número de ventas en [from, to).
	GetSalesTotals(ctx context.Context, from, to time.Time) (total decimal.Decimal, count int64, err error)
	GetDailySales(ctx context.Context, from, to time.Time) ([]DailySalesResult, error)
	GetDailyAdjustments(ctx context.Context, from, to time.Time) ([]DailyAdjustmentResult, error)
}
