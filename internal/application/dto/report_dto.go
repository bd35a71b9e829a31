package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/reports/summary.
// KPIs del inventario más las ventas del día y del mes en curso.
type DashboardSummaryDTO struct {
	// Inventario
	ProductCount    int64           `json:"product_count"`
	StockUnits      int64           `json:"stock_units"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"` // Σ stock × precio
	OutOfStockCount int64           `json:"out_of_stock_count"`
	LowStockCount   int64           `json:"low_stock_count"`
	LowStockMode    string          `json:"low_stock_mode"`

	// Ventas del día actual (00:00 – 23:59)
	TodaySales     decimal.Decimal `json:"today_sales"`
	TodaySaleCount int64           `json:"today_sale_count"`

	// Ventas del mes en curso (día 1 – hoy)
	MonthlySales     decimal.Decimal `json:"monthly_sales"`
	MonthlySaleCount int64           `json:"monthly_sale_count"`

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}

// CountDTO respuesta de los contadores simples.
type CountDTO struct {
	Count int64  `json:"count"`
	Mode  string `json:"mode,omitempty"`
}

// StockValueDTO respuesta de GET /api/reports/stock-value.
type StockValueDTO struct {
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
}

// LowStockProductDTO producto por debajo de su umbral de stock bajo.
type LowStockProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	CategoryID  string          `json:"category_id"`
	Stock       int64           `json:"stock"`
	Threshold   decimal.Decimal `json:"threshold"`
}

// CategoryDistributionDTO inventario agrupado por categoría.
type CategoryDistributionDTO struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	ProductCount int64           `json:"product_count"`
	StockUnits   int64           `json:"stock_units"`
	StockValue   decimal.Decimal `json:"stock_value"`
	SharePct     decimal.Decimal `json:"share_pct"` // % del valor total del inventario
}

// DailySalesDTO ventas de un día.
type DailySalesDTO struct {
	Day         string          `json:"day"` // YYYY-MM-DD
	SaleCount   int64           `json:"sale_count"`
	UnitsSold   int64           `json:"units_sold"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// DailyAdjustmentsDTO ajustes de un día.
type DailyAdjustmentsDTO struct {
	Day          string `json:"day"` // YYYY-MM-DD
	Adjustments  int64  `json:"adjustments"`
	UnitsAdded   int64  `json:"units_added"`
	UnitsReduced int64  `json:"units_reduced"`
}
