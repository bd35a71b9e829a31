package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para los reportes del ledger.
// Todas usan COALESCE o devuelven slices vacíos para que un período sin datos no sea un error.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// GetInventoryTotals productos, unidades, valor (Σ stock × precio) y agotados.
func (r *ReportRepo) GetInventoryTotals(ctx context.Context) (repository.InventoryTotals, error) {
	const query = `
	SELECT
	    COUNT(*)                                     AS product_count,
	    COALESCE(SUM(stock), 0)::BIGINT              AS stock_units,
	    COALESCE(SUM(stock * unit_price), 0)         AS stock_value,
	    COUNT(*) FILTER (WHERE stock = 0)            AS out_of_stock
	FROM products`

	var row struct {
		ProductCount int64           `db:"product_count"`
		StockUnits   int64           `db:"stock_units"`
		StockValue   decimal.Decimal `db:"stock_value"`
		OutOfStock   int64           `db:"out_of_stock"`
	}
	if err := pgxscan.Get(ctx, r.q, &row, query); err != nil {
		return repository.InventoryTotals{}, fmt.Errorf("report.GetInventoryTotals: %w", err)
	}
	return repository.InventoryTotals{
		ProductCount: row.ProductCount,
		StockUnits:   row.StockUnits,
		StockValue:   row.StockValue,
		OutOfStock:   row.OutOfStock,
	}, nil
}

// lowStockSQL arma la consulta de stock bajo para el modo indicado.
// El umbral calculado es fraction × promedio de stock de la categoría; "bajo" es stock < umbral.
// Devuelve si la consulta espera la fracción como $1.
func lowStockSQL(mode repository.LowStockMode) (string, bool, error) {
	var thresholdExpr string
	usesFraction := false
	switch mode {
	case repository.LowStockConfigured:
		thresholdExpr = `ct.threshold::NUMERIC`
	case repository.LowStockComputed:
		thresholdExpr = `ca.avg_stock * $1::NUMERIC`
		usesFraction = true
	case repository.LowStockCombined:
		thresholdExpr = `COALESCE(ct.threshold::NUMERIC, ca.avg_stock * $1::NUMERIC)`
		usesFraction = true
	default:
		return "", false, fmt.Errorf("modo de stock bajo desconocido: %q", mode)
	}
	query := `
	WITH cat_avg AS (
	    SELECT category_id, AVG(stock) AS avg_stock
	    FROM products
	    GROUP BY category_id
	), limits AS (
	    SELECT
	        p.id          AS product_id,
	        p.name        AS product_name,
	        p.category_id AS category_id,
	        p.stock       AS stock,
	        ` + thresholdExpr + ` AS threshold
	    FROM products p
	    JOIN cat_avg ca ON ca.category_id = p.category_id
	    LEFT JOIN category_thresholds ct ON ct.category_id = p.category_id
	)
	SELECT product_id, product_name, category_id, stock, threshold
	FROM limits
	WHERE threshold IS NOT NULL AND stock < threshold`
	return query, usesFraction, nil
}

// CountLowStock cuenta los productos con stock bajo según mode.
func (r *ReportRepo) CountLowStock(ctx context.Context, mode repository.LowStockMode, fraction decimal.Decimal) (int64, error) {
	inner, usesFraction, err := lowStockSQL(mode)
	if err != nil {
		return 0, err
	}
	query := `SELECT COUNT(*) FROM (` + inner + `) low`
	var args []any
	if usesFraction {
		args = append(args, fraction)
	}
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("report.CountLowStock: %w", err)
	}
	return n, nil
}

// ListLowStock productos con stock bajo, de menor a mayor stock.
func (r *ReportRepo) ListLowStock(ctx context.Context, mode repository.LowStockMode, fraction decimal.Decimal) ([]repository.LowStockProduct, error) {
	inner, usesFraction, err := lowStockSQL(mode)
	if err != nil {
		return nil, err
	}
	query := inner + ` ORDER BY stock, product_name`
	var args []any
	if usesFraction {
		args = append(args, fraction)
	}
	var rows []struct {
		ProductID   string          `db:"product_id"`
		ProductName string          `db:"product_name"`
		CategoryID  string          `db:"category_id"`
		Stock       int64           `db:"stock"`
		Threshold   decimal.Decimal `db:"threshold"`
	}
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("report.ListLowStock: %w", err)
	}
	out := make([]repository.LowStockProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.LowStockProduct(row))
	}
	return out, nil
}

// GetCategoryDistribution inventario por categoría (incluye categorías sin productos).
func (r *ReportRepo) GetCategoryDistribution(ctx context.Context) ([]repository.CategoryStockResult, error) {
	const query = `
	SELECT
	    c.id                                          AS category_id,
	    c.name                                        AS category_name,
	    COUNT(p.id)                                   AS product_count,
	    COALESCE(SUM(p.stock), 0)::BIGINT             AS stock_units,
	    COALESCE(SUM(p.stock * p.unit_price), 0)      AS stock_value
	FROM categories c
	LEFT JOIN products p ON p.category_id = c.id
	GROUP BY c.id, c.name
	ORDER BY stock_value DESC, c.name`

	var rows []struct {
		CategoryID   string          `db:"category_id"`
		CategoryName string          `db:"category_name"`
		ProductCount int64           `db:"product_count"`
		StockUnits   int64           `db:"stock_units"`
		StockValue   decimal.Decimal `db:"stock_value"`
	}
	if err := pgxscan.Select(ctx, r.q, &rows, query); err != nil {
		return nil, fmt.Errorf("report.GetCategoryDistribution: %w", err)
	}
	out := make([]repository.CategoryStockResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.CategoryStockResult(row))
	}
	return out, nil
}

// GetSalesTotals total vendido y número de ventas en [from, to).
func (r *ReportRepo) GetSalesTotals(ctx context.Context, from, to time.Time) (total decimal.Decimal, count int64, err error) {
	const query = `
	SELECT
	    COALESCE(SUM(total_amount), 0) AS total,
	    COUNT(*)                       AS sale_count
	FROM sales
	WHERE sale_date >= $1 AND sale_date < $2`

	err = r.q.QueryRow(ctx, query, from, to).Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("report.GetSalesTotals: %w", err)
	}
	return total, count, nil
}

// GetDailySales ventas por día en [from, to). Los días se cortan en la zona horaria de from.
func (r *ReportRepo) GetDailySales(ctx context.Context, from, to time.Time) ([]repository.DailySalesResult, error) {
	query, args, err := psql.
		Select().
		Column(sq.Expr("(sale_date AT TIME ZONE ?)::DATE AS day", zoneName(from))).
		Column("COUNT(*) AS sale_count").
		Column("COALESCE(SUM(quantity_total), 0)::BIGINT AS units_sold").
		Column("COALESCE(SUM(total_amount), 0) AS total_amount").
		From("sales").
		Where(sq.GtOrEq{"sale_date": from}).
		Where(sq.Lt{"sale_date": to}).
		GroupBy("day").
		OrderBy("day").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("report.GetDailySales build: %w", err)
	}
	var rows []struct {
		Day         time.Time       `db:"day"`
		SaleCount   int64           `db:"sale_count"`
		UnitsSold   int64           `db:"units_sold"`
		TotalAmount decimal.Decimal `db:"total_amount"`
	}
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("report.GetDailySales: %w", err)
	}
	out := make([]repository.DailySalesResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.DailySalesResult(row))
	}
	return out, nil
}

// GetDailyAdjustments ajustes por día en [from, to), separando unidades agregadas y retiradas.
func (r *ReportRepo) GetDailyAdjustments(ctx context.Context, from, to time.Time) ([]repository.DailyAdjustmentResult, error) {
	query, args, err := psql.
		Select().
		Column(sq.Expr("(adjustment_date AT TIME ZONE ?)::DATE AS day", zoneName(from))).
		Column("COUNT(*) AS adjustments").
		Column("COALESCE(SUM(quantity_delta) FILTER (WHERE quantity_delta > 0), 0)::BIGINT AS units_added").
		Column("COALESCE(-SUM(quantity_delta) FILTER (WHERE quantity_delta < 0), 0)::BIGINT AS units_reduced").
		From("stock_adjustments").
		Where(sq.GtOrEq{"adjustment_date": from}).
		Where(sq.Lt{"adjustment_date": to}).
		GroupBy("day").
		OrderBy("day").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("report.GetDailyAdjustments build: %w", err)
	}
	var rows []struct {
		Day          time.Time `db:"day"`
		Adjustments  int64     `db:"adjustments"`
		UnitsAdded   int64     `db:"units_added"`
		UnitsReduced int64     `db:"units_reduced"`
	}
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("report.GetDailyAdjustments: %w", err)
	}
	out := make([]repository.DailyAdjustmentResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.DailyAdjustmentResult(row))
	}
	return out, nil
}

// zoneName nombre IANA de la zona de t; "Local" no lo entiende PostgreSQL.
func zoneName(t time.Time) string {
	name := t.Location().String()
	if name == "" || name == "Local" {
		return "UTC"
	}
	return name
}
