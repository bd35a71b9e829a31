// Package reporting contiene las consultas de solo lectura sobre el ledger:
// totales del inventario, stock bajo, ventas y ajustes por fecha y el resumen del dashboard.
package reporting

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DateLayout formato de fecha aceptado en los filtros (?date=YYYY-MM-DD).
const DateLayout = "2006-01-02"

// maxRangeDays límite de días para los rollups diarios.
const maxRangeDays = 366

// Options parámetros de stock bajo por defecto.
type Options struct {
	LowStockMode     repository.LowStockMode
	LowStockFraction decimal.Decimal
	Location         *time.Location // zona horaria de los días de reporte; UTC si es nil
}

// LedgerReader consultas agregadas del ledger. Nunca modifica estado y con datos
// vacíos devuelve ceros o listas vacías.
type LedgerReader struct {
	reportRepo repository.ReportRepository
	saleRepo   repository.SaleRepository
	adjRepo    repository.StockAdjustmentRepository
	opts       Options
	now        func() time.Time
}

// NewLedgerReader construye el lector. Un modo inválido cae en "combined" y una fracción
// no positiva en 0.2.
func NewLedgerReader(
	reportRepo repository.ReportRepository,
	saleRepo repository.SaleRepository,
	adjRepo repository.StockAdjustmentRepository,
	opts Options,
) *LedgerReader {
	if !opts.LowStockMode.Valid() {
		opts.LowStockMode = repository.LowStockCombined
	}
	if opts.LowStockFraction.LessThanOrEqual(decimal.Zero) {
		opts.LowStockFraction = decimal.NewFromFloat(0.2)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &LedgerReader{
		reportRepo: reportRepo,
		saleRepo:   saleRepo,
		adjRepo:    adjRepo,
		opts:       opts,
		now:        time.Now,
	}
}

// TotalProducts número de productos del catálogo.
func (r *LedgerReader) TotalProducts(ctx context.Context) (int64, error) {
	t, err := r.reportRepo.GetInventoryTotals(ctx)
	if err != nil {
		return 0, fmt.Errorf("reporting: totales: %w", err)
	}
	return t.ProductCount, nil
}

// TotalStockValue Σ stock × precio unitario.
func (r *LedgerReader) TotalStockValue(ctx context.Context) (decimal.Decimal, error) {
	t, err := r.reportRepo.GetInventoryTotals(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reporting: valor del inventario: %w", err)
	}
	return t.StockValue.Round(2), nil
}

// OutOfStockCount productos con stock = 0.
func (r *LedgerReader) OutOfStockCount(ctx context.Context) (int64, error) {
	t, err := r.reportRepo.GetInventoryTotals(ctx)
	if err != nil {
		return 0, fmt.Errorf("reporting: agotados: %w", err)
	}
	return t.OutOfStock, nil
}

// ResolveMode convierte el parámetro ?mode= en un modo; vacío usa el configurado.
func (r *LedgerReader) ResolveMode(raw string) (repository.LowStockMode, error) {
	if raw == "" {
		return r.opts.LowStockMode, nil
	}
	mode := repository.LowStockMode(strings.ToLower(strings.TrimSpace(raw)))
	if !mode.Valid() {
		return "", domain.ErrInvalidInput
	}
	return mode, nil
}

// LowStockCount productos con stock por debajo del umbral de su categoría según mode.
func (r *LedgerReader) LowStockCount(ctx context.Context, mode repository.LowStockMode) (int64, error) {
	if !mode.Valid() {
		return 0, domain.ErrInvalidInput
	}
	n, err := r.reportRepo.CountLowStock(ctx, mode, r.opts.LowStockFraction)
	if err != nil {
		return 0, fmt.Errorf("reporting: stock bajo: %w", err)
	}
	return n, nil
}

// LowStockProducts los productos detrás de LowStockCount.
func (r *LedgerReader) LowStockProducts(ctx context.Context, mode repository.LowStockMode) ([]dto.LowStockProductDTO, error) {
	if !mode.Valid() {
		return nil, domain.ErrInvalidInput
	}
	list, err := r.reportRepo.ListLowStock(ctx, mode, r.opts.LowStockFraction)
	if err != nil {
		return nil, fmt.Errorf("reporting: productos con stock bajo: %w", err)
	}
	out := make([]dto.LowStockProductDTO, 0, len(list))
	for _, p := range list {
		out = append(out, dto.LowStockProductDTO{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			CategoryID:  p.CategoryID,
			Stock:       p.Stock,
			Threshold:   p.Threshold.Round(2),
		})
	}
	return out, nil
}

// ParseDate interpreta YYYY-MM-DD en la zona horaria de reporte.
func (r *LedgerReader) ParseDate(raw string) (time.Time, error) {
	if raw == "" {
		now := r.now().In(r.opts.Location)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.opts.Location), nil
	}
	d, err := time.ParseInLocation(DateLayout, raw, r.opts.Location)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return d, nil
}

// dayRange [inicio del día, inicio del día siguiente).
func (r *LedgerReader) dayRange(day time.Time) (time.Time, time.Time) {
	d := day.In(r.opts.Location)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, r.opts.Location)
	return start, start.AddDate(0, 0, 1)
}

// SalesByDate ventas (con ítems) registradas en el día indicado.
func (r *LedgerReader) SalesByDate(ctx context.Context, day time.Time) ([]dto.SaleResponse, error) {
	sales, err := r.listSales(ctx, day)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, dto.SaleFromEntity(s))
	}
	return out, nil
}

func (r *LedgerReader) listSales(ctx context.Context, day time.Time) ([]*entity.Sale, error) {
	from, to := r.dayRange(day)
	sales, err := r.saleRepo.ListByDate(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("reporting: ventas del día: %w", err)
	}
	return sales, nil
}

// AdjustmentsByDate ajustes de stock registrados en el día indicado.
func (r *LedgerReader) AdjustmentsByDate(ctx context.Context, day time.Time) ([]dto.AdjustmentResponse, error) {
	from, to := r.dayRange(day)
	list, err := r.adjRepo.ListByDate(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("reporting: ajustes del día: %w", err)
	}
	out := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.AdjustmentFromEntity(a))
	}
	return out, nil
}

// CategoryDistribution inventario por categoría con su participación en el valor total.
func (r *LedgerReader) CategoryDistribution(ctx context.Context) ([]dto.CategoryDistributionDTO, error) {
	rows, err := r.reportRepo.GetCategoryDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporting: distribución por categoría: %w", err)
	}
	total := decimal.Zero
	for _, c := range rows {
		total = total.Add(c.StockValue)
	}
	hundred := decimal.NewFromInt(100)
	out := make([]dto.CategoryDistributionDTO, 0, len(rows))
	for _, c := range rows {
		share := decimal.Zero
		if total.IsPositive() {
			share = c.StockValue.Div(total).Mul(hundred).Round(2)
		}
		out = append(out, dto.CategoryDistributionDTO{
			CategoryID:   c.CategoryID,
			CategoryName: c.CategoryName,
			ProductCount: c.ProductCount,
			StockUnits:   c.StockUnits,
			StockValue:   c.StockValue.Round(2),
			SharePct:     share,
		})
	}
	return out, nil
}

// dailyRange valida y normaliza el rango [from, to] (ambos inclusive, en días).
func (r *LedgerReader) dailyRange(from, to time.Time) (time.Time, time.Time, error) {
	start, _ := r.dayRange(from)
	_, end := r.dayRange(to)
	if !end.After(start) || end.Sub(start) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	return start, end, nil
}

// DailySales ventas agrupadas por día entre from y to (inclusive).
func (r *LedgerReader) DailySales(ctx context.Context, from, to time.Time) ([]dto.DailySalesDTO, error) {
	start, end, err := r.dailyRange(from, to)
	if err != nil {
		return nil, err
	}
	rows, err := r.reportRepo.GetDailySales(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("reporting: ventas diarias: %w", err)
	}
	out := make([]dto.DailySalesDTO, 0, len(rows))
	for _, d := range rows {
		out = append(out, dto.DailySalesDTO{
			Day:         d.Day.Format(DateLayout),
			SaleCount:   d.SaleCount,
			UnitsSold:   d.UnitsSold,
			TotalAmount: d.TotalAmount.Round(2),
		})
	}
	return out, nil
}

// DailyAdjustments ajustes agrupados por día entre from y to (inclusive).
func (r *LedgerReader) DailyAdjustments(ctx context.Context, from, to time.Time) ([]dto.DailyAdjustmentsDTO, error) {
	start, end, err := r.dailyRange(from, to)
	if err != nil {
		return nil, err
	}
	rows, err := r.reportRepo.GetDailyAdjustments(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("reporting: ajustes diarios: %w", err)
	}
	out := make([]dto.DailyAdjustmentsDTO, 0, len(rows))
	for _, d := range rows {
		out = append(out, dto.DailyAdjustmentsDTO{
			Day:          d.Day.Format(DateLayout),
			Adjustments:  d.Adjustments,
			UnitsAdded:   d.UnitsAdded,
			UnitsReduced: d.UnitsReduced,
		})
	}
	return out, nil
}

// Summary construye el resumen del dashboard.
//
// Tres llamadas en paralelo:
//  1. GetInventoryTotals + CountLowStock (modo por defecto)
//  2. GetSalesTotals(hoy)
//  3. GetSalesTotals(mes)
func (r *LedgerReader) Summary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := r.now().In(r.opts.Location)

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart, todayEnd := r.dayRange(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, r.opts.Location)

	// ── Goroutines para paralelizar las consultas DB ──────────────────────────
	type inventoryResult struct {
		totals   repository.InventoryTotals
		lowStock int64
		err      error
	}
	type salesResult struct {
		total decimal.Decimal
		count int64
		err   error
	}

	invCh := make(chan inventoryResult, 1)
	todayCh := make(chan salesResult, 1)
	monthCh := make(chan salesResult, 1)

	go func() {
		totals, err := r.reportRepo.GetInventoryTotals(ctx)
		if err != nil {
			invCh <- inventoryResult{err: err}
			return
		}
		low, err := r.reportRepo.CountLowStock(ctx, r.opts.LowStockMode, r.opts.LowStockFraction)
		invCh <- inventoryResult{totals, low, err}
	}()
	go func() {
		total, count, err := r.reportRepo.GetSalesTotals(ctx, todayStart, todayEnd)
		todayCh <- salesResult{total, count, err}
	}()
	go func() {
		total, count, err := r.reportRepo.GetSalesTotals(ctx, monthStart, todayEnd)
		monthCh <- salesResult{total, count, err}
	}()

	inv := <-invCh
	today := <-todayCh
	month := <-monthCh

	if inv.err != nil {
		return nil, fmt.Errorf("dashboard: inventario: %w", inv.err)
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	return &dto.DashboardSummaryDTO{
		ProductCount:     inv.totals.ProductCount,
		StockUnits:       inv.totals.StockUnits,
		TotalStockValue:  inv.totals.StockValue.Round(2),
		OutOfStockCount:  inv.totals.OutOfStock,
		LowStockCount:    inv.lowStock,
		LowStockMode:     string(r.opts.LowStockMode),
		TodaySales:       today.total.Round(2),
		TodaySaleCount:   today.count,
		MonthlySales:     month.total.Round(2),
		MonthlySaleCount: month.count,
		DateLabel:        monthLabel(now),
	}, nil
}

// ExportSalesCSV ventas del día en CSV, una fila por ítem.
func (r *LedgerReader) ExportSalesCSV(ctx context.Context, day time.Time) ([]byte, string, error) {
	sales, err := r.listSales(ctx, day)
	if err != nil {
		return nil, "", err
	}
	rows := make([]*dto.SaleCSVRow, 0, len(sales))
	for _, s := range sales {
		for _, it := range s.Items {
			rows = append(rows, &dto.SaleCSVRow{
				SaleID:    s.ID,
				Date:      s.Date.In(r.opts.Location).Format(time.RFC3339),
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice.StringFixed(2),
				Subtotal:  it.Subtotal().StringFixed(2),
				SaleTotal: s.TotalAmount.StringFixed(2),
			})
		}
	}
	var buf bytes.Buffer
	if err := gocsv.Marshal(rows, &buf); err != nil {
		return nil, "", fmt.Errorf("reporting: csv: %w", err)
	}
	start, _ := r.dayRange(day)
	return buf.Bytes(), fmt.Sprintf("ventas-%s.csv", start.Format(DateLayout)), nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
