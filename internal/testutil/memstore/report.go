package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-ledger/internal/domain/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// reportRepo reproduce las consultas de postgres.ReportRepo sobre el estado en memoria.
type reportRepo struct {
	s *Store
}

func (r *reportRepo) GetInventoryTotals(_ context.Context) (repository.InventoryTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := repository.InventoryTotals{StockValue: decimal.Zero}
	for _, p := range r.s.products {
		t.ProductCount++
		t.StockUnits += p.Stock
		t.StockValue = t.StockValue.Add(p.StockValue())
		if p.Stock == 0 {
			t.OutOfStock++
		}
	}
	return t, nil
}

func (r *reportRepo) lowStock(mode repository.LowStockMode, fraction decimal.Decimal) ([]repository.LowStockProduct, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("modo de stock bajo desconocido: %q", mode)
	}
	sum := map[string]int64{}
	count := map[string]int64{}
	for _, p := range r.s.products {
		sum[p.CategoryID] += p.Stock
		count[p.CategoryID]++
	}
	out := []repository.LowStockProduct{}
	for _, p := range r.s.products {
		threshold, ok := r.threshold(p, mode, fraction, sum, count)
		if !ok || !domaininv.IsLowStock(p.Stock, threshold) {
			continue
		}
		out = append(out, repository.LowStockProduct{
			ProductID:   p.ID,
			ProductName: p.Name,
			CategoryID:  p.CategoryID,
			Stock:       p.Stock,
			Threshold:   threshold,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out, nil
}

func (r *reportRepo) threshold(p *entity.Product, mode repository.LowStockMode, fraction decimal.Decimal, sum, count map[string]int64) (decimal.Decimal, bool) {
	configured, hasConfigured := r.s.thresholds[p.CategoryID]
	avg := decimal.NewFromInt(sum[p.CategoryID]).Div(decimal.NewFromInt(count[p.CategoryID]))
	computed := avg.Mul(fraction)
	switch mode {
	case repository.LowStockConfigured:
		return decimal.NewFromInt(configured), hasConfigured
	case repository.LowStockComputed:
		return computed, true
	}
	if hasConfigured {
		return decimal.NewFromInt(configured), true
	}
	return computed, true
}

func (r *reportRepo) CountLowStock(_ context.Context, mode repository.LowStockMode, fraction decimal.Decimal) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list, err := r.lowStock(mode, fraction)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (r *reportRepo) ListLowStock(_ context.Context, mode repository.LowStockMode, fraction decimal.Decimal) ([]repository.LowStockProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.lowStock(mode, fraction)
}

func (r *reportRepo) GetCategoryDistribution(_ context.Context) ([]repository.CategoryStockResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byCat := make(map[string]*repository.CategoryStockResult, len(r.s.categories))
	for id, c := range r.s.categories {
		byCat[id] = &repository.CategoryStockResult{CategoryID: id, CategoryName: c.Name, StockValue: decimal.Zero}
	}
	for _, p := range r.s.products {
		row, ok := byCat[p.CategoryID]
		if !ok {
			continue
		}
		row.ProductCount++
		row.StockUnits += p.Stock
		row.StockValue = row.StockValue.Add(p.StockValue())
	}
	out := make([]repository.CategoryStockResult, 0, len(byCat))
	for _, row := range byCat {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StockValue.Equal(out[j].StockValue) {
			return out[i].StockValue.GreaterThan(out[j].StockValue)
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out, nil
}

func (r *reportRepo) GetSalesTotals(_ context.Context, from, to time.Time) (decimal.Decimal, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	var n int64
	for _, sale := range r.s.sales {
		if inRange(sale.Date, from, to) {
			total = total.Add(sale.TotalAmount)
			n++
		}
	}
	return total, n, nil
}

// dayOf trunca t al día calendario en la zona de ref.
func dayOf(t time.Time, ref time.Time) time.Time {
	local := t.In(ref.Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *reportRepo) GetDailySales(_ context.Context, from, to time.Time) ([]repository.DailySalesResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byDay := map[time.Time]*repository.DailySalesResult{}
	for _, sale := range r.s.sales {
		if !inRange(sale.Date, from, to) {
			continue
		}
		day := dayOf(sale.Date, from)
		row, ok := byDay[day]
		if !ok {
			row = &repository.DailySalesResult{Day: day, TotalAmount: decimal.Zero}
			byDay[day] = row
		}
		row.SaleCount++
		row.UnitsSold += sale.Quantity
		row.TotalAmount = row.TotalAmount.Add(sale.TotalAmount)
	}
	out := make([]repository.DailySalesResult, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r *reportRepo) GetDailyAdjustments(_ context.Context, from, to time.Time) ([]repository.DailyAdjustmentResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byDay := map[time.Time]*repository.DailyAdjustmentResult{}
	for _, a := range r.s.adjustments {
		if !inRange(a.Date, from, to) {
			continue
		}
		day := dayOf(a.Date, from)
		row, ok := byDay[day]
		if !ok {
			row = &repository.DailyAdjustmentResult{Day: day}
			byDay[day] = row
		}
		row.Adjustments++
		if a.QuantityDelta > 0 {
			row.UnitsAdded += a.QuantityDelta
		} else {
			row.UnitsReduced -= a.QuantityDelta
		}
	}
	out := make([]repository.DailyAdjustmentResult, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}
