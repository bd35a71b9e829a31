package inventory

import (
	"math"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SignedDelta convierte (cantidad, tipo) en el delta con signo que se aplica al stock:
// +cantidad para ADD, -cantidad para REDUCE. La cantidad debe ser positiva.
func SignedDelta(kind entity.AdjustmentKind, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}
	switch kind {
	case entity.AdjustmentAdd:
		return quantity, nil
	case entity.AdjustmentReduce:
		return -quantity, nil
	}
	return 0, domain.ErrInvalidInput
}

// AddQuantity suma una cantidad positiva a un acumulado. Devuelve ErrInvalidInput si
// la cantidad no es positiva o si la suma desborda int64.
func AddQuantity(acc, quantity int64) (int64, error) {
	if quantity <= 0 || acc > math.MaxInt64-quantity {
		return 0, domain.ErrInvalidInput
	}
	return acc + quantity, nil
}

// SaleTotals calcula la cantidad agregada y el total de una venta a partir de sus ítems.
// Cantidad = Σ qty ; Total = Σ qty × precio. Las cantidades ya vienen validadas con AddQuantity.
func SaleTotals(items []entity.SaleItem) (quantity int64, total decimal.Decimal) {
	total = decimal.Zero
	for _, it := range items {
		quantity += it.Quantity
		total = total.Add(it.Subtotal())
	}
	return quantity, total
}

// ComputedLowStockThreshold umbral heurístico de stock bajo de una categoría:
// fraction × promedio de stock de la categoría (por defecto 0.2).
func ComputedLowStockThreshold(categoryAvgStock, fraction decimal.Decimal) decimal.Decimal {
	if fraction.LessThanOrEqual(decimal.Zero) || categoryAvgStock.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return categoryAvgStock.Mul(fraction)
}

// IsLowStock indica si stock está por debajo del umbral (estrictamente menor).
func IsLowStock(stock int64, threshold decimal.Decimal) bool {
	return decimal.NewFromInt(stock).LessThan(threshold)
}
