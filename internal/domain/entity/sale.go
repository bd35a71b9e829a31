package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta. Se crea una sola vez, junto con todos sus ítems,
// y no tiene camino de actualización ni borrado.
type Sale struct {
	ID          string
	Date        time.Time
	Quantity    int64           // Σ item.Quantity
	TotalAmount decimal.Decimal // Σ item.Quantity × item.UnitPrice
	CreatedBy   string
	Items       []SaleItem
}

// SaleItem línea de una venta. UnitPrice es la foto del precio al momento de la venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Subtotal devuelve cantidad × precio unitario.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}
