package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock solo se modifica a través del ledger de stock (deltas con signo); nunca queda negativo.
type Product struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	UnitPrice   decimal.Decimal // precio de venta vigente
	Stock       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StockValue devuelve stock × precio unitario.
func (p *Product) StockValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(p.Stock))
}
