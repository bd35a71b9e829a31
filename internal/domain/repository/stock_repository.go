package repository

import "context"

// StockRepository puerto del ledger de stock.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// ApplyDelta suma delta al stock del producto en una sola sentencia condicional
	// (solo si el resultado no queda negativo) y devuelve las filas afectadas (0 o 1).
	ApplyDelta(ctx context.Context, productID string, delta int64) (int64, error)
}
