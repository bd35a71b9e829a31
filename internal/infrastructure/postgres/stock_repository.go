package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// applyDeltaSQL verifica y escribe en la misma sentencia: no hay ventana entre leer el stock
// y actualizarlo, y dos transacciones sobre el mismo producto se serializan por el lock de fila.
const applyDeltaSQL = `
	UPDATE products
	SET stock = stock + $2, updated_at = now()
	WHERE id = $1 AND stock + $2 >= 0`

// ApplyDelta suma delta al stock del producto si el resultado no queda negativo.
// Devuelve las filas afectadas: 1 si se aplicó, 0 si el producto no existe o no alcanza el stock.
func (r *StockRepo) ApplyDelta(ctx context.Context, productID string, delta int64) (int64, error) {
	tag, err := r.q.Exec(ctx, applyDeltaSQL, productID, delta)
	if err != nil {
		return 0, fmt.Errorf("apply stock delta: %w", err)
	}
	return tag.RowsAffected(), nil
}
