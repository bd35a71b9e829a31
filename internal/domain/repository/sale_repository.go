package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas.
// Solo inserción y lectura: una venta completada no se actualiza ni se borra.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	// GetByID devuelve la venta con sus ítems, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// ListByDate lista las ventas (con ítems) con fecha en [from, to).
	ListByDate(ctx context.Context, from, to time.Time) ([]*entity.Sale, error)
}
