package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category y sus umbrales (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	// SetThreshold inserta o reemplaza el umbral de stock bajo de la categoría.
	SetThreshold(ctx context.Context, threshold entity.CategoryThreshold) error
	ListThresholds(ctx context.Context) ([]entity.CategoryThreshold, error)
}
