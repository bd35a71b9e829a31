package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría. El nombre es único.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.CreatedAt,
	)
	if err != nil {
		return mapError(err, "insert category")
	}
	return nil
}

// GetByID obtiene una categoría por ID; (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// List lista las categorías por nombre.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	list := []*entity.Category{}
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// SetThreshold inserta o reemplaza el umbral de la categoría.
func (r *CategoryRepo) SetThreshold(ctx context.Context, t entity.CategoryThreshold) error {
	query := `
		INSERT INTO category_thresholds (category_id, threshold)
		VALUES ($1, $2)
		ON CONFLICT (category_id)
		DO UPDATE SET threshold = EXCLUDED.threshold`
	if _, err := r.q.Exec(ctx, query, t.CategoryID, t.Threshold); err != nil {
		return mapError(err, "set category threshold")
	}
	return nil
}

// ListThresholds lista los umbrales configurados.
func (r *CategoryRepo) ListThresholds(ctx context.Context) ([]entity.CategoryThreshold, error) {
	rows, err := r.q.Query(ctx, `SELECT category_id, threshold FROM category_thresholds ORDER BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("list thresholds: %w", err)
	}
	defer rows.Close()
	list := []entity.CategoryThreshold{}
	for rows.Next() {
		var t entity.CategoryThreshold
		if err := rows.Scan(&t.CategoryID, &t.Threshold); err != nil {
			return nil, fmt.Errorf("scan threshold: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
