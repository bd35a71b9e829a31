package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

// StockAdjustmentRepo registro de auditoría de ajustes sobre PostgreSQL (usable con pool o tx).
// Solo inserta y lee: las filas nunca se actualizan ni se borran.
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

var adjustmentColumns = []string{"id", "product_id", "quantity_delta", "kind", "reason", "created_by", "adjustment_date"}

// Create persiste un ajuste de stock.
func (r *StockAdjustmentRepo) Create(ctx context.Context, adj *entity.StockAdjustment) error {
	if adj.ID == "" {
		adj.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_adjustments (id, product_id, quantity_delta, kind, reason, created_by, adjustment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		adj.ID, adj.ProductID, adj.QuantityDelta, string(adj.Kind), adj.Reason, adj.CreatedBy, adj.Date,
	)
	if err != nil {
		return fmt.Errorf("create stock adjustment: %w", err)
	}
	return nil
}

// ListByDate lista los ajustes con fecha en [from, to) en orden cronológico.
func (r *StockAdjustmentRepo) ListByDate(ctx context.Context, from, to time.Time) ([]*entity.StockAdjustment, error) {
	query, args, err := psql.
		Select(adjustmentColumns...).
		From("stock_adjustments").
		Where(sq.GtOrEq{"adjustment_date": from}).
		Where(sq.Lt{"adjustment_date": to}).
		OrderBy("adjustment_date", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list by date: %w", err)
	}
	return r.list(ctx, "list by date", query, args)
}

// ListByProduct historial de un producto, más recientes primero.
func (r *StockAdjustmentRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	query, args, err := psql.
		Select(adjustmentColumns...).
		From("stock_adjustments").
		Where(sq.Eq{"product_id": productID}).
		OrderBy("adjustment_date DESC", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list by product: %w", err)
	}
	return r.list(ctx, "list by product", query, args)
}

func (r *StockAdjustmentRepo) list(ctx context.Context, op, query string, args []any) ([]*entity.StockAdjustment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	list := []*entity.StockAdjustment{}
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAdjustment(row pgx.Row) (*entity.StockAdjustment, error) {
	var a entity.StockAdjustment
	var kind string
	if err := row.Scan(&a.ID, &a.ProductID, &a.QuantityDelta, &kind, &a.Reason, &a.CreatedBy, &a.Date); err != nil {
		return nil, err
	}
	a.Kind = entity.AdjustmentKind(kind)
	return &a, nil
}
