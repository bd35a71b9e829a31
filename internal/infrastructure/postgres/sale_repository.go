package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// psql builder de squirrel con placeholders $n.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera de la venta. Los ítems se insertan con CreateItem en la misma tx.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, sale_date, quantity_total, total_amount, created_by)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, sale.ID, sale.Date, sale.Quantity, sale.TotalAmount, sale.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem inserta un ítem con el precio capturado al momento de la venta.
// seq (BIGSERIAL) conserva el orden de inserción de las líneas.
func (r *SaleRepo) CreateItem(ctx context.Context, item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene la venta con sus ítems; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id, sale_date, quantity_total, total_amount, created_by
		FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.Date, &s.Quantity, &s.TotalAmount, &s.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	sales := []*entity.Sale{&s}
	if err := r.attachItems(ctx, sales); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByDate lista las ventas con sale_date en [from, to), con ítems, en orden cronológico.
func (r *SaleRepo) ListByDate(ctx context.Context, from, to time.Time) ([]*entity.Sale, error) {
	query, args, err := psql.
		Select("id", "sale_date", "quantity_total", "total_amount", "created_by").
		From("sales").
		Where(sq.GtOrEq{"sale_date": from}).
		Where(sq.Lt{"sale_date": to}).
		OrderBy("sale_date", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sales: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	list := []*entity.Sale{}
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.Date, &s.Quantity, &s.TotalAmount, &s.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales rows: %w", err)
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachItems carga los ítems de todas las ventas en una consulta.
func (r *SaleRepo) attachItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Sale, len(sales))
	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		s.Items = []entity.SaleItem{}
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}
	query, args, err := psql.
		Select("id", "sale_id", "product_id", "quantity", "unit_price").
		From("sale_items").
		Where(sq.Eq{"sale_id": ids}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return fmt.Errorf("build sale items: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		if s, ok := byID[it.SaleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}
