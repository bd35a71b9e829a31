package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type productRepo struct {
	s  *Store
	tx bool
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lock(r.tx)()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.lock(r.tx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	defer r.s.lock(r.tx)()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	defer r.s.lock(r.tx)()
	all := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	if offset >= len(all) {
		return []*entity.Product{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *productRepo) UpdatePrice(_ context.Context, id string, price decimal.Decimal) error {
	defer r.s.lock(r.tx)()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.UnitPrice = price
	p.UpdatedAt = r.s.now()
	return nil
}

// stockRepo solo existe dentro de una unidad de trabajo.
type stockRepo struct {
	s *Store
}

func (r *stockRepo) ApplyDelta(_ context.Context, productID string, delta int64) (int64, error) {
	if err := r.s.fail(OpApplyDelta); err != nil {
		return 0, err
	}
	p, ok := r.s.products[productID]
	if !ok || p.Stock+delta < 0 {
		return 0, nil
	}
	p.Stock += delta
	p.UpdatedAt = r.s.now()
	return 1, nil
}

type categoryRepo struct {
	s *Store
}

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *categoryRepo) SetThreshold(_ context.Context, t entity.CategoryThreshold) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[t.CategoryID]; !ok {
		return domain.ErrNotFound
	}
	if t.Threshold < 0 {
		return domain.ErrInvalidInput
	}
	r.s.thresholds[t.CategoryID] = t.Threshold
	return nil
}

func (r *categoryRepo) ListThresholds(_ context.Context) ([]entity.CategoryThreshold, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.CategoryThreshold, 0, len(r.s.thresholds))
	for id, t := range r.s.thresholds {
		out = append(out, entity.CategoryThreshold{CategoryID: id, Threshold: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out, nil
}

type saleRepo struct {
	s  *Store
	tx bool
}

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	defer r.s.lock(r.tx)()
	if err := r.s.fail(OpCreateSale); err != nil {
		return err
	}
	if sale.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	cp := *sale
	cp.Items = nil
	r.s.sales = append(r.s.sales, &cp)
	return nil
}

func (r *saleRepo) CreateItem(_ context.Context, item *entity.SaleItem) error {
	defer r.s.lock(r.tx)()
	if err := r.s.fail(OpCreateSaleItem); err != nil {
		return err
	}
	for _, sale := range r.s.sales {
		if sale.ID == item.SaleID {
			sale.Items = append(sale.Items, *item)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	defer r.s.lock(r.tx)()
	for _, sale := range r.s.sales {
		if sale.ID == id {
			return copySale(sale), nil
		}
	}
	return nil, nil
}

func (r *saleRepo) ListByDate(_ context.Context, from, to time.Time) ([]*entity.Sale, error) {
	defer r.s.lock(r.tx)()
	out := []*entity.Sale{}
	for _, sale := range r.s.sales {
		if inRange(sale.Date, from, to) {
			out = append(out, copySale(sale))
		}
	}
	sortedSales(out)
	return out, nil
}

func copySale(s *entity.Sale) *entity.Sale {
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	return &cp
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

type adjustmentRepo struct {
	s  *Store
	tx bool
}

func (r *adjustmentRepo) Create(_ context.Context, a *entity.StockAdjustment) error {
	defer r.s.lock(r.tx)()
	if err := r.s.fail(OpCreateAdjustment); err != nil {
		return err
	}
	if !a.Kind.Valid() || a.QuantityDelta == 0 {
		return domain.ErrInvalidInput
	}
	cp := *a
	r.s.adjustments = append(r.s.adjustments, &cp)
	return nil
}

func (r *adjustmentRepo) ListByDate(_ context.Context, from, to time.Time) ([]*entity.StockAdjustment, error) {
	defer r.s.lock(r.tx)()
	out := []*entity.StockAdjustment{}
	for _, a := range r.s.adjustments {
		if inRange(a.Date, from, to) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *adjustmentRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	defer r.s.lock(r.tx)()
	out := []*entity.StockAdjustment{}
	for i := len(r.s.adjustments) - 1; i >= 0; i-- {
		a := r.s.adjustments[i]
		if a.ProductID == productID {
			cp := *a
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return []*entity.StockAdjustment{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}
