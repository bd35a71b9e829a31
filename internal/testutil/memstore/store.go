// Package memstore implementa los puertos de persistencia del ledger en memoria,
// con unidades de trabajo serializadas y rollback por snapshot. Solo para tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Op identifica una operación de escritura en la que se puede inyectar un fallo.
type Op string

// Operaciones con inyección de fallos.
const (
	OpBegin            Op = "begin"
	OpApplyDelta       Op = "apply_delta"
	OpCreateSale       Op = "create_sale"
	OpCreateSaleItem   Op = "create_sale_item"
	OpCreateAdjustment Op = "create_adjustment"
)

type txKey struct{}

var (
	_ inventory.TxRunner          = (*Store)(nil)
	_ sales.SalesTxRunner         = (*Store)(nil)
	_ repository.ReportRepository = (*reportRepo)(nil)
)

// Store estado del ledger en memoria.
// Una unidad de trabajo toma el mutex de principio a fin, así que las operaciones
// concurrentes se serializan como lo harían los locks de fila de PostgreSQL.
type Store struct {
	mu          sync.Mutex
	categories  map[string]*entity.Category
	thresholds  map[string]int64
	products    map[string]*entity.Product
	sales       []*entity.Sale
	adjustments []*entity.StockAdjustment
	failures    map[Op]failure
	now         func() time.Time
}

type failure struct {
	err   error
	after int // llamadas que pasan antes de fallar
}

// New construye un store vacío.
func New() *Store {
	return &Store{
		categories: map[string]*entity.Category{},
		thresholds: map[string]int64{},
		products:   map[string]*entity.Product{},
		failures:   map[Op]failure{},
		now:        time.Now,
	}
}

// FailOn hace que op devuelva err a partir de la llamada número after+1.
func (s *Store) FailOn(op Op, after int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = failure{err: err, after: after}
}

// ClearFailures elimina los fallos inyectados.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[Op]failure{}
}

// fail se llama con el mutex tomado.
func (s *Store) fail(op Op) error {
	f, ok := s.failures[op]
	if !ok {
		return nil
	}
	if f.after > 0 {
		f.after--
		s.failures[op] = f
		return nil
	}
	return f.err
}

// SeedCategory inserta una categoría y, si threshold no es nil, su umbral.
func (s *Store) SeedCategory(id, name string, threshold *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[id] = &entity.Category{ID: id, Name: name, CreatedAt: s.now()}
	if threshold != nil {
		s.thresholds[id] = *threshold
	}
}

// SeedProduct inserta un producto con stock inicial.
func (s *Store) SeedProduct(id, categoryID, name string, price decimal.Decimal, stock int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.products[id] = &entity.Product{
		ID: id, CategoryID: categoryID, Name: name,
		UnitPrice: price, Stock: stock, CreatedAt: now, UpdatedAt: now,
	}
}

// SeedSale inserta una venta ya confirmada (con sus ítems) sin tocar el stock.
func (s *Store) SeedSale(sale entity.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, copySale(&sale))
}

// SeedAdjustment inserta una fila de auditoría sin tocar el stock.
func (s *Store) SeedAdjustment(a entity.StockAdjustment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adjustments = append(s.adjustments, &a)
}

// Stock devuelve el stock actual del producto (0 si no existe).
func (s *Store) Stock(productID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[productID]; ok {
		return p.Stock
	}
	return 0
}

// SaleCount número de ventas confirmadas.
func (s *Store) SaleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

// SaleItemCount número total de ítems de venta confirmados.
func (s *Store) SaleItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sale := range s.sales {
		n += len(sale.Items)
	}
	return n
}

// Adjustments copia de los ajustes confirmados, en orden de inserción.
func (s *Store) Adjustments() []entity.StockAdjustment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StockAdjustment, 0, len(s.adjustments))
	for _, a := range s.adjustments {
		out = append(out, *a)
	}
	return out
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }

// Categories repositorio de categorías.
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepo{s: s} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() repository.SaleRepository { return &saleRepo{s: s} }

// AdjustmentRepo repositorio de ajustes fuera de transacción.
func (s *Store) AdjustmentRepo() repository.StockAdjustmentRepository { return &adjustmentRepo{s: s} }

// Reports repositorio de reportes.
func (s *Store) Reports() repository.ReportRepository { return &reportRepo{s: s} }

type snapshot struct {
	products    map[string]entity.Product
	sales       int
	adjustments int
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		products:    make(map[string]entity.Product, len(s.products)),
		sales:       len(s.sales),
		adjustments: len(s.adjustments),
	}
	for id, p := range s.products {
		snap.products[id] = *p
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.products = make(map[string]*entity.Product, len(snap.products))
	for id, p := range snap.products {
		s.products[id] = &p
	}
	s.sales = s.sales[:snap.sales]
	s.adjustments = s.adjustments[:snap.adjustments]
}

// unit ejecuta fn con el mutex tomado; si fn falla o entra en pánico el estado vuelve al snapshot.
func (s *Store) unit(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return domain.ErrNestedUnitOfWork
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpBegin); err != nil {
		return err
	}
	snap := s.snapshot()
	committed := false
	defer func() {
		if !committed {
			s.restore(snap)
		}
	}()
	txCtx := context.WithValue(ctx, txKey{}, true)
	if err := fn(txCtx); err != nil {
		return err
	}
	committed = true
	return nil
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	txCtx context.Context,
	adjRepo repository.StockAdjustmentRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return s.unit(ctx, func(txCtx context.Context) error {
		return fn(txCtx, &adjustmentRepo{s: s, tx: true}, &stockRepo{s: s}, &productRepo{s: s, tx: true})
	})
}

// RunSale implementa sales.SalesTxRunner.
func (s *Store) RunSale(ctx context.Context, fn func(
	txCtx context.Context,
	saleRepo repository.SaleRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return s.unit(ctx, func(txCtx context.Context) error {
		return fn(txCtx, &saleRepo{s: s, tx: true}, &stockRepo{s: s}, &productRepo{s: s, tx: true})
	})
}

// lock toma el mutex salvo que el repo opere dentro de una unidad de trabajo (que ya lo tiene).
func (s *Store) lock(tx bool) func() {
	if tx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func sortedSales(list []*entity.Sale) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
}
