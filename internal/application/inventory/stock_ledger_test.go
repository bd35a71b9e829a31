package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/testutil/memstore"
)

// applyInUnit ejecuta ApplyDeltaInTx dentro de una unidad de trabajo del store.
func applyInUnit(t *testing.T, store *memstore.Store, productID string, delta int64) error {
	t.Helper()
	ledger := inventory.NewStockLedger()
	return store.Run(context.Background(), func(
		txCtx context.Context,
		_ repository.StockAdjustmentRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		return ledger.ApplyDeltaInTx(txCtx, stockRepo, productRepo, productID, delta)
	})
}

func newLedgerStore(stock int64) *memstore.Store {
	store := memstore.New()
	store.SeedCategory("cat-1", "Bebidas", nil)
	store.SeedProduct("p-1", "cat-1", "Agua", decimal.RequireFromString("100.00"), stock)
	return store
}

func TestStockLedger_AplicaDeltaPositivoYNegativo(t *testing.T) {
	store := newLedgerStore(10)

	require.NoError(t, applyInUnit(t, store, "p-1", 5))
	assert.Equal(t, int64(15), store.Stock("p-1"))

	require.NoError(t, applyInUnit(t, store, "p-1", -15))
	assert.Equal(t, int64(0), store.Stock("p-1"), "llegar exactamente a cero es válido")
}

func TestStockLedger_StockInsuficienteNoCambiaEstado(t *testing.T) {
	store := newLedgerStore(3)

	err := applyInUnit(t, store, "p-1", -4)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	id, _ := domain.ProductIDOf(err)
	assert.Equal(t, "p-1", id)
	assert.Equal(t, int64(3), store.Stock("p-1"))
}

func TestStockLedger_ProductoDesconocido(t *testing.T) {
	store := newLedgerStore(3)

	err := applyInUnit(t, store, "no-existe", -1)
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)

	err = applyInUnit(t, store, "no-existe", 1)
	assert.ErrorIs(t, err, domain.ErrUnknownProduct, "un delta positivo tampoco crea productos")
}

func TestStockLedger_DeltaCeroEsInvalido(t *testing.T) {
	store := newLedgerStore(3)

	err := applyInUnit(t, store, "p-1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockLedger_FalloDeInfraestructuraEsPersistencia(t *testing.T) {
	store := newLedgerStore(3)
	store.FailOn(memstore.OpApplyDelta, 0, errors.New("conexión perdida"))

	err := applyInUnit(t, store, "p-1", -1)

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, int64(3), store.Stock("p-1"))
}

// fakeStockRepo devuelve un número fijo de filas afectadas.
type fakeStockRepo struct {
	affected int64
}

func (f fakeStockRepo) ApplyDelta(context.Context, string, int64) (int64, error) {
	return f.affected, nil
}

// fakeProductRepo solo implementa GetByID; el resto no se usa en el ledger.
type fakeProductRepo struct {
	repository.ProductRepository
	product *entity.Product
}

func (f fakeProductRepo) GetByID(context.Context, string) (*entity.Product, error) {
	return f.product, nil
}

func TestStockLedger_MasDeUnaFilaAfectadaEsPersistencia(t *testing.T) {
	ledger := inventory.NewStockLedger()

	err := ledger.ApplyDeltaInTx(context.Background(), fakeStockRepo{affected: 2}, fakeProductRepo{}, "p-1", -1)

	assert.ErrorIs(t, err, domain.ErrPersistence)
}
