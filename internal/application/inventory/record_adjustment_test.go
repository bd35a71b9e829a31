package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/testutil/memstore"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

func newAdjustmentUseCase(store *memstore.Store) *inventory.RecordAdjustmentUseCase {
	return inventory.NewRecordAdjustmentUseCase(store, inventory.NewStockLedger(), store.AdjustmentRepo(), logger.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de ajuste manual
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordAdjustment_AddSumaYRegistraAuditoria(t *testing.T) {
	store := newLedgerStore(17)
	uc := newAdjustmentUseCase(store)

	adj, err := uc.RecordAdjustment(context.Background(), inventory.AdjustmentInputDTO{
		UserID: "u-1", ProductID: "p-1", Quantity: 5, Kind: entity.AdjustmentAdd, Reason: " compra ",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(22), store.Stock("p-1"))
	rows := store.Adjustments()
	require.Len(t, rows, 1, "debe existir exactamente una fila de auditoría")
	assert.Equal(t, int64(5), rows[0].QuantityDelta)
	assert.Equal(t, entity.AdjustmentAdd, rows[0].Kind)
	assert.Equal(t, "compra", rows[0].Reason)
	assert.Equal(t, "u-1", rows[0].CreatedBy)
	assert.Equal(t, adj.ID, rows[0].ID)
}

func TestRecordAdjustment_ReduceInsuficienteNoDejaRastro(t *testing.T) {
	store := newLedgerStore(22)
	uc := newAdjustmentUseCase(store)

	_, err := uc.RecordAdjustment(context.Background(), inventory.AdjustmentInputDTO{
		ProductID: "p-1", Quantity: 50, Kind: entity.AdjustmentReduce,
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(22), store.Stock("p-1"))
	assert.Empty(t, store.Adjustments())
}

func TestRecordAdjustment_ReduceRegistraDeltaNegativo(t *testing.T) {
	store := newLedgerStore(10)
	uc := newAdjustmentUseCase(store)

	_, err := uc.RecordAdjustment(context.Background(), inventory.AdjustmentInputDTO{
		ProductID: "p-1", Quantity: 4, Kind: entity.AdjustmentReduce,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6), store.Stock("p-1"))
	rows := store.Adjustments()
	require.Len(t, rows, 1)
	assert.Equal(t, int64(-4), rows[0].QuantityDelta)
}

func TestRecordAdjustment_ProductoDesconocido(t *testing.T) {
	store := newLedgerStore(10)
	uc := newAdjustmentUseCase(store)

	_, err := uc.RecordAdjustment(context.Background(), inventory.AdjustmentInputDTO{
		ProductID: "p-x", Quantity: 1, Kind: entity.AdjustmentAdd,
	})

	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
	assert.Empty(t, store.Adjustments())
}

func TestRecordAdjustment_EntradaInvalidaNoAbreTransaccion(t *testing.T) {
	store := newLedgerStore(10)
	store.FailOn(memstore.OpBegin, 0, errors.New("no debería abrirse"))
	uc := newAdjustmentUseCase(store)

	cases := []inventory.AdjustmentInputDTO{
		{ProductID: "", Quantity: 1, Kind: entity.AdjustmentAdd},
		{ProductID: "p-1", Quantity: 0, Kind: entity.AdjustmentAdd},
		{ProductID: "p-1", Quantity: 1, Kind: "MOVE"},
	}
	for _, in := range cases {
		_, err := uc.RecordAdjustment(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

// Si la fila de auditoría no se puede insertar, el cambio de stock también se revierte.
func TestRecordAdjustment_FalloDeAuditoriaRevierteStock(t *testing.T) {
	store := newLedgerStore(10)
	store.FailOn(memstore.OpCreateAdjustment, 0, errors.New("violación de constraint"))
	uc := newAdjustmentUseCase(store)

	_, err := uc.RecordAdjustment(context.Background(), inventory.AdjustmentInputDTO{
		ProductID: "p-1", Quantity: 3, Kind: entity.AdjustmentAdd,
	})

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, int64(10), store.Stock("p-1"))
	assert.Empty(t, store.Adjustments())

	// reintentar es seguro
	store.ClearFailures()
	_, err = uc.RecordAdjustment(context.Background(), inventory.AdjustmentInputDTO{
		ProductID: "p-1", Quantity: 3, Kind: entity.AdjustmentAdd,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(13), store.Stock("p-1"))
	assert.Len(t, store.Adjustments(), 1)
}

func TestRecordAdjustment_UnidadDeTrabajoAnidadaRechazada(t *testing.T) {
	store := newLedgerStore(10)

	err := store.Run(context.Background(), func(
		txCtx context.Context,
		_ repository.StockAdjustmentRepository,
		_ repository.StockRepository,
		_ repository.ProductRepository,
	) error {
		uc := newAdjustmentUseCase(store)
		_, err := uc.RecordAdjustment(txCtx, inventory.AdjustmentInputDTO{
			ProductID: "p-1", Quantity: 1, Kind: entity.AdjustmentAdd,
		})
		return err
	})

	assert.ErrorIs(t, err, domain.ErrNestedUnitOfWork)
	assert.Equal(t, int64(10), store.Stock("p-1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: el stock nunca queda negativo
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordAdjustment_ReduceConcurrenteNoDejaStockNegativo(t *testing.T) {
	// El memstore serializa las unidades de trabajo con un único mutex: esto solo comprueba
	// el contrato del caso de uso, no la atomicidad de la sentencia de stock en PostgreSQL.
	store := newLedgerStore(10)
	uc := newAdjustmentUseCase(store)

	const workers = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, insufficient := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RecordAdjustment(context.Background(), inventory.AdjustmentInputDTO{
				ProductID: "p-1", Quantity: 1, Kind: entity.AdjustmentReduce,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, workers-10, insufficient)
	assert.Equal(t, int64(0), store.Stock("p-1"))
	assert.Len(t, store.Adjustments(), 10, "una fila de auditoría por ajuste exitoso")
}

// ──────────────────────────────────────────────────────────────────────────────
// Adaptadores HTTP y consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordAdjustmentFromRequest_NormalizaTipo(t *testing.T) {
	store := newLedgerStore(1)
	uc := newAdjustmentUseCase(store)

	resp, err := uc.RecordAdjustmentFromRequest(context.Background(), "u-1", dto.RecordAdjustmentRequest{
		ProductID: "p-1", Quantity: 2, Kind: "add",
	})
	require.NoError(t, err)
	assert.Equal(t, "ADD", resp.Kind)
	assert.Equal(t, int64(3), store.Stock("p-1"))
}

func TestListByProduct_MasRecientesPrimero(t *testing.T) {
	store := newLedgerStore(0)
	uc := newAdjustmentUseCase(store)
	for _, q := range []int64{1, 2, 3} {
		_, err := uc.RecordAdjustment(context.Background(), inventory.AdjustmentInputDTO{
			ProductID: "p-1", Quantity: q, Kind: entity.AdjustmentAdd,
		})
		require.NoError(t, err)
	}

	list, err := uc.ListByProduct(context.Background(), "p-1", dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(3), list[0].QuantityDelta)
	assert.Equal(t, int64(2), list[1].QuantityDelta)

	_, err = uc.ListByProduct(context.Background(), "", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
