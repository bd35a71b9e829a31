package sales_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/testutil/memstore"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newSaleStore() *memstore.Store {
	store := memstore.New()
	store.SeedCategory("cat-1", "Bebidas", nil)
	return store
}

func newCommitSale(store *memstore.Store, idem sales.IdempotencyStore) *sales.CommitSaleUseCase {
	return sales.NewCommitSaleUseCase(store, inventory.NewStockLedger(), store.Products(), store.Sales(), idem, logger.Nop())
}

func cart(lines ...sales.CartLine) sales.CommitSaleInput {
	return sales.CommitSaleInput{UserID: "vendedor-1", Lines: lines}
}

// fakeIdempotency implementación en memoria de sales.IdempotencyStore.
// Como Redis, falla si el contexto ya está cancelado.
type fakeIdempotency struct {
	mu           sync.Mutex
	keys         map[string]sales.Reservation
	reserveErr   error
	afterReserve func() // se invoca tras cada reserva nueva, con la clave ya en curso
	onComplete   func() // se invoca al entrar en Complete
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{keys: map[string]sales.Reservation{}}
}

func (f *fakeIdempotency) Reserve(ctx context.Context, key, fingerprint string) (sales.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return sales.Reservation{}, err
	}
	res, err := f.reserve(key, fingerprint)
	if err == nil && res.Reserved && f.afterReserve != nil {
		f.afterReserve()
	}
	return res, err
}

func (f *fakeIdempotency) reserve(key, fingerprint string) (sales.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserveErr != nil {
		return sales.Reservation{}, f.reserveErr
	}
	if res, ok := f.keys[key]; ok {
		return res, nil
	}
	f.keys[key] = sales.Reservation{Fingerprint: fingerprint}
	return sales.Reservation{Reserved: true, Fingerprint: fingerprint}, nil
}

func (f *fakeIdempotency) Complete(ctx context.Context, key, fingerprint, saleID string) error {
	if f.onComplete != nil {
		f.onComplete()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[key] = sales.Reservation{Fingerprint: fingerprint, SaleID: saleID}
	return nil
}

func (f *fakeIdempotency) Release(ctx context.Context, key, fingerprint string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if res, ok := f.keys[key]; ok && res.SaleID == "" && res.Fingerprint == fingerprint {
		delete(f.keys, key)
	}
	return nil
}

func (f *fakeIdempotency) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.keys[key]
	return ok
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestCommitSale_DescuentaStockYCalculaTotal(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 20)
	uc := newCommitSale(store, nil)

	sale, err := uc.CommitSale(context.Background(), cart(sales.CartLine{ProductID: "P", Quantity: 3}))
	require.NoError(t, err)

	assert.NotEmpty(t, sale.ID)
	assert.Equal(t, int64(17), store.Stock("P"))
	assert.Equal(t, "300.00", sale.TotalAmount.StringFixed(2))
	assert.Equal(t, int64(3), sale.Quantity)
	assert.Equal(t, "vendedor-1", sale.CreatedBy)
	assert.Equal(t, 1, store.SaleCount())
	assert.Equal(t, 1, store.SaleItemCount())
}

func TestCommitSale_TotalesCoincidenConItemsPersistidos(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("a", "cat-1", "A", decimal.RequireFromString("12.50"), 10)
	store.SeedProduct("b", "cat-1", "B", decimal.RequireFromString("3.25"), 10)
	uc := newCommitSale(store, nil)

	sale, err := uc.CommitSale(context.Background(), cart(
		sales.CartLine{ProductID: "a", Quantity: 2},
		sales.CartLine{ProductID: "b", Quantity: 4},
	))
	require.NoError(t, err)

	persisted, err := store.Sales().GetByID(context.Background(), sale.ID)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	require.Len(t, persisted.Items, 2)

	total := decimal.Zero
	var qty int64
	for _, it := range persisted.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
		qty += it.Quantity
	}
	assert.True(t, total.Equal(persisted.TotalAmount), "total=%s items=%s", persisted.TotalAmount, total)
	assert.Equal(t, qty, persisted.Quantity)
	assert.Equal(t, "38.00", persisted.TotalAmount.StringFixed(2))
	assert.Equal(t, "a", persisted.Items[0].ProductID, "los ítems conservan el orden del carrito")
}

func TestCommitSale_CarritoVacio(t *testing.T) {
	store := newSaleStore()
	uc := newCommitSale(store, nil)

	_, err := uc.CommitSale(context.Background(), cart())

	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Zero(t, store.SaleCount())
}

func TestCommitSale_ProductoDesconocido(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 20)
	uc := newCommitSale(store, nil)

	_, err := uc.CommitSale(context.Background(), cart(
		sales.CartLine{ProductID: "P", Quantity: 1},
		sales.CartLine{ProductID: "fantasma", Quantity: 1},
	))

	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
	id, _ := domain.ProductIDOf(err)
	assert.Equal(t, "fantasma", id)
	assert.Equal(t, int64(20), store.Stock("P"))
	assert.Zero(t, store.SaleCount())
}

func TestCommitSale_CantidadNoPositivaEsInvalida(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 20)
	uc := newCommitSale(store, nil)

	_, err := uc.CommitSale(context.Background(), cart(sales.CartLine{ProductID: "P", Quantity: 0}))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(20), store.Stock("P"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad
// ──────────────────────────────────────────────────────────────────────────────

// Dos líneas del mismo producto (10 y 5) contra stock 12: falla la segunda y
// el descuento tentativo de la primera se revierte con toda la transacción.
func TestCommitSale_ProductoRepetidoFallaEnSegundaLinea(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 12)
	uc := newCommitSale(store, nil)

	_, err := uc.CommitSale(context.Background(), cart(
		sales.CartLine{ProductID: "P", Quantity: 10},
		sales.CartLine{ProductID: "P", Quantity: 5},
	))

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(12), store.Stock("P"))
	assert.Zero(t, store.SaleCount())
	assert.Zero(t, store.SaleItemCount())
}

func TestCommitSale_FalloEnLineaIntermediaNoDejaRastro(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("a", "cat-1", "A", decimal.RequireFromString("1.00"), 5)
	store.SeedProduct("b", "cat-1", "B", decimal.RequireFromString("1.00"), 1)
	store.SeedProduct("c", "cat-1", "C", decimal.RequireFromString("1.00"), 5)
	uc := newCommitSale(store, nil)

	_, err := uc.CommitSale(context.Background(), cart(
		sales.CartLine{ProductID: "a", Quantity: 2},
		sales.CartLine{ProductID: "b", Quantity: 2},
		sales.CartLine{ProductID: "c", Quantity: 2},
	))

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	id, _ := domain.ProductIDOf(err)
	assert.Equal(t, "b", id)
	assert.Equal(t, int64(5), store.Stock("a"))
	assert.Equal(t, int64(1), store.Stock("b"))
	assert.Equal(t, int64(5), store.Stock("c"))
	assert.Zero(t, store.SaleCount())
}

func TestCommitSale_FalloDePersistenciaRevierteTodo(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("a", "cat-1", "A", decimal.RequireFromString("1.00"), 5)
	store.SeedProduct("b", "cat-1", "B", decimal.RequireFromString("1.00"), 5)
	// el primer ítem se inserta, el segundo falla
	store.FailOn(memstore.OpCreateSaleItem, 1, errors.New("conexión perdida"))
	uc := newCommitSale(store, nil)

	_, err := uc.CommitSale(context.Background(), cart(
		sales.CartLine{ProductID: "a", Quantity: 1},
		sales.CartLine{ProductID: "b", Quantity: 1},
	))

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, int64(5), store.Stock("a"))
	assert.Equal(t, int64(5), store.Stock("b"))
	assert.Zero(t, store.SaleCount())
	assert.Zero(t, store.SaleItemCount())
}

func TestCommitSale_FalloAlAbrirTransaccion(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("a", "cat-1", "A", decimal.RequireFromString("1.00"), 5)
	store.FailOn(memstore.OpBegin, 0, errors.New("pool agotado"))
	uc := newCommitSale(store, nil)

	_, err := uc.CommitSale(context.Background(), cart(sales.CartLine{ProductID: "a", Quantity: 1}))

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, int64(5), store.Stock("a"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestCommitSale_DosVentasConcurrentesSobreUltimaUnidad(t *testing.T) {
	// El memstore serializa las unidades de trabajo con un único mutex, así que aquí solo
	// se comprueba el contrato del caso de uso. La carrera real sobre la sentencia
	// condicional la cubre TestIntegration_VentasConcurrentesSobreUltimaUnidad en postgres.
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 1)
	uc := newCommitSale(store, nil)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = uc.CommitSale(context.Background(), cart(sales.CartLine{ProductID: "P", Quantity: 1}))
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, 1, succeeded, "exactamente una venta debe confirmarse")
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, int64(0), store.Stock("P"))
	assert.Equal(t, 1, store.SaleCount())
}

func TestCommitSale_StockNuncaNegativoBajoCarga(t *testing.T) {
	// El memstore serializa las unidades de trabajo con un único mutex, así que aquí solo
	// se comprueba el contrato del caso de uso. La carrera real sobre la sentencia
	// condicional la cubre TestIntegration_VentasConcurrentesSobreUltimaUnidad en postgres.
	store := newSaleStore()
	store.SeedProduct("a", "cat-1", "A", decimal.RequireFromString("2.00"), 30)
	store.SeedProduct("b", "cat-1", "B", decimal.RequireFromString("3.00"), 30)
	uc := newCommitSale(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lines := []sales.CartLine{{ProductID: "a", Quantity: 1}}
			if i%2 == 0 {
				lines = append(lines, sales.CartLine{ProductID: "b", Quantity: 2})
			}
			_, _ = uc.CommitSale(context.Background(), cart(lines...))
		}(i)
	}
	wg.Wait()

	assert.GreaterOrEqual(t, store.Stock("a"), int64(0))
	assert.GreaterOrEqual(t, store.Stock("b"), int64(0))

	// lo vendido más lo que queda es el stock inicial
	list, err := store.Sales().ListByDate(context.Background(), farPast, farFuture)
	require.NoError(t, err)
	soldA, soldB := int64(0), int64(0)
	for _, s := range list {
		for _, it := range s.Items {
			if it.ProductID == "a" {
				soldA += it.Quantity
			} else {
				soldB += it.Quantity
			}
		}
	}
	assert.Equal(t, int64(30), soldA+store.Stock("a"))
	assert.Equal(t, int64(30), soldB+store.Stock("b"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Foto de precio e idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestCommitSale_ConservaPrecioAlMomentoDeLaVenta(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 20)
	uc := newCommitSale(store, nil)

	sale, err := uc.CommitSale(context.Background(), cart(sales.CartLine{ProductID: "P", Quantity: 1}))
	require.NoError(t, err)
	require.NoError(t, store.Products().UpdatePrice(context.Background(), "P", decimal.RequireFromString("150.00")))

	got, err := uc.GetSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.TotalAmount.StringFixed(2))
	assert.Equal(t, "100.00", got.Items[0].UnitPrice.StringFixed(2))
}

func TestCommitSale_ReintentoConMismaClaveDevuelveVentaOriginal(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 20)
	idem := newFakeIdempotency()
	uc := newCommitSale(store, idem)

	in := cart(sales.CartLine{ProductID: "P", Quantity: 3})
	in.IdempotencyKey = "caja-1-0001"

	first, err := uc.CommitSale(context.Background(), in)
	require.NoError(t, err)
	second, err := uc.CommitSale(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(17), store.Stock("P"), "el reintento no debe descontar de nuevo")
	assert.Equal(t, 1, store.SaleCount())
}

func TestCommitSale_ClaveEnCursoEsConflicto(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 20)
	idem := newFakeIdempotency()
	uc := newCommitSale(store, idem)

	in := cart(sales.CartLine{ProductID: "P", Quantity: 1})
	in.IdempotencyKey = "en-curso"

	// El mismo carrito llega de nuevo mientras la primera venta sigue en curso.
	var inFlightErr error
	idem.afterReserve = func() {
		_, inFlightErr = uc.CommitSale(context.Background(), in)
	}
	_, err := uc.CommitSale(context.Background(), in)
	require.NoError(t, err)

	assert.ErrorIs(t, inFlightErr, domain.ErrConflict)
	assert.NotErrorIs(t, inFlightErr, domain.ErrIdempotencyMismatch)
	assert.Equal(t, int64(19), store.Stock("P"))
	assert.Equal(t, 1, store.SaleCount())
}

func TestCommitSale_MismaClaveConOtroCarritoEsRechazada(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 20)
	store.SeedProduct("Q", "cat-1", "Agua", decimal.RequireFromString("50.00"), 20)
	idem := newFakeIdempotency()
	uc := newCommitSale(store, idem)

	first := cart(sales.CartLine{ProductID: "P", Quantity: 1})
	first.IdempotencyKey = "caja-1-0002"
	_, err := uc.CommitSale(context.Background(), first)
	require.NoError(t, err)

	cases := []struct {
		name  string
		lines []sales.CartLine
	}{
		{"otro producto", []sales.CartLine{{ProductID: "Q", Quantity: 5}}},
		{"otra cantidad", []sales.CartLine{{ProductID: "P", Quantity: 2}}},
		{"línea extra", []sales.CartLine{{ProductID: "P", Quantity: 1}, {ProductID: "Q", Quantity: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := cart(tc.lines...)
			in.IdempotencyKey = "caja-1-0002"
			sale, err := uc.CommitSale(context.Background(), in)

			assert.Nil(t, sale)
			assert.ErrorIs(t, err, domain.ErrIdempotencyMismatch)
			assert.ErrorIs(t, err, domain.ErrConflict)
		})
	}
	assert.Equal(t, int64(19), store.Stock("P"))
	assert.Equal(t, int64(20), store.Stock("Q"))
	assert.Equal(t, 1, store.SaleCount())
}

func TestCommitSale_OtroCarritoConClaveEnCursoEsRechazado(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 20)
	idem := newFakeIdempotency()
	uc := newCommitSale(store, idem)

	in := cart(sales.CartLine{ProductID: "P", Quantity: 1})
	in.IdempotencyKey = "k-1"

	var otherErr error
	idem.afterReserve = func() {
		other := cart(sales.CartLine{ProductID: "P", Quantity: 4})
		other.IdempotencyKey = "k-1"
		_, otherErr = uc.CommitSale(context.Background(), other)
	}
	_, err := uc.CommitSale(context.Background(), in)
	require.NoError(t, err)

	assert.ErrorIs(t, otherErr, domain.ErrIdempotencyMismatch)
	assert.Equal(t, int64(19), store.Stock("P"))
}

func TestCommitSale_FalloLiberaLaClave(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 2)
	idem := newFakeIdempotency()
	uc := newCommitSale(store, idem)

	in := cart(sales.CartLine{ProductID: "P", Quantity: 3})
	in.IdempotencyKey = "k-1"
	_, err := uc.CommitSale(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.False(t, idem.has("k-1"), "una venta fallida no debe retener la clave")

	in.Lines[0].Quantity = 2
	_, err = uc.CommitSale(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(0), store.Stock("P"))
}

func TestCommitSale_ContextoCanceladoLiberaLaClave(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 5)
	idem := newFakeIdempotency()
	uc := newCommitSale(store, idem)

	in := cart(sales.CartLine{ProductID: "P", Quantity: 2})
	in.IdempotencyKey = "k-cancel"

	// El cliente corta la conexión justo después de reservar la clave.
	ctx, cancel := context.WithCancel(context.Background())
	idem.afterReserve = cancel
	_, err := uc.CommitSale(ctx, in)
	require.Error(t, err)
	assert.Equal(t, int64(5), store.Stock("P"))
	assert.False(t, idem.has("k-cancel"), "la clave debe liberarse aunque el contexto esté cancelado")

	idem.afterReserve = nil
	sale, err := uc.CommitSale(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sale.Quantity)
	assert.Equal(t, int64(3), store.Stock("P"))
}

func TestCommitSale_ContextoCanceladoTrasConfirmarCompletaLaClave(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 5)
	idem := newFakeIdempotency()
	uc := newCommitSale(store, idem)

	in := cart(sales.CartLine{ProductID: "P", Quantity: 1})
	in.IdempotencyKey = "k-done"

	// El contexto se cancela con la venta ya confirmada, antes de ligar la clave.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	idem.onComplete = cancel
	first, err := uc.CommitSale(ctx, in)
	require.NoError(t, err)
	require.Error(t, ctx.Err())

	// La clave quedó ligada a la venta: el reintento la repite en vez de chocar con 409.
	second, err := uc.CommitSale(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(4), store.Stock("P"))
}

func TestCommitSale_SumaDeCantidadesDesbordaEsInvalida(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 5)
	idem := newFakeIdempotency()
	uc := newCommitSale(store, idem)

	in := cart(
		sales.CartLine{ProductID: "P", Quantity: math.MaxInt64},
		sales.CartLine{ProductID: "P", Quantity: math.MaxInt64},
	)
	in.IdempotencyKey = "k-overflow"
	_, err := uc.CommitSale(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, idem.has("k-overflow"), "una entrada inválida no reserva la clave")
	assert.Equal(t, int64(5), store.Stock("P"))
	assert.Equal(t, 0, store.SaleCount())
}

func TestCommitSale_FalloDelStoreDeIdempotenciaEsPersistencia(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("100.00"), 2)
	idem := newFakeIdempotency()
	idem.reserveErr = errors.New("redis caído")
	uc := newCommitSale(store, idem)

	in := cart(sales.CartLine{ProductID: "P", Quantity: 1})
	in.IdempotencyKey = "k-1"
	_, err := uc.CommitSale(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, int64(2), store.Stock("P"))
}

func TestCommitSaleFromRequest_YGetSale(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("10.00"), 5)
	uc := newCommitSale(store, nil)

	resp, err := uc.CommitSaleFromRequest(context.Background(), "u-7", "", dto.CommitSaleRequest{
		Lines: []dto.CartLineRequest{{ProductID: "P", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", resp.TotalAmount.StringFixed(2))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "20.00", resp.Items[0].Subtotal.StringFixed(2))

	got, err := uc.GetSale(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
	assert.Equal(t, "u-7", got.CreatedBy)

	_, err = uc.GetSale(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
