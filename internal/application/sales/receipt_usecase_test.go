package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// captureGenerator guarda las líneas recibidas y devuelve un PDF falso.
type captureGenerator struct {
	store string
	sale  *entity.Sale
	lines []sales.ReceiptLine
	err   error
}

func (g *captureGenerator) GenerateSaleReceiptPDF(_ context.Context, storeName string, sale *entity.Sale, lines []sales.ReceiptLine) ([]byte, error) {
	g.store, g.sale, g.lines = storeName, sale, lines
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-fake"), nil
}

func TestDownloadReceiptPDF_UsaPrecioDeLaVentaYNombreDelProducto(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa 400ml", decimal.RequireFromString("100.00"), 20)
	sale, err := newCommitSale(store, nil).CommitSale(context.Background(), cart(sales.CartLine{ProductID: "P", Quantity: 2}))
	require.NoError(t, err)
	require.NoError(t, store.Products().UpdatePrice(context.Background(), "P", decimal.RequireFromString("120.00")))

	gen := &captureGenerator{}
	uc := sales.NewReceiptUseCase(store.Sales(), store.Products(), gen, "Tienda Central")

	pdf, filename, err := uc.DownloadReceiptPDF(context.Background(), sale.ID)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, "venta-"+sale.ID+".pdf", filename)
	assert.Equal(t, "Tienda Central", gen.store)
	require.Len(t, gen.lines, 1)
	assert.Equal(t, "Gaseosa 400ml", gen.lines[0].ProductName)
	assert.Equal(t, "100.00", gen.lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "200.00", gen.lines[0].Subtotal.StringFixed(2))
}

func TestDownloadReceiptPDF_VentaInexistente(t *testing.T) {
	store := newSaleStore()
	uc := sales.NewReceiptUseCase(store.Sales(), store.Products(), &captureGenerator{}, "Tienda")

	_, _, err := uc.DownloadReceiptPDF(context.Background(), "no-existe")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownloadReceiptPDF_PropagaErrorDelGenerador(t *testing.T) {
	store := newSaleStore()
	store.SeedProduct("P", "cat-1", "Gaseosa", decimal.RequireFromString("1.00"), 5)
	sale, err := newCommitSale(store, nil).CommitSale(context.Background(), cart(sales.CartLine{ProductID: "P", Quantity: 1}))
	require.NoError(t, err)

	boom := errors.New("fuente no encontrada")
	uc := sales.NewReceiptUseCase(store.Sales(), store.Products(), &captureGenerator{err: boom}, "Tienda")

	_, _, err = uc.DownloadReceiptPDF(context.Background(), sale.ID)
	assert.ErrorIs(t, err, boom)
}
