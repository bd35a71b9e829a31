package sales

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// SalesTxRunner ejecuta una función dentro de una transacción que incluye los repos de venta y stock.
type SalesTxRunner interface {
	RunSale(ctx context.Context, fn func(
		txCtx context.Context,
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// InventoryLedger interfaz para integrar ventas con el ledger de stock.
// ApplyDeltaInTx usa los repositorios del caller (misma transacción); si retorna error
// (ej: InsufficientStock), el caller debe hacer rollback.
type InventoryLedger interface {
	ApplyDeltaInTx(
		ctx context.Context,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		productID string,
		delta int64,
	) error
}

// Reservation resultado de reservar una clave de idempotencia.
// Reserved=false indica que la clave ya existía: SaleID es la venta confirmada ("" si sigue
// en curso) y Fingerprint la huella del carrito con que se reservó.
type Reservation struct {
	Reserved    bool
	SaleID      string
	Fingerprint string
}

// IdempotencyStore reserva claves de idempotencia de POST /api/sales.
// Una clave pasa por: reservada (en curso) → completada (ligada a una venta) o liberada.
// La huella del carrito se guarda junto a la clave en ambos estados.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key, fingerprint string) (Reservation, error)
	Complete(ctx context.Context, key, fingerprint, saleID string) error
	Release(ctx context.Context, key, fingerprint string) error
}

// ReceiptLine línea del comprobante con el nombre del producto resuelto.
type ReceiptLine struct {
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptPDFGenerator genera el comprobante de venta en PDF.
type ReceiptPDFGenerator interface {
	GenerateSaleReceiptPDF(ctx context.Context, storeName string, sale *entity.Sale, lines []ReceiptLine) ([]byte, error)
}
