package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// StockLedger aplica deltas con signo al stock de un producto dentro de la unidad de
// trabajo del caller. No abre ni cierra transacciones y no escribe auditoría.
type StockLedger struct{}

// NewStockLedger construye el ledger.
func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// ApplyDeltaInTx suma delta al stock de productID usando los repositorios de la tx del caller.
//
// La verificación y la escritura son una sola sentencia condicional (ver StockRepository.ApplyDelta);
// si no afecta filas se consulta el producto en la misma tx solo para distinguir
// UnknownProduct de InsufficientStock. En ambos casos el estado queda intacto.
func (l *StockLedger) ApplyDeltaInTx(
	ctx context.Context,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	productID string,
	delta int64,
) error {
	if productID == "" || delta == 0 {
		return domain.ErrInvalidInput
	}
	affected, err := stockRepo.ApplyDelta(ctx, productID, delta)
	if err != nil {
		return domain.Persistence(err)
	}
	switch {
	case affected == 1:
		return nil
	case affected > 1:
		return domain.Persistence(fmt.Errorf("apply delta: %d filas afectadas para %s", affected, productID))
	}

	product, err := productRepo.GetByID(ctx, productID)
	if err != nil {
		return domain.Persistence(err)
	}
	if product == nil {
		return domain.UnknownProduct(productID)
	}
	return domain.InsufficientStock(productID)
}
