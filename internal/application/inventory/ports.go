package inventory

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para los ajustes manuales: commit si fn retorna nil, rollback en otro caso.
// El ctx que recibe fn identifica la unidad de trabajo; abrir otra con él devuelve domain.ErrNestedUnitOfWork.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txCtx context.Context,
		adjRepo repository.StockAdjustmentRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}
