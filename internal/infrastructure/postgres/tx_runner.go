package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and sales.SalesTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.SalesTxRunner = (*TxRunner)(nil)

// TxBeginner abre transacciones (*pgxpool.Pool, o un mock en tests).
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Isolation level: Read Committed (default de PostgreSQL); la sentencia condicional
// de StockRepo.ApplyDelta basta para serializar los descuentos sobre un mismo producto.
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos de ajustes atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	txCtx context.Context,
	adjRepo repository.StockAdjustmentRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.runInTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		return fn(txCtx, NewStockAdjustmentRepository(tx), NewStockRepository(tx), NewProductRepository(tx))
	})
}

// RunSale inicia una transacción con repos de venta y stock (para CommitSale).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	txCtx context.Context,
	saleRepo repository.SaleRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.runInTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		return fn(txCtx, NewSaleRepository(tx), NewStockRepository(tx), NewProductRepository(tx))
	})
}

// runInTx
//   - ctx ya dentro de una unidad de trabajo: domain.ErrNestedUnitOfWork, sin abrir otra.
//   - fn OK: commit.
//   - fn con error: rollback y se devuelve el error de fn.
//   - panic en fn: rollback y re-panic.
func (r *TxRunner) runInTx(ctx context.Context, fn func(txCtx context.Context, tx pgx.Tx) error) error {
	if inTx(ctx) {
		return domain.ErrNestedUnitOfWork
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// El rollback debe correr aunque ctx esté cancelado.
	rollbackCtx := context.WithoutCancel(ctx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(rollbackCtx)
			panic(p)
		}
	}()

	if err := fn(withTx(ctx, tx), tx); err != nil {
		if rbErr := tx.Rollback(rollbackCtx); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
