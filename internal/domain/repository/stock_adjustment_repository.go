package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// StockAdjustmentRepository puerto del registro de auditoría de ajustes (append-only).
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.StockAdjustment) error
	// ListByDate lista los ajustes con fecha en [from, to).
	ListByDate(ctx context.Context, from, to time.Time) ([]*entity.StockAdjustment, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockAdjustment, error)
}
