package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-ledger/internal/domain/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// RecordAdjustmentUseCase registra ajustes manuales de stock (ADD / REDUCE) de forma transaccional:
// el cambio de stock y la fila de auditoría se confirman juntos o ninguno.
type RecordAdjustmentUseCase struct {
	txRunner TxRunner
	ledger   *StockLedger
	adjRepo  repository.StockAdjustmentRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewRecordAdjustmentUseCase construye el caso de uso.
// adjRepo (fuera de tx) se usa solo para las consultas de historial.
func NewRecordAdjustmentUseCase(
	txRunner TxRunner,
	ledger *StockLedger,
	adjRepo repository.StockAdjustmentRepository,
	log *logger.Logger,
) *RecordAdjustmentUseCase {
	return &RecordAdjustmentUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		adjRepo:  adjRepo,
		log:      log,
		now:      time.Now,
	}
}

// AdjustmentInputDTO entrada para registrar un ajuste manual.
// Quantity siempre positiva; Kind decide el signo del delta.
type AdjustmentInputDTO struct {
	UserID    string
	ProductID string
	Quantity  int64
	Kind      entity.AdjustmentKind
	Reason    string
}

// RecordAdjustmentFromRequest adapta el request HTTP al caso de uso.
func (uc *RecordAdjustmentUseCase) RecordAdjustmentFromRequest(ctx context.Context, userID string, in dto.RecordAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	adj, err := uc.RecordAdjustment(ctx, AdjustmentInputDTO{
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Kind:      entity.AdjustmentKind(strings.ToUpper(in.Kind)),
		Reason:    in.Reason,
	})
	if err != nil {
		return nil, err
	}
	resp := dto.AdjustmentFromEntity(adj)
	return &resp, nil
}

// RecordAdjustment abre una unidad de trabajo, aplica el delta con signo vía StockLedger
// y agrega la fila de auditoría con el mismo delta, tipo y fecha. Commit solo si ambos pasos
// tienen éxito; cualquier fallo hace rollback completo.
func (uc *RecordAdjustmentUseCase) RecordAdjustment(ctx context.Context, input AdjustmentInputDTO) (*entity.StockAdjustment, error) {
	if input.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	delta, err := domaininv.SignedDelta(input.Kind, input.Quantity)
	if err != nil {
		return nil, err
	}

	adj := &entity.StockAdjustment{
		ID:            uuid.New().String(),
		ProductID:     input.ProductID,
		QuantityDelta: delta,
		Kind:          input.Kind,
		Reason:        strings.TrimSpace(input.Reason),
		CreatedBy:     input.UserID,
		Date:          uc.now().UTC(),
	}

	err = uc.txRunner.Run(ctx, func(
		txCtx context.Context,
		adjRepo repository.StockAdjustmentRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := uc.ledger.ApplyDeltaInTx(txCtx, stockRepo, productRepo, input.ProductID, delta); err != nil {
			return err
		}
		return adjRepo.Create(txCtx, adj)
	})
	if err != nil {
		err = domain.Persistence(err)
		uc.log.Warn().Err(err).
			Str("product_id", input.ProductID).
			Int64("delta", delta).
			Msg("ajuste de stock revertido")
		return nil, err
	}

	uc.log.Info().
		Str("adjustment_id", adj.ID).
		Str("product_id", adj.ProductID).
		Str("kind", string(adj.Kind)).
		Int64("delta", adj.QuantityDelta).
		Msg("ajuste de stock registrado")
	return adj, nil
}

// ListByProduct historial de ajustes de un producto (más recientes primero).
func (uc *RecordAdjustmentUseCase) ListByProduct(ctx context.Context, productID string, page dto.PageRequest) ([]dto.AdjustmentResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.adjRepo.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []dto.AdjustmentResponse{}, nil
		}
		return nil, err
	}
	out := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.AdjustmentFromEntity(a))
	}
	return out, nil
}
