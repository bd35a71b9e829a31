package sales

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-ledger/internal/domain/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// CommitSaleUseCase registra una venta (cabecera + ítems) y descuenta el stock de cada línea
// en una sola transacción.
type CommitSaleUseCase struct {
	txRunner    SalesTxRunner
	ledger      InventoryLedger
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	idempotency IdempotencyStore // opcional
	log         *logger.Logger
	now         func() time.Time
}

// NewCommitSaleUseCase construye el caso de uso. idempotency puede ser nil (sin soporte de Idempotency-Key).
func NewCommitSaleUseCase(
	txRunner SalesTxRunner,
	ledger InventoryLedger,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	idempotency IdempotencyStore,
	log *logger.Logger,
) *CommitSaleUseCase {
	return &CommitSaleUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		idempotency: idempotency,
		log:         log,
		now:         time.Now,
	}
}

// CartLine par (producto, cantidad) del carrito.
type CartLine struct {
	ProductID string
	Quantity  int64
}

// CommitSaleInput entrada del caso de uso. Lines se procesan en el orden dado.
type CommitSaleInput struct {
	UserID         string
	IdempotencyKey string
	Lines          []CartLine
}

// CommitSaleFromRequest adapta el request HTTP al caso de uso.
func (uc *CommitSaleUseCase) CommitSaleFromRequest(ctx context.Context, userID, idempotencyKey string, in dto.CommitSaleRequest) (*dto.SaleResponse, error) {
	input := CommitSaleInput{
		UserID:         userID,
		IdempotencyKey: idempotencyKey,
		Lines:          make([]CartLine, 0, len(in.Lines)),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, CartLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	sale, err := uc.CommitSale(ctx, input)
	if err != nil {
		return nil, err
	}
	resp := dto.SaleFromEntity(sale)
	return &resp, nil
}

// CommitSale confirma el carrito como una venta.
//
//  1. Valida el carrito y captura el precio vigente de cada producto (foto de precio).
//  2. Calcula cantidad agregada y total con esos precios.
//  3. Abre una unidad de trabajo e inserta la cabecera.
//  4. Por cada línea, en orden: descuenta stock vía el ledger (sentencia condicional) e inserta el ítem.
//     Un mismo producto repetido se descuenta línea por línea contra el stock visible en ese paso.
//  5. Commit solo si todas las líneas pasaron; si no, rollback total.
func (uc *CommitSaleUseCase) CommitSale(ctx context.Context, input CommitSaleInput) (*entity.Sale, error) {
	if len(input.Lines) == 0 {
		return nil, domain.EmptyCart()
	}
	ids := make([]string, 0, len(input.Lines))
	var total int64
	for _, l := range input.Lines {
		if l.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		var err error
		if total, err = domaininv.AddQuantity(total, l.Quantity); err != nil {
			return nil, err
		}
		ids = append(ids, l.ProductID)
	}

	useKey := input.IdempotencyKey != "" && uc.idempotency != nil
	var fingerprint string
	if useKey {
		fingerprint = cartFingerprint(input.Lines)
		res, err := uc.idempotency.Reserve(ctx, input.IdempotencyKey, fingerprint)
		if err != nil {
			return nil, domain.Persistence(err)
		}
		if !res.Reserved {
			if res.Fingerprint != fingerprint {
				return nil, domain.ErrIdempotencyMismatch
			}
			if res.SaleID == "" {
				return nil, domain.ErrConflict
			}
			return uc.replay(ctx, res.SaleID)
		}
	}

	// La clave se libera o completa aunque el request ya se haya cancelado.
	keyCtx := context.WithoutCancel(ctx)

	sale, err := uc.commit(ctx, input, ids)
	if err != nil {
		if useKey {
			if relErr := uc.idempotency.Release(keyCtx, input.IdempotencyKey, fingerprint); relErr != nil {
				uc.log.Error().Err(relErr).Str("idempotency_key", input.IdempotencyKey).Msg("liberar clave de idempotencia")
			}
		}
		uc.log.Warn().Err(err).Int("lines", len(input.Lines)).Msg("venta revertida")
		return nil, err
	}

	if useKey {
		if err := uc.idempotency.Complete(keyCtx, input.IdempotencyKey, fingerprint, sale.ID); err != nil {
			// La venta ya está confirmada; la clave queda en curso hasta expirar.
			uc.log.Error().Err(err).Str("sale_id", sale.ID).Msg("completar clave de idempotencia")
		}
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Int64("quantity", sale.Quantity).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Msg("venta registrada")
	return sale, nil
}

func (uc *CommitSaleUseCase) commit(ctx context.Context, input CommitSaleInput, ids []string) (*entity.Sale, error) {
	// Precios vigentes (fuera de la tx, solo lectura)
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, domain.Persistence(err)
	}

	now := uc.now().UTC()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		Date:      now,
		CreatedBy: input.UserID,
		Items:     make([]entity.SaleItem, 0, len(input.Lines)),
	}
	for _, l := range input.Lines {
		product, ok := products[l.ProductID]
		if !ok || product == nil {
			return nil, domain.UnknownProduct(l.ProductID)
		}
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: product.UnitPrice,
		})
	}
	sale.Quantity, sale.TotalAmount = domaininv.SaleTotals(sale.Items)

	err = uc.txRunner.RunSale(ctx, func(
		txCtx context.Context,
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := saleRepo.Create(txCtx, sale); err != nil {
			return err
		}
		for i := range sale.Items {
			item := &sale.Items[i]
			if err := uc.ledger.ApplyDeltaInTx(txCtx, stockRepo, productRepo, item.ProductID, -item.Quantity); err != nil {
				return err
			}
			if err := saleRepo.CreateItem(txCtx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return sale, nil
}

// cartFingerprint huella sha256 de las líneas del carrito en orden.
func cartFingerprint(lines []CartLine) string {
	h := sha256.New()
	for _, l := range lines {
		h.Write([]byte(l.ProductID))
		h.Write([]byte{':'})
		h.Write([]byte(strconv.FormatInt(l.Quantity, 10)))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// replay devuelve la venta ya confirmada con la misma clave de idempotencia.
func (uc *CommitSaleUseCase) replay(ctx context.Context, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	if sale == nil {
		return nil, domain.ErrConflict
	}
	uc.log.Info().Str("sale_id", saleID).Msg("venta repetida con la misma clave de idempotencia")
	return sale, nil
}

// GetSale obtiene una venta por ID con su detalle completo.
func (uc *CommitSaleUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.SaleFromEntity(sale)
	return &resp, nil
}
