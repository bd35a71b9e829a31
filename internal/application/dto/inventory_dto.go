package dto

import (
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// RecordAdjustmentRequest body para POST /api/inventory/adjustments.
type RecordAdjustmentRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	Kind      string `json:"kind" validate:"required,oneof=ADD REDUCE add reduce"`
	Reason    string `json:"reason,omitempty" validate:"max=500"`
}

// AdjustmentResponse salida de un ajuste registrado.
type AdjustmentResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	QuantityDelta int64     `json:"quantity_delta"`
	Kind          string    `json:"kind"`
	Reason        string    `json:"reason,omitempty"`
	CreatedBy     string    `json:"created_by,omitempty"`
	Date          time.Time `json:"date"`
}

// AdjustmentFromEntity convierte la entidad en su DTO de salida.
func AdjustmentFromEntity(a *entity.StockAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:            a.ID,
		ProductID:     a.ProductID,
		QuantityDelta: a.QuantityDelta,
		Kind:          string(a.Kind),
		Reason:        a.Reason,
		CreatedBy:     a.CreatedBy,
		Date:          a.Date,
	}
}
