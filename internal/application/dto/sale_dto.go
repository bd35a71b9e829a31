package dto

import (
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CartLineRequest línea del carrito.
type CartLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
}

// CommitSaleRequest body para POST /api/sales. El orden de Lines es el orden de proceso.
type CommitSaleRequest struct {
	Lines []CartLineRequest `json:"lines" validate:"dive"`
}

// SaleItemResponse línea de una venta registrada.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta registrada con sus ítems.
type SaleResponse struct {
	ID          string             `json:"id"`
	Date        time.Time          `json:"date"`
	Quantity    int64              `json:"quantity"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	CreatedBy   string             `json:"created_by,omitempty"`
	Items       []SaleItemResponse `json:"items"`
}

// SaleFromEntity convierte la entidad en su DTO de salida.
func SaleFromEntity(s *entity.Sale) SaleResponse {
	resp := SaleResponse{
		ID:          s.ID,
		Date:        s.Date,
		Quantity:    s.Quantity,
		TotalAmount: s.TotalAmount,
		CreatedBy:   s.CreatedBy,
		Items:       make([]SaleItemResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		})
	}
	return resp
}

// SaleCSVRow fila del export CSV de ventas (una por ítem).
type SaleCSVRow struct {
	SaleID    string `csv:"sale_id"`
	Date      string `csv:"date"`
	ProductID string `csv:"product_id"`
	Quantity  int64  `csv:"quantity"`
	UnitPrice string `csv:"unit_price"`
	Subtotal  string `csv:"subtotal"`
	SaleTotal string `csv:"sale_total"`
}
