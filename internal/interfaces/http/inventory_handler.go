package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/reporting"
)

// InventoryHandler maneja los ajustes manuales de stock (protegido).
type InventoryHandler struct {
	uc     *inventory.RecordAdjustmentUseCase
	reader *reporting.LedgerReader
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RecordAdjustmentUseCase, reader *reporting.LedgerReader) *InventoryHandler {
	return &InventoryHandler{uc: uc, reader: reader}
}

// RecordAdjustment godoc
// @Summary      Registrar ajuste de stock
// @Description  ADD suma y REDUCE resta la cantidad; el cambio de stock y la fila de auditoría se confirman juntos.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordAdjustmentRequest  true  "product_id, quantity (>0), kind (ADD|REDUCE), reason"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) RecordAdjustment(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordAdjustmentRequest
	if e := bindAndValidate(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	resp, err := h.uc.RecordAdjustmentFromRequest(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListByDate godoc
// @Summary      Ajustes de un día
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD (default: hoy)"
// @Success      200  {array}   dto.AdjustmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [get]
func (h *InventoryHandler) ListByDate(c *fiber.Ctx) error {
	day, err := h.reader.ParseDate(c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.reader.AdjustmentsByDate(c.Context(), day)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// ListByProduct godoc
// @Summary      Historial de ajustes de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "máx. 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}   dto.AdjustmentResponse
// @Router       /api/inventory/products/{id}/adjustments [get]
func (h *InventoryHandler) ListByProduct(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	if err := validate.Struct(page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	list, err := h.uc.ListByProduct(c.Context(), c.Params("id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
