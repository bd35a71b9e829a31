package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/reporting"
)

// ReportHandler expone las consultas de solo lectura del ledger (protegido).
type ReportHandler struct {
	reader *reporting.LedgerReader
}

// NewReportHandler construye el handler.
func NewReportHandler(reader *reporting.LedgerReader) *ReportHandler {
	return &ReportHandler{reader: reader}
}

// Summary godoc
// @Summary      Resumen del dashboard
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.reader.Summary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// ProductCount godoc
// @Summary      Total de productos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountDTO
// @Router       /api/reports/products [get]
func (h *ReportHandler) ProductCount(c *fiber.Ctx) error {
	n, err := h.reader.TotalProducts(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CountDTO{Count: n})
}

// StockValue godoc
// @Summary      Valor total del inventario (Σ stock × precio)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockValueDTO
// @Router       /api/reports/stock-value [get]
func (h *ReportHandler) StockValue(c *fiber.Ctx) error {
	v, err := h.reader.TotalStockValue(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockValueDTO{TotalStockValue: v})
}

// OutOfStock godoc
// @Summary      Productos agotados (stock = 0)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountDTO
// @Router       /api/reports/out-of-stock [get]
func (h *ReportHandler) OutOfStock(c *fiber.Ctx) error {
	n, err := h.reader.OutOfStockCount(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CountDTO{Count: n})
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        mode  query  string  false  "configured | computed | combined (default: configuración)"
// @Success      200  {object}  dto.CountDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	mode, err := h.reader.ResolveMode(c.Query("mode"))
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.reader.LowStockCount(c.Context(), mode)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CountDTO{Count: n, Mode: string(mode)})
}

// LowStockProducts godoc
// @Summary      Detalle de productos con stock bajo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        mode  query  string  false  "configured | computed | combined"
// @Success      200  {array}   dto.LowStockProductDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/low-stock/products [get]
func (h *ReportHandler) LowStockProducts(c *fiber.Ctx) error {
	mode, err := h.reader.ResolveMode(c.Query("mode"))
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.reader.LowStockProducts(c.Context(), mode)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// SalesByDate godoc
// @Summary      Ventas de un día
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD (default: hoy)"
// @Success      200  {array}   dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) SalesByDate(c *fiber.Ctx) error {
	day, err := h.reader.ParseDate(c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.reader.SalesByDate(c.Context(), day)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// SalesCSV godoc
// @Summary      Ventas de un día en CSV (una fila por ítem)
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Param        date  query  string  false  "YYYY-MM-DD (default: hoy)"
// @Success      200  {file}  binary
// @Router       /api/reports/sales.csv [get]
func (h *ReportHandler) SalesCSV(c *fiber.Ctx) error {
	day, err := h.reader.ParseDate(c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	data, filename, err := h.reader.ExportSalesCSV(c.Context(), day)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

// Categories godoc
// @Summary      Distribución del inventario por categoría
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryDistributionDTO
// @Router       /api/reports/categories [get]
func (h *ReportHandler) Categories(c *fiber.Ctx) error {
	list, err := h.reader.CategoryDistribution(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// DailySales godoc
// @Summary      Ventas por día
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "YYYY-MM-DD"
// @Param        to    query  string  true  "YYYY-MM-DD (inclusive)"
// @Success      200  {array}   dto.DailySalesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/daily-sales [get]
func (h *ReportHandler) DailySales(c *fiber.Ctx) error {
	from, err := h.reader.ParseDate(c.Query("from"))
	if err != nil {
		return writeError(c, err)
	}
	to, err := h.reader.ParseDate(c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.reader.DailySales(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// DailyAdjustments godoc
// @Summary      Ajustes por día
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "YYYY-MM-DD"
// @Param        to    query  string  true  "YYYY-MM-DD (inclusive)"
// @Success      200  {array}   dto.DailyAdjustmentsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/daily-adjustments [get]
func (h *ReportHandler) DailyAdjustments(c *fiber.Ctx) error {
	from, err := h.reader.ParseDate(c.Query("from"))
	if err != nil {
		return writeError(c, err)
	}
	to, err := h.reader.ParseDate(c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.reader.DailyAdjustments(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
