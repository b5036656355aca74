package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/dto"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/inventory"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/sales"
)

// ReportHandler maneja los reportes (protegido).
type ReportHandler struct {
	pdfUC       *sales.PDFUseCase
	inventoryUC *inventory.InventoryUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(pdfUC *sales.PDFUseCase, inventoryUC *inventory.InventoryUseCase) *ReportHandler {
	return &ReportHandler{pdfUC: pdfUC, inventoryUC: inventoryUC}
}

// SalesReport godoc
// @Summary      Reporte de ventas en PDF
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        from  query  string  true  "fecha inicial YYYY-MM-DD"
// @Param        to    query  string  true  "fecha final YYYY-MM-DD"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) SalesReport(c *fiber.Ctx) error {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido, formato YYYY-MM-DD"})
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido, formato YYYY-MM-DD"})
	}
	if to.Before(from) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser posterior a from"})
	}
	// Rango inclusivo: extender to al final del día
	data, err := h.pdfUC.SalesReportPDF(c.Context(), from, to.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q",
		fmt.Sprintf("ventas_%s_%s.pdf", c.Query("from"), c.Query("to"))))
	return c.Send(data)
}

// LowStockReport godoc
// @Summary      Reporte de stock bajo
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.LowStockProductDTO
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStockReport(c *fiber.Ctx) error {
	out, err := h.inventoryUC.LowStock(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
