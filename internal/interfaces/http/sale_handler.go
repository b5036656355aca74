package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/dto"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/sales"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

// SaleHandler maneja las peticiones HTTP de ventas (protegido).
type SaleHandler struct {
	uc    *sales.SaleUseCase
	pdfUC *sales.PDFUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, pdfUC *sales.PDFUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Crear venta
// @Description  Valida stock, lo descuenta y congela totales en una transacción.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateSaleRequest  true  "venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	sale, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        status          query  string  false  "draft | completed | cancelled"
// @Param        payment_status  query  string  false  "pending | partial | paid"
// @Param        customer_id     query  string  false  "filtrar por cliente"
// @Param        from            query  string  false  "fecha inicial YYYY-MM-DD"
// @Param        to              query  string  false  "fecha final YYYY-MM-DD"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.List(c.Context(), repository.SaleFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		CustomerID:    c.Query("customer_id"),
		From:          from,
		To:            to,
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de ventas
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SalesStatsResponse
// @Router       /api/sales/stats [get]
func (h *SaleHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de venta
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

// UpdatePayment godoc
// @Summary      Actualizar pago y notas de una venta
// @Description  Los totales y las líneas están congelados; solo cambian método, estado de pago y notas.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true  "ID de la venta"
// @Param        body  body  dto.UpdateSalePaymentRequest true  "campos de pago"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse  "venta cancelada"
// @Router       /api/sales/{id} [patch]
func (h *SaleHandler) UpdatePayment(c *fiber.Ctx) error {
	var in dto.UpdateSalePaymentRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	sale, err := h.uc.UpdatePayment(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

// Cancel godoc
// @Summary      Cancelar venta
// @Description  Transición a cancelled: repone el stock con movimientos compensatorios. La fila se conserva.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la venta"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "ya cancelada"
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PDF godoc
// @Summary      Factura en PDF
// @Tags         sales
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/pdf [get]
func (h *SaleHandler) PDF(c *fiber.Ctx) error {
	saleID := c.Params("id")
	data, err := h.pdfUC.InvoicePDF(c.Context(), saleID)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "factura-"+saleID+".pdf"))
	return c.Send(data)
}

// parseDateRange lee from/to (YYYY-MM-DD) del query string. to se extiende
// al final del día para que el rango sea inclusivo.
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, fmt.Errorf("from inválido, formato YYYY-MM-DD")
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, fmt.Errorf("to inválido, formato YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}
