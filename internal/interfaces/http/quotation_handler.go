package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/dto"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/quotations"
)

// QuotationHandler maneja las peticiones HTTP de cotizaciones (protegido).
type QuotationHandler struct {
	uc *quotations.QuotationUseCase
}

// NewQuotationHandler construye el handler.
func NewQuotationHandler(uc *quotations.QuotationUseCase) *QuotationHandler {
	return &QuotationHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cotización
// @Description  Misma aritmética de totales que una venta, sin tocar stock.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateQuotationRequest  true  "cotización"
// @Success      201   {object}  dto.QuotationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/quotations [post]
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuotationRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	quotation, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(quotation)
}

// List godoc
// @Summary      Listar cotizaciones
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "draft | sent | accepted | rejected | expired | converted"
// @Success      200  {object}  dto.QuotationListResponse
// @Router       /api/quotations [get]
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de cotización
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuotationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotations/{id} [get]
func (h *QuotationHandler) GetByID(c *fiber.Ctx) error {
	quotation, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quotation)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de cotización
// @Description  converted no se asigna por esta vía; usar /convert-to-sale.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                            true  "ID de la cotización"
// @Param        body  body  dto.UpdateQuotationStatusRequest  true  "nuevo estado"
// @Success      200   {object}  dto.QuotationResponse
// @Failure      409   {object}  dto.ErrorResponse  "ya convertida"
// @Router       /api/quotations/{id}/status [patch]
func (h *QuotationHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateQuotationStatusRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	quotation, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quotation)
}

// ConvertToSale godoc
// @Summary      Convertir cotización en venta
// @Description  Solo cotizaciones aceptadas. Crea la venta con los precios cotizados, descuenta stock y marca converted, todo en una transacción.
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la cotización"
// @Success      201  {object}  dto.QuotationResponse
// @Failure      409  {object}  dto.ErrorResponse  "no convertible o stock insuficiente"
// @Router       /api/quotations/{id}/convert-to-sale [post]
func (h *QuotationHandler) ConvertToSale(c *fiber.Ctx) error {
	quotation, sale, err := h.uc.ConvertToSale(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"quotation": quotation,
		"sale_id":   sale.ID,
	})
}
