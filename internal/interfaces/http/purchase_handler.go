package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/dto"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/purchases"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

// PurchaseHandler maneja las peticiones HTTP de compras (protegido).
type PurchaseHandler struct {
	uc *purchases.PurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchases.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra
// @Description  Registra la orden en pending. El stock no cambia hasta recibir.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreatePurchaseRequest  true  "compra"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	purchase, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(purchase)
}

// List godoc
// @Summary      Listar compras
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        status       query  string  false  "draft | pending | received | cancelled"
// @Param        supplier_id  query  string  false  "filtrar por proveedor"
// @Param        from         query  string  false  "fecha inicial YYYY-MM-DD"
// @Param        to           query  string  false  "fecha final YYYY-MM-DD"
// @Success      200  {object}  dto.PurchaseListResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.List(c.Context(), repository.PurchaseFilter{
		Status:     c.Query("status"),
		SupplierID: c.Query("supplier_id"),
		From:       from,
		To:         to,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de compras
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.PurchaseStatsResponse
// @Router       /api/purchases/stats [get]
func (h *PurchaseHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de compra
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	purchase, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(purchase)
}

// Update godoc
// @Summary      Editar compra no recibida
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                     true  "ID de la compra"
// @Param        body  body  dto.UpdatePurchaseRequest  true  "campos administrativos"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      409   {object}  dto.ErrorResponse  "ya recibida o cancelada"
// @Router       /api/purchases/{id} [put]
func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePurchaseRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	purchase, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(purchase)
}

// Receive godoc
// @Summary      Recibir mercancía
// @Description  Incrementa stock, actualiza costos (último costo gana) y marca received. Idempotente en efecto: una compra ya recibida responde 409 sin tocar stock.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                      true  "ID de la compra"
// @Param        body  body  dto.ReceivePurchaseRequest  false "fecha de recepción y notas"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      409   {object}  dto.ErrorResponse  "ya recibida o cancelada"
// @Router       /api/purchases/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if len(c.Body()) > 0 {
		if err := parseAndValidate(c, &in); err != nil {
			return err
		}
	}
	purchase, err := h.uc.Receive(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(purchase)
}

// Cancel godoc
// @Summary      Cancelar compra
// @Description  Si estaba recibida, reversa el stock con movimientos compensatorios.
// @Tags         purchases
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la compra"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "ya cancelada"
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
