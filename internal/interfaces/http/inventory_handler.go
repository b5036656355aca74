package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/dto"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/inventory"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP de inventario (protegido).
type InventoryHandler struct {
	uc *inventory.InventoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual de inventario
// @Description  Ajustes, devoluciones y entradas/salidas sueltas. El stock nunca queda negativo.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RegisterMovementRequest  true  "movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	movement, err := h.uc.RegisterMovement(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movement)
}

// ListMovements godoc
// @Summary      Kardex de movimientos
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        product_id      query  string  false  "filtrar por producto"
// @Param        type            query  string  false  "entry | exit | adjustment | return"
// @Param        reference_type  query  string  false  "sale | purchase | adjustment | return | sale_cancellation | purchase_cancellation"
// @Param        from            query  string  false  "fecha inicial YYYY-MM-DD"
// @Param        to              query  string  false  "fecha final YYYY-MM-DD"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.ListMovements(c.Context(), repository.MovementFilter{
		ProductID:     c.Query("product_id"),
		Type:          c.Query("type"),
		ReferenceType: c.Query("reference_type"),
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

// ProductMovements godoc
// @Summary      Kardex de un producto
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ProductMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.ListMovements(c.Context(), repository.MovementFilter{
		ProductID: c.Params("id"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos bajo stock mínimo
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.LowStockProductDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
