package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements
// (ajustes y devoluciones manuales; ventas y compras generan los suyos).
type RegisterMovementRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Type      string          `json:"type" validate:"required,oneof=entry exit adjustment return"`
	Quantity  decimal.Decimal `json:"quantity"` // con signo en adjustment
	Notes     string          `json:"notes"`
}

// MovementResponse movimiento en respuestas (kardex).
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	UserID        string          `json:"user_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items  []MovementResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// LowStockProductDTO producto por debajo de su stock mínimo.
type LowStockProductDTO struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku,omitempty"`
	Name      string          `json:"name"`
	Stock     decimal.Decimal `json:"stock"`
	MinStock  decimal.Decimal `json:"min_stock"`
	Suggested decimal.Decimal `json:"suggested_order"` // max_stock − stock, si max definido
}
