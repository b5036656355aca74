package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta: producto, cantidad, precio y porcentajes
// de descuento/impuesto por línea.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"` // si es cero se toma el precio del producto
	Discount  decimal.Decimal `json:"discount"`   // %
	Tax       decimal.Decimal `json:"tax"`        // %
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID    string            `json:"customer_id"`
	ClientName    string            `json:"client_name"` // por defecto "Público General"
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount      decimal.Decimal   `json:"discount"` // % global
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=cash card transfer credit"`
	PaymentStatus string            `json:"payment_status" validate:"omitempty,oneof=pending partial paid"`
	Notes         string            `json:"notes"`
}

// UpdateSalePaymentRequest body para PATCH /api/sales/:id: los únicos
// campos mutables después de congelar los totales.
type UpdateSalePaymentRequest struct {
	PaymentMethod *string `json:"payment_method" validate:"omitempty,oneof=cash card transfer credit"`
	PaymentStatus *string `json:"payment_status" validate:"omitempty,oneof=pending partial paid"`
	Notes         *string `json:"notes"`
}

// SaleItemResponse línea en respuestas.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Tax         decimal.Decimal `json:"tax"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	CustomerID    string             `json:"customer_id,omitempty"`
	ClientName    string             `json:"client_name"`
	UserID        string             `json:"user_id"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	PaymentStatus string             `json:"payment_status"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleItemResponse `json:"items"`
}

// SaleListResponse listado paginado de ventas (sin líneas).
type SaleListResponse struct {
	Items  []SaleResponse `json:"items"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
