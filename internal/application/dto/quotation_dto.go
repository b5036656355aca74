package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuotationRequest body para POST /api/quotations. Reutiliza las
// líneas de venta: misma aritmética de totales, cero efecto sobre stock.
type CreateQuotationRequest struct {
	CustomerID string            `json:"customer_id"`
	ClientName string            `json:"client_name"`
	Items      []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount   decimal.Decimal   `json:"discount"` // % global
	ValidUntil *time.Time        `json:"valid_until"`
	Notes      string            `json:"notes"`
}

// UpdateQuotationStatusRequest body para PATCH /api/quotations/:id/status.
type UpdateQuotationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent accepted rejected expired"`
}

// QuotationItemResponse línea de cotización en respuestas.
type QuotationItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Tax         decimal.Decimal `json:"tax"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// QuotationResponse cotización con sus líneas.
type QuotationResponse struct {
	ID              string                  `json:"id"`
	QuotationNumber string                  `json:"quotation_number"`
	CustomerID      string                  `json:"customer_id,omitempty"`
	ClientName      string                  `json:"client_name"`
	UserID          string                  `json:"user_id"`
	Subtotal        decimal.Decimal         `json:"subtotal"`
	Discount        decimal.Decimal         `json:"discount"`
	Tax             decimal.Decimal         `json:"tax"`
	Total           decimal.Decimal         `json:"total"`
	ValidUntil      *time.Time              `json:"valid_until,omitempty"`
	Status          string                  `json:"status"`
	ConvertedSaleID string                  `json:"converted_sale_id,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	Items           []QuotationItemResponse `json:"items"`
}

// QuotationListResponse listado paginado.
type QuotationListResponse struct {
	Items  []QuotationResponse `json:"items"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}
