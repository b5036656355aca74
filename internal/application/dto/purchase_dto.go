package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea de compra: producto, cantidad y costo unitario.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseRequest body para POST /api/purchases. La creación no
// afecta stock: eso ocurre en /receive.
type CreatePurchaseRequest struct {
	SupplierID    string                `json:"supplier_id" validate:"required"`
	Items         []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
	InvoiceNumber string                `json:"invoice_number"`
	ExpectedDate  *time.Time            `json:"expected_date"`
	PaymentStatus string                `json:"payment_status" validate:"omitempty,oneof=pending partial paid"`
	Notes         string                `json:"notes"`
}

// ReceivePurchaseRequest body para POST /api/purchases/:id/receive.
type ReceivePurchaseRequest struct {
	ReceivedDate *time.Time `json:"received_date"`
	Notes        string     `json:"notes"`
}

// UpdatePurchaseRequest campos editables mientras la compra no ha sido
// recibida ni cancelada.
type UpdatePurchaseRequest struct {
	InvoiceNumber *string    `json:"invoice_number"`
	ExpectedDate  *time.Time `json:"expected_date"`
	PaymentStatus *string    `json:"payment_status" validate:"omitempty,oneof=pending partial paid"`
	Notes         *string    `json:"notes"`
}

// PurchaseItemResponse línea en respuestas.
type PurchaseItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse compra con sus líneas.
type PurchaseResponse struct {
	ID             string                 `json:"id"`
	PurchaseNumber string                 `json:"purchase_number"`
	SupplierID     string                 `json:"supplier_id"`
	SupplierName   string                 `json:"supplier_name,omitempty"`
	UserID         string                 `json:"user_id"`
	InvoiceNumber  string                 `json:"invoice_number,omitempty"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	Tax            decimal.Decimal        `json:"tax"`
	Total          decimal.Decimal        `json:"total"`
	PaymentStatus  string                 `json:"payment_status"`
	Status         string                 `json:"status"`
	ExpectedDate   *time.Time             `json:"expected_date,omitempty"`
	ReceivedDate   *time.Time             `json:"received_date,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	Items          []PurchaseItemResponse `json:"items"`
}

// PurchaseListResponse listado paginado de compras.
type PurchaseListResponse struct {
	Items  []PurchaseResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
