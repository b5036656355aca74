package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de compra. El stock solo se afecta en la transición a received;
// una compra pending/draft cancelada nunca tocó inventario.
const (
	PurchaseStatusDraft     = "draft"
	PurchaseStatusPending   = "pending"
	PurchaseStatusReceived  = "received"
	PurchaseStatusCancelled = "cancelled"
)

// Purchase representa una orden de compra a proveedor.
// Ciclo: pending/draft → received (única transición que afecta stock)
// o pending/draft → cancelled; received → cancelled reversa el stock.
type Purchase struct {
	ID             string
	PurchaseNumber string // PURCH-{YYYY}-{00001}, único
	SupplierID     string
	UserID         string
	InvoiceNumber  string // folio de la factura del proveedor, opcional
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	PaymentStatus  string
	Status         string
	ExpectedDate   *time.Time
	ReceivedDate   *time.Time
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PurchaseItem representa una línea de compra (producto, cantidad, costo unitario).
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal // Quantity × UnitCost
}
