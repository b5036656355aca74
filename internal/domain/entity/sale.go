package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de venta. La cancelación es una transición de estado que conserva
// la fila y sus líneas; el stock repuesto queda registrado en movimientos.
const (
	SaleStatusDraft     = "draft"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// Métodos de pago.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCredit   = "credit"
)

// Estados de pago.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Nombre de cliente por defecto en ventas de mostrador sin cliente registrado.
const DefaultClientName = "Público General"

// Sale representa una venta. Invariante: Total = Subtotal - Discount + Tax,
// congelado al momento de la creación.
type Sale struct {
	ID            string
	InvoiceNumber string // SALE-{YYYY}-{00001}, único
	CustomerID    string // vacío en venta de mostrador
	ClientName    string
	UserID        string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal // monto del descuento global
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	PaymentStatus string
	Status        string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleItem representa una línea de venta; pertenece a exactamente una venta
// y se persiste en la misma transacción que la cabecera.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  decimal.Decimal // > 0
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal // porcentaje por línea
	Tax       decimal.Decimal // porcentaje por línea
	Subtotal  decimal.Decimal // Quantity × UnitPrice
	Total     decimal.Decimal // Subtotal - descuento + impuesto de línea
}
