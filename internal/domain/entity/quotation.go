package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de cotización. converted marca que ya generó una venta y cierra
// la ventana de doble conversión.
const (
	QuotationStatusDraft     = "draft"
	QuotationStatusSent      = "sent"
	QuotationStatusAccepted  = "accepted"
	QuotationStatusRejected  = "rejected"
	QuotationStatusExpired   = "expired"
	QuotationStatusConverted = "converted"
)

// QuotationConvertibleStatus es el único estado desde el cual una cotización
// puede convertirse en venta. Una sola constante: cambiarla es una decisión
// de producto, no dos ramas divergentes.
const QuotationConvertibleStatus = QuotationStatusAccepted

// Quotation representa una cotización. Nunca afecta stock; al convertirse,
// la venta resultante queda referenciada en ConvertedSaleID.
type Quotation struct {
	ID              string
	QuotationNumber string // COT-{YYYY}-{00001}
	CustomerID      string
	ClientName      string
	UserID          string
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	ValidUntil      *time.Time
	Status          string
	ConvertedSaleID string // ID de la venta generada, vacío si no convertida
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// QuotationItem línea de cotización. ProductName es un snapshot: la
// cotización debe seguir legible aunque el producto cambie de nombre.
type QuotationItem struct {
	ID          string
	QuotationID string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal // porcentaje por línea
	Tax         decimal.Decimal // porcentaje por línea
	Subtotal    decimal.Decimal
}
