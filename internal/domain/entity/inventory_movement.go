package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntry      = "entry"
	MovementTypeExit       = "exit"
	MovementTypeAdjustment = "adjustment"
	MovementTypeReturn     = "return"
	MovementTypeTransfer   = "transfer"
)

// Tipos de referencia: qué operación causó el movimiento.
const (
	ReferenceSale                 = "sale"
	ReferencePurchase             = "purchase"
	ReferenceAdjustment           = "adjustment"
	ReferenceReturn               = "return"
	ReferenceSaleCancellation     = "sale_cancellation"
	ReferencePurchaseCancellation = "purchase_cancellation"
)

// InventoryMovement es el registro inmutable de un cambio de stock: nunca se
// actualiza ni se borra. Quantity lleva signo (negativo en salidas);
// PreviousStock y NewStock acotan el cambio para auditoría.
type InventoryMovement struct {
	ID            string
	ProductID     string
	Type          string
	Quantity      decimal.Decimal
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	ReferenceType string
	ReferenceID   string
	UserID        string
	Notes         string
	CreatedAt     time.Time
}
