package repository

import (
	"time"

	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos (kardex).
type MovementFilter struct {
	ProductID     string
	Type          string
	ReferenceType string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// InventoryMovementRepository puerto del log de auditoría de stock.
// Solo inserta y lee: los movimientos son inmutables.
type InventoryMovementRepository interface {
	Create(m *entity.InventoryMovement) error
	List(f MovementFilter) ([]*entity.InventoryMovement, error)
}

// SequenceRepository puerto del contador de consecutivos. Next incrementa
// atómicamente el contador de (docType, year) y devuelve el nuevo valor;
// debe invocarse dentro de la transacción del documento.
type SequenceRepository interface {
	Next(docType string, year int) (int, error)
}
