package postgres

import (
	"context"
	"fmt"

	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// Los movimientos solo se insertan: la tabla es un log de auditoría.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(movement *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, product_id, type, quantity, previous_stock, new_stock, reference_type, reference_id, user_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	referenceID := (*string)(nil)
	if movement.ReferenceID != "" {
		referenceID = &movement.ReferenceID
	}
	userID := (*string)(nil)
	if movement.UserID != "" {
		userID = &movement.UserID
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.PreviousStock, movement.NewStock, movement.ReferenceType,
		referenceID, userID, movement.Notes, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// List lista movimientos con filtros (kardex): más recientes primero.
func (r *InventoryMovementRepo) List(f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, previous_stock, new_stock, reference_type, reference_id, user_id, notes, created_at
		FROM inventory_movements WHERE 1=1`
	var args []any
	pos := 1
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, f.Type)
		pos++
	}
	if f.ReferenceType != "" {
		query += fmt.Sprintf(" AND reference_type = $%d", pos)
		args = append(args, f.ReferenceType)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var referenceID, userID *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity,
			&m.PreviousStock, &m.NewStock, &m.ReferenceType,
			&referenceID, &userID, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if referenceID != nil {
			m.ReferenceID = *referenceID
		}
		if userID != nil {
			m.UserID = *userID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
