package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ferreteria-pro/ferreteria-api/internal/domain"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, purchase_number, supplier_id, user_id, invoice_number, subtotal, tax, total, payment_status, status, expected_date, received_date, notes, created_at, updated_at`

// PurchaseRepo implementación sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera de la compra.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, purchase_number, supplier_id, user_id, invoice_number, subtotal, tax, total, payment_status, status, expected_date, received_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.PurchaseNumber, purchase.SupplierID, purchase.UserID,
		purchase.InvoiceNumber, purchase.Subtotal, purchase.Tax, purchase.Total,
		purchase.PaymentStatus, purchase.Status, purchase.ExpectedDate, purchase.ReceivedDate,
		purchase.Notes, purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de compra.
func (r *PurchaseRepo) CreateItem(item *entity.PurchaseItem) error {
	query := `
		INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.PurchaseID, item.ProductID, item.Quantity, item.UnitCost, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

// GetByID obtiene una compra por ID.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	return scanPurchaseRow(r.q.QueryRow(context.Background(), query, id), "get purchase")
}

// GetByIDForUpdate obtiene una compra bloqueando la fila. La recepción y
// la cancelación lo usan: dos recepciones concurrentes se serializan y la
// segunda ve received.
func (r *PurchaseRepo) GetByIDForUpdate(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1 FOR UPDATE`
	return scanPurchaseRow(r.q.QueryRow(context.Background(), query, id), "get purchase for update")
}

// GetItems obtiene las líneas de una compra.
func (r *PurchaseRepo) GetItems(purchaseID string) ([]*entity.PurchaseItem, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_cost, subtotal
		FROM purchase_items WHERE purchase_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.UnitCost, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List lista compras con filtros y paginación.
func (r *PurchaseRepo) List(f repository.PurchaseFilter) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE 1=1`
	var args []any
	pos := 1
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.SupplierID != "" {
		query += fmt.Sprintf(" AND supplier_id = $%d", pos)
		args = append(args, f.SupplierID)
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
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza estado, fechas, pago y notas. Los totales y las líneas
// quedan congelados desde la creación.
func (r *PurchaseRepo) Update(purchase *entity.Purchase) error {
	query := `
		UPDATE purchases SET invoice_number = $2, payment_status = $3, status = $4, expected_date = $5, received_date = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.InvoiceNumber, purchase.PaymentStatus, purchase.Status,
		purchase.ExpectedDate, purchase.ReceivedDate, purchase.Notes, purchase.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	return nil
}

func scanPurchaseRow(row pgx.Row, op string) (*entity.Purchase, error) {
	p, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanPurchase(row pgxScanner) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(
		&p.ID, &p.PurchaseNumber, &p.SupplierID, &p.UserID, &p.InvoiceNumber,
		&p.Subtotal, &p.Tax, &p.Total, &p.PaymentStatus, &p.Status,
		&p.ExpectedDate, &p.ReceivedDate, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
