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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, invoice_number, customer_id, client_name, user_id, subtotal, discount, tax, total, payment_method, payment_status, status, notes, created_at, updated_at`

// SaleRepo implementación sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, invoice_number, customer_id, client_name, user_id, subtotal, discount, tax, total, payment_method, payment_status, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	customerID := (*string)(nil)
	if sale.CustomerID != "" {
		customerID = &sale.CustomerID
	}
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.InvoiceNumber, customerID, sale.ClientName, sale.UserID,
		sale.Subtotal, sale.Discount, sale.Tax, sale.Total,
		sale.PaymentMethod, sale.PaymentStatus, sale.Status, sale.Notes,
		sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, discount, tax, subtotal, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice,
		item.Discount, item.Tax, item.Subtotal, item.Total,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return scanSaleRow(r.q.QueryRow(context.Background(), query, id), "get sale")
}

// GetByIDForUpdate obtiene una venta bloqueando la fila. Usado por la
// cancelación para serializar la transición de estado.
func (r *SaleRepo) GetByIDForUpdate(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 FOR UPDATE`
	return scanSaleRow(r.q.QueryRow(context.Background(), query, id), "get sale for update")
}

// GetItems obtiene las líneas de una venta.
func (r *SaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, discount, tax, subtotal, total
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&it.Discount, &it.Tax, &it.Subtotal, &it.Total); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List lista ventas con filtros y paginación, más recientes primero.
func (r *SaleRepo) List(f repository.SaleFilter) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`
	var args []any
	pos := 1
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.PaymentStatus != "" {
		query += fmt.Sprintf(" AND payment_status = $%d", pos)
		args = append(args, f.PaymentStatus)
		pos++
	}
	if f.CustomerID != "" {
		query += fmt.Sprintf(" AND customer_id = $%d", pos)
		args = append(args, f.CustomerID)
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
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update actualiza estado, pago y notas de la venta. Los totales y las
// líneas están congelados: nunca se tocan después de crear.
func (r *SaleRepo) Update(sale *entity.Sale) error {
	query := `
		UPDATE sales SET payment_method = $2, payment_status = $3, status = $4, notes = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.PaymentMethod, sale.PaymentStatus, sale.Status, sale.Notes, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

func scanSaleRow(row pgx.Row, op string) (*entity.Sale, error) {
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func scanSale(row pgxScanner) (*entity.Sale, error) {
	var s entity.Sale
	var customerID *string
	err := row.Scan(
		&s.ID, &s.InvoiceNumber, &customerID, &s.ClientName, &s.UserID,
		&s.Subtotal, &s.Discount, &s.Tax, &s.Total,
		&s.PaymentMethod, &s.PaymentStatus, &s.Status, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if customerID != nil {
		s.CustomerID = *customerID
	}
	return &s, nil
}
