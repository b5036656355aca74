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

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

const quotationColumns = `id, quotation_number, customer_id, client_name, user_id, subtotal, discount, tax, total, valid_until, status, converted_sale_id, notes, created_at, updated_at`

// QuotationRepo implementación sobre PostgreSQL (usable con pool o tx).
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

// Create persiste la cabecera de la cotización.
func (r *QuotationRepo) Create(quotation *entity.Quotation) error {
	query := `
		INSERT INTO quotations (id, quotation_number, customer_id, client_name, user_id, subtotal, discount, tax, total, valid_until, status, converted_sale_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	customerID := (*string)(nil)
	if quotation.CustomerID != "" {
		customerID = &quotation.CustomerID
	}
	convertedSaleID := (*string)(nil)
	if quotation.ConvertedSaleID != "" {
		convertedSaleID = &quotation.ConvertedSaleID
	}
	_, err := r.q.Exec(context.Background(), query,
		quotation.ID, quotation.QuotationNumber, customerID, quotation.ClientName, quotation.UserID,
		quotation.Subtotal, quotation.Discount, quotation.Tax, quotation.Total,
		quotation.ValidUntil, quotation.Status, convertedSaleID, quotation.Notes,
		quotation.CreatedAt, quotation.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quotation: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de cotización con su snapshot de nombre.
func (r *QuotationRepo) CreateItem(item *entity.QuotationItem) error {
	query := `
		INSERT INTO quotation_items (id, quotation_id, product_id, product_name, quantity, unit_price, discount, tax, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.QuotationID, item.ProductID, item.ProductName,
		item.Quantity, item.UnitPrice, item.Discount, item.Tax, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert quotation item: %w", err)
	}
	return nil
}

// GetByID obtiene una cotización por ID.
func (r *QuotationRepo) GetByID(id string) (*entity.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1`
	return scanQuotationRow(r.q.QueryRow(context.Background(), query, id), "get quotation")
}

// GetByIDForUpdate obtiene una cotización bloqueando la fila. La conversión
// a venta lo usa: dos conversiones concurrentes se serializan y la segunda
// ve converted.
func (r *QuotationRepo) GetByIDForUpdate(id string) (*entity.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1 FOR UPDATE`
	return scanQuotationRow(r.q.QueryRow(context.Background(), query, id), "get quotation for update")
}

// GetItems obtiene las líneas de una cotización.
func (r *QuotationRepo) GetItems(quotationID string) ([]*entity.QuotationItem, error) {
	query := `
		SELECT id, quotation_id, product_id, product_name, quantity, unit_price, discount, tax, subtotal
		FROM quotation_items WHERE quotation_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, quotationID)
	if err != nil {
		return nil, fmt.Errorf("get quotation items: %w", err)
	}
	defer rows.Close()
	var list []*entity.QuotationItem
	for rows.Next() {
		var it entity.QuotationItem
		if err := rows.Scan(&it.ID, &it.QuotationID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.Discount, &it.Tax, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan quotation item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List lista cotizaciones, opcionalmente por estado.
func (r *QuotationRepo) List(status string, limit, offset int) ([]*entity.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE 1=1`
	var args []any
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quotation
	for rows.Next() {
		qt, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		list = append(list, qt)
	}
	return list, rows.Err()
}

// Update actualiza estado, conversión, vigencia y notas.
func (r *QuotationRepo) Update(quotation *entity.Quotation) error {
	query := `
		UPDATE quotations SET status = $2, converted_sale_id = $3, valid_until = $4, notes = $5, updated_at = $6
		WHERE id = $1`
	convertedSaleID := (*string)(nil)
	if quotation.ConvertedSaleID != "" {
		convertedSaleID = &quotation.ConvertedSaleID
	}
	_, err := r.q.Exec(context.Background(), query,
		quotation.ID, quotation.Status, convertedSaleID, quotation.ValidUntil,
		quotation.Notes, quotation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quotation: %w", err)
	}
	return nil
}

func scanQuotationRow(row pgx.Row, op string) (*entity.Quotation, error) {
	qt, err := scanQuotation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return qt, nil
}

func scanQuotation(row pgxScanner) (*entity.Quotation, error) {
	var qt entity.Quotation
	var customerID, convertedSaleID *string
	err := row.Scan(
		&qt.ID, &qt.QuotationNumber, &customerID, &qt.ClientName, &qt.UserID,
		&qt.Subtotal, &qt.Discount, &qt.Tax, &qt.Total,
		&qt.ValidUntil, &qt.Status, &convertedSaleID, &qt.Notes,
		&qt.CreatedAt, &qt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if customerID != nil {
		qt.CustomerID = *customerID
	}
	if convertedSaleID != nil {
		qt.ConvertedSaleID = *convertedSaleID
	}
	return &qt, nil
}
