package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ferreteria-pro/ferreteria-api/internal/domain"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, price, cost, stock, min_stock, max_stock, unit, category_id, status, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, description, price, cost, stock, min_stock, max_stock, unit, category_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	sku := (*string)(nil)
	if product.SKU != "" {
		sku = &product.SKU
	}
	categoryID := (*string)(nil)
	if product.CategoryID != "" {
		categoryID = &product.CategoryID
	}
	_, err := r.q.Exec(context.Background(), query,
		product.ID, sku, product.Name, product.Description,
		product.Price, product.Cost, product.Stock, product.MinStock, product.MaxStock,
		product.Unit, categoryID, product.Status, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product")
}

// GetByIDForUpdate obtiene un producto bloqueando la fila (SELECT FOR UPDATE).
// Debe llamarse dentro de una transacción: el lock serializa el chequeo de
// stock con su actualización.
func (r *ProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product for update")
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, sku), "get product by sku")
}

// List lista productos con filtros y paginación. La búsqueda compara sin
// tildes: "tornillo fijación" y "tornillo fijacion" dan lo mismo.
func (r *ProductRepo) List(f repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	var args []any
	pos := 1
	if f.Search != "" {
		pattern := "%" + strings.ToLower(stripAccents(f.Search)) + "%"
		query += fmt.Sprintf(
			" AND (translate(lower(name), 'áéíóúüñ', 'aeiouun') LIKE $%d OR lower(coalesce(sku, '')) LIKE $%d)",
			pos, pos)
		args = append(args, pattern)
		pos++
	}
	if f.CategoryID != "" {
		query += fmt.Sprintf(" AND category_id = $%d", pos)
		args = append(args, f.CategoryID)
		pos++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza los datos del producto. Stock y Cost no pasan por aquí:
// se mueven vía UpdateStock y UpdateCost dentro de las operaciones.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, min_stock = $5, max_stock = $6, unit = $7, category_id = $8, updated_at = $9
		WHERE id = $1`
	categoryID := (*string)(nil)
	if product.CategoryID != "" {
		categoryID = &product.CategoryID
	}
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.Price,
		product.MinStock, product.MaxStock, product.Unit, categoryID, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock fija el stock del producto. Solo las operaciones (venta,
// recepción, ajuste) lo invocan, siempre bajo lock de la fila.
func (r *ProductRepo) UpdateStock(id string, stock decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`,
		id, stock,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// UpdateCost actualiza solo el costo del producto (último costo de compra).
func (r *ProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`,
		id, cost,
	)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

// SetStatus cambia el estado del producto (baja/alta lógica).
func (r *ProductRepo) SetStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("set product status: %w", err)
	}
	return nil
}

// ListBelowMinStock productos activos en o por debajo de su stock mínimo.
func (r *ProductRepo) ListBelowMinStock() ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE status = 'active' AND min_stock > 0 AND stock <= min_stock
		ORDER BY stock / min_stock ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list below min stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

type pgxScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row pgxScanner) (*entity.Product, error) {
	var p entity.Product
	var sku, categoryID *string
	err := row.Scan(
		&p.ID, &sku, &p.Name, &p.Description, &p.Price, &p.Cost,
		&p.Stock, &p.MinStock, &p.MaxStock, &p.Unit, &categoryID,
		&p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sku != nil {
		p.SKU = *sku
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	return &p, nil
}

// stripAccents elimina las marcas diacríticas (NFD + remoción de Mn + NFC).
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
