package repository

import (
	"github.com/shopspring/decimal"

	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search     string // se normaliza sin tildes contra nombre y SKU
	CategoryID string
	Status     string
	Limit      int
	Offset     int
}

// ProductRepository puerto de persistencia de productos.
// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE): es la pieza que
// serializa el chequeo de stock con su decremento dentro de la transacción.
type ProductRepository interface {
	Create(p *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByIDForUpdate(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	List(f ProductFilter) ([]*entity.Product, error)
	Update(p *entity.Product) error
	UpdateStock(id string, stock decimal.Decimal) error
	UpdateCost(id string, cost decimal.Decimal) error
	SetStatus(id, status string) error
	ListBelowMinStock() ([]*entity.Product, error)
}
