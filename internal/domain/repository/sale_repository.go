package repository

import (
	"time"

	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas.
type SaleFilter struct {
	Status        string
	PaymentStatus string
	CustomerID    string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// SaleRepository puerto de persistencia de ventas y sus líneas.
type SaleRepository interface {
	Create(s *entity.Sale) error
	CreateItem(it *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	GetByIDForUpdate(id string) (*entity.Sale, error)
	GetItems(saleID string) ([]*entity.SaleItem, error)
	List(f SaleFilter) ([]*entity.Sale, error)
	Update(s *entity.Sale) error
}

// PurchaseFilter filtros del listado de compras.
type PurchaseFilter struct {
	Status     string
	SupplierID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// PurchaseRepository puerto de persistencia de compras y sus líneas.
type PurchaseRepository interface {
	Create(p *entity.Purchase) error
	CreateItem(it *entity.PurchaseItem) error
	GetByID(id string) (*entity.Purchase, error)
	GetByIDForUpdate(id string) (*entity.Purchase, error)
	GetItems(purchaseID string) ([]*entity.PurchaseItem, error)
	List(f PurchaseFilter) ([]*entity.Purchase, error)
	Update(p *entity.Purchase) error
}

// QuotationRepository puerto de persistencia de cotizaciones.
type QuotationRepository interface {
	Create(q *entity.Quotation) error
	CreateItem(it *entity.QuotationItem) error
	GetByID(id string) (*entity.Quotation, error)
	GetByIDForUpdate(id string) (*entity.Quotation, error)
	GetItems(quotationID string) ([]*entity.QuotationItem, error)
	List(status string, limit, offset int) ([]*entity.Quotation, error)
	Update(q *entity.Quotation) error
}
