package repository

import "github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"

// CategoryRepository puerto de persistencia de categorías.
type CategoryRepository interface {
	Create(c *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	List(limit, offset int) ([]*entity.Category, error)
	Update(c *entity.Category) error
	Delete(id string) error
}

// SupplierRepository puerto de persistencia de proveedores.
type SupplierRepository interface {
	Create(s *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List(limit, offset int) ([]*entity.Supplier, error)
	Update(s *entity.Supplier) error
	SetStatus(id, status string) error
}

// CustomerRepository puerto de persistencia de clientes.
type CustomerRepository interface {
	Create(c *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	List(limit, offset int) ([]*entity.Customer, error)
	Update(c *entity.Customer) error
	SetStatus(id, status string) error
}

// UserRepository puerto de persistencia de usuarios.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	List(limit, offset int) ([]*entity.User, error)
}
