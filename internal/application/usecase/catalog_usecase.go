package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/dto"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

// CategoryUseCase CRUD de categorías.
type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryUseCase(categoryRepo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo}
}

func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	return toCategoryResponse(category), nil
}

func (uc *CategoryUseCase) List(ctx context.Context, limit, offset int) ([]dto.CategoryResponse, error) {
	categories, err := uc.categoryRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	category, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	category.Name = in.Name
	category.Description = in.Description
	category.UpdatedAt = time.Now()
	if err := uc.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Delete borra la categoría. Los productos que la referencian quedan con
// category_id en NULL (ON DELETE SET NULL en el esquema).
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	category, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}
	return uc.categoryRepo.Delete(id)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

// SupplierUseCase CRUD de proveedores.
type SupplierUseCase struct {
	supplierRepo repository.SupplierRepository
}

func NewSupplierUseCase(supplierRepo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{supplierRepo: supplierRepo}
}

func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:          uuid.New().String(),
		Name:        in.Name,
		ContactName: in.ContactName,
		TaxID:       in.TaxID,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(supplier), nil
}

func (uc *SupplierUseCase) List(ctx context.Context, limit, offset int) ([]dto.SupplierResponse, error) {
	suppliers, err := uc.supplierRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	supplier.Name = in.Name
	supplier.ContactName = in.ContactName
	supplier.TaxID = in.TaxID
	supplier.Email = in.Email
	supplier.Phone = in.Phone
	supplier.Address = in.Address
	supplier.UpdatedAt = time.Now()
	if err := uc.supplierRepo.Update(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// Deactivate baja lógica: el historial de compras del proveedor se conserva.
func (uc *SupplierUseCase) Deactivate(ctx context.Context, id string) error {
	supplier, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.ErrNotFound
	}
	return uc.supplierRepo.SetStatus(id, "inactive")
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		ContactName: s.ContactName,
		TaxID:       s.TaxID,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		Status:      s.Status,
	}
}

// CustomerUseCase CRUD de clientes.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerUseCase(customerRepo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo}
}

func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.CreditLimit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	customerType := in.CustomerType
	if customerType == "" {
		customerType = entity.CustomerTypeIndividual
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:           uuid.New().String(),
		Name:         in.Name,
		CustomerType: customerType,
		TaxID:        in.TaxID,
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      in.Address,
		CreditLimit:  in.CreditLimit,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer), nil
}

func (uc *CustomerUseCase) List(ctx context.Context, limit, offset int) ([]dto.CustomerResponse, error) {
	customers, err := uc.customerRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, *toCustomerResponse(c))
	}
	return out, nil
}

func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.CreditLimit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	customer.Name = in.Name
	if in.CustomerType != "" {
		customer.CustomerType = in.CustomerType
	}
	customer.TaxID = in.TaxID
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.Address = in.Address
	customer.CreditLimit = in.CreditLimit
	customer.UpdatedAt = time.Now()
	if err := uc.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Deactivate baja lógica del cliente.
func (uc *CustomerUseCase) Deactivate(ctx context.Context, id string) error {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	return uc.customerRepo.SetStatus(id, "inactive")
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		CustomerType:  c.CustomerType,
		TaxID:         c.TaxID,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		CreditLimit:   c.CreditLimit,
		CreditBalance: c.CreditBalance,
		Status:        c.Status,
	}
}
