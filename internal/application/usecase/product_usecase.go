// Package usecase agrupa los CRUD de catálogo: productos, categorías,
// proveedores y clientes.
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

// ProductUseCase casos de uso de productos.
type ProductUseCase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, categoryRepo: categoryRepo}
}

// Create registra un producto. El SKU, si viene, debe ser único; el stock
// inicial entra por aquí pero a partir de ahí solo lo mueven las operaciones.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.Price.IsNegative() || in.Stock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.CategoryID != "" {
		cat, err := uc.categoryRepo.GetByID(in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, domain.ErrNotFound
		}
	}
	if in.SKU != "" {
		existing, err := uc.productRepo.GetBySKU(in.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Cost:        in.Cost,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		MaxStock:    in.MaxStock,
		Unit:        in.Unit,
		CategoryID:  in.CategoryID,
		Status:      entity.ProductStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID devuelve el producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista productos con búsqueda por nombre/SKU sin distinguir tildes.
func (uc *ProductUseCase) List(ctx context.Context, f repository.ProductFilter) (*dto.ProductListResponse, error) {
	products, err := uc.productRepo.List(f)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{Items: make([]dto.ProductResponse, 0, len(products)), Limit: f.Limit, Offset: f.Offset}
	for _, p := range products {
		out.Items = append(out.Items, *toProductResponse(p))
	}
	return out, nil
}

// Update edita los datos del producto. Ni Stock ni Cost pasan por aquí.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		product.MaxStock = *in.MaxStock
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.CategoryID != nil {
		if *in.CategoryID != "" {
			cat, err := uc.categoryRepo.GetByID(*in.CategoryID)
			if err != nil {
				return nil, err
			}
			if cat == nil {
				return nil, domain.ErrNotFound
			}
		}
		product.CategoryID = *in.CategoryID
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Deactivate baja lógica: el producto deja de venderse pero conserva su
// historial de movimientos y documentos.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.SetStatus(id, entity.ProductStatusInactive)
}

// Activate reactiva un producto dado de baja.
func (uc *ProductUseCase) Activate(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.SetStatus(id, entity.ProductStatusActive)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Cost:        p.Cost,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		MaxStock:    p.MaxStock,
		Unit:        p.Unit,
		CategoryID:  p.CategoryID,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
