package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       decimal.Decimal `json:"stock"` // stock inicial
	MinStock    decimal.Decimal `json:"min_stock"`
	MaxStock    decimal.Decimal `json:"max_stock"`
	Unit        string          `json:"unit"`
	CategoryID  string          `json:"category_id"`
}

// UpdateProductRequest body para PUT /api/products/:id.
// Stock y Cost no se tocan por aquí: solo movimientos de inventario.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	MaxStock    *decimal.Decimal `json:"max_stock"`
	Unit        *string          `json:"unit"`
	CategoryID  *string          `json:"category_id"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
	MaxStock    decimal.Decimal `json:"max_stock"`
	Unit        string          `json:"unit,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado.
type ProductListResponse struct {
	Items  []ProductResponse `json:"items"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}
