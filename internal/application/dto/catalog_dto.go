package dto

import "github.com/shopspring/decimal"

// CreateCategoryRequest body para POST /api/categories.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CategoryResponse categoría en respuestas.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Name        string `json:"name" validate:"required"`
	ContactName string `json:"contact_name"`
	TaxID       string `json:"tax_id"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name,omitempty"`
	TaxID       string `json:"tax_id,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Status      string `json:"status"`
}

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name         string          `json:"name" validate:"required"`
	CustomerType string          `json:"customer_type" validate:"omitempty,oneof=individual business"`
	TaxID        string          `json:"tax_id"`
	Email        string          `json:"email" validate:"omitempty,email"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CustomerType  string          `json:"customer_type"`
	TaxID         string          `json:"tax_id,omitempty"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Address       string          `json:"address,omitempty"`
	CreditLimit   decimal.Decimal `json:"credit_limit"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	Status        string          `json:"status"`
}
