package entity

import "time"

// Supplier representa un proveedor de mercancía.
type Supplier struct {
	ID          string
	Name        string
	ContactName string
	TaxID       string // RFC / NIT del proveedor
	Email       string
	Phone       string
	Address     string
	Status      string // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
