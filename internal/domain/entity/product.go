package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product representa un artículo de la ferretería.
// Stock vive en la fila del producto (bodega única); se muta solo vía
// ventas, recepciones de compra y ajustes, nunca por el update genérico.
// Cost se sobreescribe con el costo de la última compra recibida.
type Product struct {
	ID          string
	SKU         string // código único; vacío permitido
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta, >= 0
	Cost        decimal.Decimal // costo de la última compra recibida
	Stock       decimal.Decimal // nunca negativo
	MinStock    decimal.Decimal // umbral de reposición
	MaxStock    decimal.Decimal
	Unit        string // unidad de venta: unidad, caja, metro, kilo...
	CategoryID  string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
