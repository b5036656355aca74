package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cliente.
const (
	CustomerTypeIndividual = "individual"
	CustomerTypeBusiness   = "business"
)

// Customer representa un cliente de la ferretería. Las ventas de mostrador
// pueden no tener cliente registrado (ver Sale.ClientName).
type Customer struct {
	ID            string
	Name          string
	CustomerType  string // individual | business
	TaxID         string
	Email         string
	Phone         string
	Address       string
	CreditLimit   decimal.Decimal
	CreditBalance decimal.Decimal
	Status        string // active, inactive
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
