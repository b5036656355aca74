package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// StockError detalla un rechazo por stock insuficiente: qué producto,
// cuánto se pidió y cuánto había disponible al momento del chequeo.
// errors.Is(err, ErrInsufficientStock) retorna true.
type StockError struct {
	ProductID   string
	ProductName string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: solicitado %s, disponible %s",
		e.ProductName, e.Requested.String(), e.Available.String())
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
