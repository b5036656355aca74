package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleVendedor  = "vendedor"
	RoleBodeguero = "bodeguero"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt, nunca plano después de persistir
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
