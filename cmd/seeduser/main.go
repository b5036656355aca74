// seeduser crea el usuario administrador inicial. Pensado para correr una
// sola vez sobre una base recién migrada.
//
// Uso: go run ./cmd/seeduser -email admin@ferreteria.local -password secreto123 [-name "Administrador"]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
	"github.com/ferreteria-pro/ferreteria-api/internal/infrastructure/postgres"
	"github.com/ferreteria-pro/ferreteria-api/pkg/config"
)

func main() {
	email := flag.String("email", "", "email del administrador")
	password := flag.String("password", "", "contraseña (mínimo 8 caracteres)")
	name := flag.String("name", "Administrador", "nombre a mostrar")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		fmt.Fprintln(os.Stderr, "uso: seeduser -email <email> -password <mínimo 8 caracteres> [-name <nombre>]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar hash: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.NewString(),
		Name:         *name,
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	userRepo := postgres.NewUserRepository(pool)
	if err := userRepo.Create(user); err != nil {
		fmt.Fprintf(os.Stderr, "crear usuario: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("usuario administrador creado: %s (%s)\n", user.Email, user.ID)
}
