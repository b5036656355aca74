package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/inventory"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/purchases"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/quotations"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/sales"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

var _ sales.TxRunner = (*TxRunner)(nil)
var _ purchases.TxRunner = (*TxRunner)(nil)
var _ quotations.TxRunner = (*TxRunner)(nil)
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos atados a la tx y
// hace Commit o Rollback. Los locks FOR UPDATE que tomen los repos viven
// hasta el cierre de la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	pgxTx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = pgxTx.Rollback(ctx) }()

	tx := repository.Tx{
		Products:   NewProductRepository(pgxTx),
		Sales:      NewSaleRepository(pgxTx),
		Purchases:  NewPurchaseRepository(pgxTx),
		Quotations: NewQuotationRepository(pgxTx),
		Movements:  NewInventoryMovementRepository(pgxTx),
		Sequences:  NewSequenceRepository(pgxTx),
	}

	if err := fn(tx); err != nil {
		return err
	}
	if err := pgxTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
