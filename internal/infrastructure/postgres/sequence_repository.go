package postgres

import (
	"context"
	"fmt"

	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos de documentos sobre PostgreSQL. El UPSERT con
// RETURNING incrementa y lee en una sola sentencia atómica: dos documentos
// concurrentes del mismo tipo y año jamás reciben el mismo número, y no hay
// lectura-incremento-escritura que pueda intercalarse.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar la tx del documento:
// el número se consume en la misma transacción que lo persiste.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa el contador de (docType, year) y devuelve el nuevo valor.
func (r *SequenceRepo) Next(docType string, year int) (int, error) {
	query := `
		INSERT INTO document_sequences (doc_type, year, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, year)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number`
	var n int
	if err := r.q.QueryRow(context.Background(), query, docType, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence %s-%d: %w", docType, year, err)
	}
	return n, nil
}
