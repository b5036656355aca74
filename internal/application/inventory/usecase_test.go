package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/dto"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/inventory"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products      map[string]*entity.Product
	belowMinStock []*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *fakeProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}
func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) List(f repository.ProductFilter) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { return nil }
func (r *fakeProductRepo) UpdateStock(id string, stock decimal.Decimal) error {
	r.products[id].Stock = stock
	return nil
}
func (r *fakeProductRepo) UpdateCost(id string, cost decimal.Decimal) error { return nil }
func (r *fakeProductRepo) SetStatus(id, status string) error                { return nil }
func (r *fakeProductRepo) ListBelowMinStock() ([]*entity.Product, error) {
	return r.belowMinStock, nil
}

type fakeMovementRepo struct {
	movements []*entity.InventoryMovement
}

func (r *fakeMovementRepo) Create(m *entity.InventoryMovement) error {
	r.movements = append(r.movements, m)
	return nil
}
func (r *fakeMovementRepo) List(f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	return r.movements, nil
}

type fakeTxRunner struct {
	products  *fakeProductRepo
	movements *fakeMovementRepo
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	return fn(repository.Tx{Products: t.products, Movements: t.movements})
}

func newFixture() (*inventory.InventoryUseCase, *fakeProductRepo, *fakeMovementRepo) {
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {
			ID:    "prod-1",
			Name:  "Pintura blanca 1gal",
			Stock: decimal.NewFromInt(10),
		},
	}}
	movements := &fakeMovementRepo{}
	runner := &fakeTxRunner{products: products, movements: movements}
	uc := inventory.NewInventoryUseCase(runner, products, movements)
	return uc, products, movements
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaSuma(t *testing.T) {
	uc, products, _ := newFixture()

	resp, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "prod-1",
		Type:      entity.MovementTypeEntry,
		Quantity:  decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	assert.True(t, resp.PreviousStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, resp.NewStock.Equal(decimal.NewFromInt(15)))
	assert.True(t, products.products["prod-1"].Stock.Equal(decimal.NewFromInt(15)))
}

func TestRegisterMovement_SalidaResta(t *testing.T) {
	uc, products, _ := newFixture()

	resp, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "prod-1",
		Type:      entity.MovementTypeExit,
		Quantity:  decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(-4)), "la salida se registra con signo negativo")
	assert.True(t, products.products["prod-1"].Stock.Equal(decimal.NewFromInt(6)))
}

func TestRegisterMovement_SalidaMayorAlStock_Falla(t *testing.T) {
	uc, products, movements := newFixture()

	_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "prod-1",
		Type:      entity.MovementTypeExit,
		Quantity:  decimal.NewFromInt(11),
	})
	require.Error(t, err)

	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(10)))

	assert.True(t, products.products["prod-1"].Stock.Equal(decimal.NewFromInt(10)), "el stock no cambia")
	assert.Empty(t, movements.movements)
}

func TestRegisterMovement_AjusteConSigno(t *testing.T) {
	uc, products, _ := newFixture()

	// Ajuste negativo: merma detectada en conteo físico
	resp, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "prod-1",
		Type:      entity.MovementTypeAdjustment,
		Quantity:  decimal.NewFromInt(-3),
		Notes:     "merma por conteo físico",
	})
	require.NoError(t, err)
	assert.True(t, resp.NewStock.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, entity.ReferenceAdjustment, resp.ReferenceType)

	// Ajuste que dejaría stock negativo se rechaza
	_, err = uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "prod-1",
		Type:      entity.MovementTypeAdjustment,
		Quantity:  decimal.NewFromInt(-8),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, products.products["prod-1"].Stock.Equal(decimal.NewFromInt(7)))
}

func TestRegisterMovement_DevolucionUsaReferenciaReturn(t *testing.T) {
	uc, _, _ := newFixture()

	resp, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "prod-1",
		Type:      entity.MovementTypeReturn,
		Quantity:  decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReferenceReturn, resp.ReferenceType)
	assert.True(t, resp.NewStock.Equal(decimal.NewFromInt(12)))
}

func TestRegisterMovement_EntradaNegativa_EsInvalida(t *testing.T) {
	uc, _, _ := newFixture()

	_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "prod-1",
		Type:      entity.MovementTypeEntry,
		Quantity:  decimal.NewFromInt(-5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_CantidadCero_EsInvalida(t *testing.T) {
	uc, _, _ := newFixture()

	_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "prod-1",
		Type:      entity.MovementTypeEntry,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_ProductoInexistente(t *testing.T) {
	uc, _, _ := newFixture()

	_, err := uc.RegisterMovement(context.Background(), "user-1", dto.RegisterMovementRequest{
		ProductID: "no-existe",
		Type:      entity.MovementTypeEntry,
		Quantity:  decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// LowStock
// ──────────────────────────────────────────────────────────────────────────────

func TestLowStock_SugiereReposicionHastaElMaximo(t *testing.T) {
	uc, products, _ := newFixture()
	products.belowMinStock = []*entity.Product{
		{
			ID:       "prod-2",
			Name:     "Clavo 2 pulgadas",
			Stock:    decimal.NewFromInt(3),
			MinStock: decimal.NewFromInt(10),
			MaxStock: decimal.NewFromInt(50),
		},
		{
			ID:       "prod-3",
			Name:     "Lija grano 120",
			Stock:    decimal.NewFromInt(1),
			MinStock: decimal.NewFromInt(5),
			// sin máximo definido: no hay sugerencia
		},
	}

	out, err := uc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.True(t, out[0].Suggested.Equal(decimal.NewFromInt(47)), "sugerido = max − stock")
	assert.True(t, out[1].Suggested.IsZero())
}
