package purchases_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/dto"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/purchases"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
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
func (r *fakeProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) UpdateStock(id string, stock decimal.Decimal) error {
	r.products[id].Stock = stock
	return nil
}
func (r *fakeProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	r.products[id].Cost = cost
	return nil
}
func (r *fakeProductRepo) SetStatus(id, status string) error             { return nil }
func (r *fakeProductRepo) ListBelowMinStock() ([]*entity.Product, error) { return nil, nil }

type fakePurchaseRepo struct {
	purchases map[string]*entity.Purchase
	items     map[string][]*entity.PurchaseItem
}

func (r *fakePurchaseRepo) Create(p *entity.Purchase) error { r.purchases[p.ID] = p; return nil }
func (r *fakePurchaseRepo) CreateItem(it *entity.PurchaseItem) error {
	r.items[it.PurchaseID] = append(r.items[it.PurchaseID], it)
	return nil
}
func (r *fakePurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *fakePurchaseRepo) GetByIDForUpdate(id string) (*entity.Purchase, error) {
	return r.GetByID(id)
}
func (r *fakePurchaseRepo) GetItems(purchaseID string) ([]*entity.PurchaseItem, error) {
	return r.items[purchaseID], nil
}
func (r *fakePurchaseRepo) List(f repository.PurchaseFilter) ([]*entity.Purchase, error) {
	return nil, nil
}
func (r *fakePurchaseRepo) Update(p *entity.Purchase) error { r.purchases[p.ID] = p; return nil }

type fakeSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

func (r *fakeSupplierRepo) Create(s *entity.Supplier) error { r.suppliers[s.ID] = s; return nil }
func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}
func (r *fakeSupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) { return nil, nil }
func (r *fakeSupplierRepo) Update(s *entity.Supplier) error                    { return nil }
func (r *fakeSupplierRepo) SetStatus(id, status string) error                  { return nil }

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

type fakeSequenceRepo struct {
	counters map[string]int
}

func (r *fakeSequenceRepo) Next(docType string, year int) (int, error) {
	r.counters[docType]++
	return r.counters[docType], nil
}

type fakeTxRunner struct {
	products  *fakeProductRepo
	purchases *fakePurchaseRepo
	movements *fakeMovementRepo
	sequences *fakeSequenceRepo
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	return fn(repository.Tx{
		Products:  t.products,
		Purchases: t.purchases,
		Movements: t.movements,
		Sequences: t.sequences,
	})
}

func newFixture() (*purchases.PurchaseUseCase, *fakeProductRepo, *fakeMovementRepo) {
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {
			ID:    "prod-1",
			Name:  "Cemento gris 50kg",
			Price: decimal.RequireFromString("9.50"),
			Cost:  decimal.RequireFromString("6.00"),
			Stock: decimal.NewFromInt(20),
		},
	}}
	purchaseRepo := &fakePurchaseRepo{purchases: map[string]*entity.Purchase{}, items: map[string][]*entity.PurchaseItem{}}
	suppliers := &fakeSupplierRepo{suppliers: map[string]*entity.Supplier{
		"sup-1": {ID: "sup-1", Name: "Distribuidora El Tornillo"},
	}}
	movements := &fakeMovementRepo{}
	sequences := &fakeSequenceRepo{counters: map[string]int{}}
	runner := &fakeTxRunner{products: products, purchases: purchaseRepo, movements: movements, sequences: sequences}

	uc := purchases.NewPurchaseUseCase(runner, purchaseRepo, products, suppliers, nil)
	return uc, products, movements
}

func createPurchase(t *testing.T, uc *purchases.PurchaseUseCase) *dto.PurchaseResponse {
	t.Helper()
	resp, err := uc.Create(context.Background(), "user-1", dto.CreatePurchaseRequest{
		SupplierID: "sup-1",
		Items: []dto.PurchaseItemRequest{
			{ProductID: "prod-1", Quantity: decimal.NewFromInt(10), UnitCost: decimal.RequireFromString("5.00")},
		},
	})
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreatePurchase_NoTocaStock(t *testing.T) {
	uc, products, movements := newFixture()

	resp := createPurchase(t, uc)

	// 10 × 5.00 = 50.00; IVA 16% = 8.00; total 58.00. Sin descuento en compras.
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("50.00")), "subtotal: %s", resp.Subtotal)
	assert.True(t, resp.Tax.Equal(decimal.RequireFromString("8.00")), "iva: %s", resp.Tax)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("58.00")), "total: %s", resp.Total)
	assert.Equal(t, entity.PurchaseStatusPending, resp.Status)
	assert.Equal(t, "PURCH-"+time.Now().Format("2006")+"-00001", resp.PurchaseNumber)
	assert.Equal(t, "Distribuidora El Tornillo", resp.SupplierName)

	// Crear la orden no recibe mercancía
	assert.True(t, products.products["prod-1"].Stock.Equal(decimal.NewFromInt(20)))
	assert.Empty(t, movements.movements)
}

func TestCreatePurchase_ProveedorInexistente(t *testing.T) {
	uc, _, _ := newFixture()

	_, err := uc.Create(context.Background(), "user-1", dto.CreatePurchaseRequest{
		SupplierID: "no-existe",
		Items: []dto.PurchaseItemRequest{
			{ProductID: "prod-1", Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestReceivePurchase_IncrementaStockYActualizaCosto(t *testing.T) {
	uc, products, movements := newFixture()
	resp := createPurchase(t, uc)

	got, err := uc.Receive(context.Background(), "user-1", resp.ID, dto.ReceivePurchaseRequest{})
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseStatusReceived, got.Status)
	assert.NotNil(t, got.ReceivedDate)

	p := products.products["prod-1"]
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(30)), "stock: %s", p.Stock)
	assert.True(t, p.Cost.Equal(decimal.RequireFromString("5.00")), "último costo gana: %s", p.Cost)

	require.Len(t, movements.movements, 1)
	m := movements.movements[0]
	assert.Equal(t, entity.MovementTypeEntry, m.Type)
	assert.Equal(t, entity.ReferencePurchase, m.ReferenceType)
	assert.Equal(t, resp.ID, m.ReferenceID)
	assert.True(t, m.Quantity.Equal(decimal.NewFromInt(10)))
}

func TestReceivePurchase_SegundaRecepcion_EsConflictoSinEfectos(t *testing.T) {
	uc, products, movements := newFixture()
	resp := createPurchase(t, uc)

	_, err := uc.Receive(context.Background(), "user-1", resp.ID, dto.ReceivePurchaseRequest{})
	require.NoError(t, err)

	_, err = uc.Receive(context.Background(), "user-1", resp.ID, dto.ReceivePurchaseRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict, "N intentos de recepción equivalen a 1")

	// Sin doble incremento
	assert.True(t, products.products["prod-1"].Stock.Equal(decimal.NewFromInt(30)))
	assert.Len(t, movements.movements, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelPurchase_Pendiente_NoTocaStock(t *testing.T) {
	uc, products, movements := newFixture()
	resp := createPurchase(t, uc)

	require.NoError(t, uc.Cancel(context.Background(), "user-1", resp.ID))

	got, err := uc.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusCancelled, got.Status)
	assert.True(t, products.products["prod-1"].Stock.Equal(decimal.NewFromInt(20)))
	assert.Empty(t, movements.movements)
}

func TestCancelPurchase_Recibida_RevierteStock(t *testing.T) {
	uc, products, movements := newFixture()
	resp := createPurchase(t, uc)

	_, err := uc.Receive(context.Background(), "user-1", resp.ID, dto.ReceivePurchaseRequest{})
	require.NoError(t, err)
	require.True(t, products.products["prod-1"].Stock.Equal(decimal.NewFromInt(30)))

	require.NoError(t, uc.Cancel(context.Background(), "user-1", resp.ID))

	assert.True(t, products.products["prod-1"].Stock.Equal(decimal.NewFromInt(20)),
		"cancelar una compra recibida debe revertir el stock")

	// Entrada original + ajuste compensatorio negativo
	require.Len(t, movements.movements, 2)
	comp := movements.movements[1]
	assert.Equal(t, entity.MovementTypeAdjustment, comp.Type)
	assert.Equal(t, entity.ReferencePurchaseCancellation, comp.ReferenceType)
	assert.True(t, comp.Quantity.Equal(decimal.NewFromInt(-10)))
}

func TestCancelPurchase_YaCancelada_EsConflicto(t *testing.T) {
	uc, _, _ := newFixture()
	resp := createPurchase(t, uc)

	require.NoError(t, uc.Cancel(context.Background(), "user-1", resp.ID))
	assert.ErrorIs(t, uc.Cancel(context.Background(), "user-1", resp.ID), domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdatePurchase_SoloMientrasPendiente(t *testing.T) {
	uc, _, _ := newFixture()
	resp := createPurchase(t, uc)

	invoice := "FACT-PROV-991"
	got, err := uc.Update(context.Background(), resp.ID, dto.UpdatePurchaseRequest{InvoiceNumber: &invoice})
	require.NoError(t, err)
	assert.Equal(t, "FACT-PROV-991", got.InvoiceNumber)

	_, err = uc.Receive(context.Background(), "user-1", resp.ID, dto.ReceivePurchaseRequest{})
	require.NoError(t, err)

	otra := "FACT-PROV-992"
	_, err = uc.Update(context.Background(), resp.ID, dto.UpdatePurchaseRequest{InvoiceNumber: &otra})
	assert.ErrorIs(t, err, domain.ErrConflict, "una compra recibida ya no es editable")
}
