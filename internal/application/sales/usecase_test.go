package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/dto"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/sales"
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
func (r *fakeProductRepo) SetStatus(id, status string) error {
	r.products[id].Status = status
	return nil
}
func (r *fakeProductRepo) ListBelowMinStock() ([]*entity.Product, error) { return nil, nil }

type fakeSaleRepo struct {
	sales map[string]*entity.Sale
	items map[string][]*entity.SaleItem
}

func (r *fakeSaleRepo) Create(s *entity.Sale) error { r.sales[s.ID] = s; return nil }
func (r *fakeSaleRepo) CreateItem(it *entity.SaleItem) error {
	r.items[it.SaleID] = append(r.items[it.SaleID], it)
	return nil
}
func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}
func (r *fakeSaleRepo) GetByIDForUpdate(id string) (*entity.Sale, error) { return r.GetByID(id) }
func (r *fakeSaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	return r.items[saleID], nil
}
func (r *fakeSaleRepo) List(f repository.SaleFilter) ([]*entity.Sale, error) { return nil, nil }
func (r *fakeSaleRepo) Update(s *entity.Sale) error                          { r.sales[s.ID] = s; return nil }

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
	key := docType
	r.counters[key]++
	return r.counters[key], nil
}

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func (r *fakeCustomerRepo) Create(c *entity.Customer) error { r.customers[c.ID] = c; return nil }
func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}
func (r *fakeCustomerRepo) List(limit, offset int) ([]*entity.Customer, error) { return nil, nil }
func (r *fakeCustomerRepo) Update(c *entity.Customer) error                    { return nil }
func (r *fakeCustomerRepo) SetStatus(id, status string) error                  { return nil }

// fakeTxRunner ejecuta el callback con los fakes y simula el rollback:
// toma una copia del estado antes y lo restaura si fn devuelve error.
type fakeTxRunner struct {
	products  *fakeProductRepo
	sales     *fakeSaleRepo
	movements *fakeMovementRepo
	sequences *fakeSequenceRepo
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	productsBefore := make(map[string]*entity.Product, len(t.products.products))
	for id, p := range t.products.products {
		cp := *p
		productsBefore[id] = &cp
	}
	salesBefore := make(map[string]*entity.Sale, len(t.sales.sales))
	for id, s := range t.sales.sales {
		cp := *s
		salesBefore[id] = &cp
	}
	movementsBefore := len(t.movements.movements)

	err := fn(repository.Tx{
		Products:  t.products,
		Sales:     t.sales,
		Movements: t.movements,
		Sequences: t.sequences,
	})
	if err != nil {
		t.products.products = productsBefore
		t.sales.sales = salesBefore
		t.movements.movements = t.movements.movements[:movementsBefore]
	}
	return err
}

// newFixture arma el caso de uso con todos los fakes y un producto de
// ferretería con stock conocido.
func newFixture() (*sales.SaleUseCase, *fakeProductRepo, *fakeSaleRepo, *fakeMovementRepo) {
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {
			ID:    "prod-1",
			Name:  "Martillo de uña 16oz",
			Price: decimal.RequireFromString("10.00"),
			Stock: decimal.NewFromInt(50),
		},
		"prod-2": {
			ID:    "prod-2",
			Name:  "Tornillo 1/4 x 2",
			Price: decimal.RequireFromString("0.50"),
			Stock: decimal.NewFromInt(3),
		},
	}}
	saleRepo := &fakeSaleRepo{sales: map[string]*entity.Sale{}, items: map[string][]*entity.SaleItem{}}
	movements := &fakeMovementRepo{}
	sequences := &fakeSequenceRepo{counters: map[string]int{}}
	customers := &fakeCustomerRepo{customers: map[string]*entity.Customer{}}
	runner := &fakeTxRunner{products: products, sales: saleRepo, movements: movements, sequences: sequences}

	uc := sales.NewSaleUseCase(runner, saleRepo, products, customers, nil)
	return uc, products, saleRepo, movements
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_DescuentaStockYCalculaTotales(t *testing.T) {
	uc, products, _, movements := newFixture()

	resp, err := uc.Create(context.Background(), "user-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-1", Quantity: decimal.NewFromInt(2)}, // toma precio de catálogo: 10.00
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	// 2 × 10.00 = 20.00; IVA 16% = 3.20; total 23.20
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("20.00")), "subtotal: %s", resp.Subtotal)
	assert.True(t, resp.Tax.Equal(decimal.RequireFromString("3.20")), "iva: %s", resp.Tax)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("23.20")), "total: %s", resp.Total)
	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)
	assert.Equal(t, "SALE-"+time.Now().Format("2006")+"-00001", resp.InvoiceNumber)
	assert.Equal(t, entity.DefaultClientName, resp.ClientName)

	// Stock descontado y movimiento de salida registrado
	assert.True(t, products.products["prod-1"].Stock.Equal(decimal.NewFromInt(48)))
	require.Len(t, movements.movements, 1)
	assert.Equal(t, entity.MovementTypeExit, movements.movements[0].Type)
	assert.Equal(t, entity.ReferenceSale, movements.movements[0].ReferenceType)
	assert.True(t, movements.movements[0].Quantity.Equal(decimal.NewFromInt(-2)))
}

func TestCreateSale_StockInsuficiente_NoDejaEfectos(t *testing.T) {
	uc, products, saleRepo, movements := newFixture()

	_, err := uc.Create(context.Background(), "user-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-2", Quantity: decimal.NewFromInt(4)}, // stock disponible: 3
		},
	})
	require.Error(t, err)

	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "prod-2", stockErr.ProductID)
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(3)))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada persiste: ni venta, ni movimiento, ni cambio de stock
	assert.Empty(t, saleRepo.sales)
	assert.Empty(t, movements.movements)
	assert.True(t, products.products["prod-2"].Stock.Equal(decimal.NewFromInt(3)))
}

func TestCreateSale_StockExacto_QuedaEnCero(t *testing.T) {
	uc, products, _, _ := newFixture()

	_, err := uc.Create(context.Background(), "user-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-2", Quantity: decimal.NewFromInt(3)},
		},
	})
	require.NoError(t, err)
	assert.True(t, products.products["prod-2"].Stock.IsZero(), "vender el stock exacto debe dejarlo en cero")
}

func TestCreateSale_FallaMitadDeDocumento_RevierteLineasPrevias(t *testing.T) {
	uc, products, saleRepo, movements := newFixture()

	// La primera línea alcanza, la segunda no: todo debe revertirse.
	_, err := uc.Create(context.Background(), "user-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-1", Quantity: decimal.NewFromInt(1)},
			{ProductID: "prod-2", Quantity: decimal.NewFromInt(10)},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, products.products["prod-1"].Stock.Equal(decimal.NewFromInt(50)),
		"el descuento de la primera línea debe revertirse")
	assert.Empty(t, saleRepo.sales)
	assert.Empty(t, movements.movements)
}

func TestCreateSale_DescuentoGlobal(t *testing.T) {
	uc, _, _, _ := newFixture()

	resp, err := uc.Create(context.Background(), "user-1", dto.CreateSaleRequest{
		Discount: decimal.NewFromInt(10), // 10% global
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-1", Quantity: decimal.NewFromInt(10)}, // 100.00
		},
	})
	require.NoError(t, err)

	// 100 − 10 = 90; IVA 16% de 90 = 14.40; total 104.40
	assert.True(t, resp.Discount.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, resp.Tax.Equal(decimal.RequireFromString("14.40")))
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("104.40")))
}

func TestCreateSale_SinLineas_EsInvalido(t *testing.T) {
	uc, _, _, _ := newFixture()

	_, err := uc.Create(context.Background(), "user-1", dto.CreateSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_ConsecutivoIncrementa(t *testing.T) {
	uc, _, _, _ := newFixture()

	first, err := uc.Create(context.Background(), "user-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "prod-1", Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	second, err := uc.Create(context.Background(), "user-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "prod-1", Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	year := time.Now().Format("2006")
	assert.Equal(t, "SALE-"+year+"-00001", first.InvoiceNumber)
	assert.Equal(t, "SALE-"+year+"-00002", second.InvoiceNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelSale_ReponeStockYDejaMovimiento(t *testing.T) {
	uc, products, _, movements := newFixture()

	resp, err := uc.Create(context.Background(), "user-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "prod-1", Quantity: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)
	require.True(t, products.products["prod-1"].Stock.Equal(decimal.NewFromInt(45)))

	require.NoError(t, uc.Cancel(context.Background(), "user-2", resp.ID))

	assert.True(t, products.products["prod-1"].Stock.Equal(decimal.NewFromInt(50)),
		"cancelar debe reponer el stock")

	got, err := uc.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, got.Status)

	// Movimiento de salida original + ajuste compensatorio
	require.Len(t, movements.movements, 2)
	comp := movements.movements[1]
	assert.Equal(t, entity.MovementTypeAdjustment, comp.Type)
	assert.Equal(t, entity.ReferenceSaleCancellation, comp.ReferenceType)
	assert.True(t, comp.Quantity.Equal(decimal.NewFromInt(5)))
}

func TestCancelSale_YaCancelada_EsConflicto(t *testing.T) {
	uc, _, _, _ := newFixture()

	resp, err := uc.Create(context.Background(), "user-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "prod-1", Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	require.NoError(t, uc.Cancel(context.Background(), "user-1", resp.ID))
	assert.ErrorIs(t, uc.Cancel(context.Background(), "user-1", resp.ID), domain.ErrConflict)
}

func TestCancelSale_NoExiste(t *testing.T) {
	uc, _, _, _ := newFixture()
	assert.ErrorIs(t, uc.Cancel(context.Background(), "user-1", "no-existe"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdatePayment
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdatePayment_SoloCamposMutables(t *testing.T) {
	uc, _, _, _ := newFixture()

	resp, err := uc.Create(context.Background(), "user-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "prod-1", Quantity: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)
	require.Equal(t, entity.PaymentStatusPaid, resp.PaymentStatus)

	newStatus := "pending"
	got, err := uc.UpdatePayment(context.Background(), resp.ID, dto.UpdateSalePaymentRequest{
		PaymentStatus: &newStatus,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", got.PaymentStatus)
	assert.True(t, got.Total.Equal(resp.Total), "los totales quedan congelados")
}

func TestUpdatePayment_VentaCancelada_EsConflicto(t *testing.T) {
	uc, _, _, _ := newFixture()

	resp, err := uc.Create(context.Background(), "user-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "prod-1", Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	require.NoError(t, uc.Cancel(context.Background(), "user-1", resp.ID))

	newStatus := "paid"
	_, err = uc.UpdatePayment(context.Background(), resp.ID, dto.UpdateSalePaymentRequest{PaymentStatus: &newStatus})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
