package quotations_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/dto"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/quotations"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/sales"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. La conversión se prueba con el caso de uso de ventas
// real como SaleCreator: cotización y venta comparten la misma "transacción".
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
func (r *fakeProductRepo) Update(p *entity.Product) error { return nil }
func (r *fakeProductRepo) UpdateStock(id string, stock decimal.Decimal) error {
	r.products[id].Stock = stock
	return nil
}
func (r *fakeProductRepo) UpdateCost(id string, cost decimal.Decimal) error { return nil }
func (r *fakeProductRepo) SetStatus(id, status string) error                { return nil }
func (r *fakeProductRepo) ListBelowMinStock() ([]*entity.Product, error)    { return nil, nil }

type fakeQuotationRepo struct {
	quotations map[string]*entity.Quotation
	items      map[string][]*entity.QuotationItem
}

func (r *fakeQuotationRepo) Create(q *entity.Quotation) error { r.quotations[q.ID] = q; return nil }
func (r *fakeQuotationRepo) CreateItem(it *entity.QuotationItem) error {
	r.items[it.QuotationID] = append(r.items[it.QuotationID], it)
	return nil
}
func (r *fakeQuotationRepo) GetByID(id string) (*entity.Quotation, error) {
	q, ok := r.quotations[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}
func (r *fakeQuotationRepo) GetByIDForUpdate(id string) (*entity.Quotation, error) {
	return r.GetByID(id)
}
func (r *fakeQuotationRepo) GetItems(quotationID string) ([]*entity.QuotationItem, error) {
	return r.items[quotationID], nil
}
func (r *fakeQuotationRepo) List(status string, limit, offset int) ([]*entity.Quotation, error) {
	return nil, nil
}
func (r *fakeQuotationRepo) Update(q *entity.Quotation) error { r.quotations[q.ID] = q; return nil }

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
	return s, nil
}
func (r *fakeSaleRepo) GetByIDForUpdate(id string) (*entity.Sale, error) { return r.GetByID(id) }
func (r *fakeSaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	return r.items[saleID], nil
}
func (r *fakeSaleRepo) List(f repository.SaleFilter) ([]*entity.Sale, error) { return nil, nil }
func (r *fakeSaleRepo) Update(s *entity.Sale) error                          { return nil }

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

type fakeCustomerRepo struct{}

func (r *fakeCustomerRepo) Create(c *entity.Customer) error             { return nil }
func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) { return nil, nil }
func (r *fakeCustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	return nil, nil
}
func (r *fakeCustomerRepo) Update(c *entity.Customer) error   { return nil }
func (r *fakeCustomerRepo) SetStatus(id, status string) error { return nil }

type fakeTxRunner struct {
	products   *fakeProductRepo
	quotations *fakeQuotationRepo
	sales      *fakeSaleRepo
	movements  *fakeMovementRepo
	sequences  *fakeSequenceRepo
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	return fn(repository.Tx{
		Products:   t.products,
		Quotations: t.quotations,
		Sales:      t.sales,
		Movements:  t.movements,
		Sequences:  t.sequences,
	})
}

type fixture struct {
	uc       *quotations.QuotationUseCase
	products *fakeProductRepo
	sales    *fakeSaleRepo
}

func newFixture() *fixture {
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {
			ID:    "prod-1",
			Name:  "Taladro percutor 650W",
			Price: decimal.RequireFromString("80.00"),
			Stock: decimal.NewFromInt(5),
		},
	}}
	quotationRepo := &fakeQuotationRepo{quotations: map[string]*entity.Quotation{}, items: map[string][]*entity.QuotationItem{}}
	saleRepo := &fakeSaleRepo{sales: map[string]*entity.Sale{}, items: map[string][]*entity.SaleItem{}}
	movements := &fakeMovementRepo{}
	sequences := &fakeSequenceRepo{counters: map[string]int{}}
	runner := &fakeTxRunner{products: products, quotations: quotationRepo, sales: saleRepo, movements: movements, sequences: sequences}

	saleUC := sales.NewSaleUseCase(runner, saleRepo, products, &fakeCustomerRepo{}, nil)
	uc := quotations.NewQuotationUseCase(runner, quotationRepo, products, saleUC)
	return &fixture{uc: uc, products: products, sales: saleRepo}
}

func createQuotation(t *testing.T, fx *fixture) *dto.QuotationResponse {
	t.Helper()
	resp, err := fx.uc.Create(context.Background(), "user-1", dto.CreateQuotationRequest{
		ClientName: "Constructora Pérez",
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-1", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("75.00")},
		},
	})
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateQuotation_NoTocaStock(t *testing.T) {
	fx := newFixture()

	resp := createQuotation(t, fx)

	// 2 × 75.00 = 150.00; IVA 16% = 24.00; total 174.00
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("150.00")))
	assert.True(t, resp.Tax.Equal(decimal.RequireFromString("24.00")))
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("174.00")))
	assert.Equal(t, entity.QuotationStatusDraft, resp.Status)
	assert.Equal(t, "COT-"+time.Now().Format("2006")+"-00001", resp.QuotationNumber)

	// Cotizar no reserva ni descuenta stock
	assert.True(t, fx.products.products["prod-1"].Stock.Equal(decimal.NewFromInt(5)))
}

func TestCreateQuotation_DescuentoEImpuestoPorLinea(t *testing.T) {
	fx := newFixture()

	resp, err := fx.uc.Create(context.Background(), "user-1", dto.CreateQuotationRequest{
		ClientName: "Constructora Pérez",
		Items: []dto.SaleItemRequest{
			{
				ProductID: "prod-1",
				Quantity:  decimal.NewFromInt(4),
				UnitPrice: decimal.RequireFromString("75.00"),
				Discount:  decimal.NewFromInt(10),
				Tax:       decimal.NewFromInt(16),
			},
		},
		Discount: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	// La línea conserva sus porcentajes y el subtotal bruto (4 × 75.00)
	require.Len(t, resp.Items, 1)
	item := resp.Items[0]
	assert.True(t, item.Subtotal.Equal(decimal.RequireFromString("300.00")))
	assert.True(t, item.Discount.Equal(decimal.NewFromInt(10)))
	assert.True(t, item.Tax.Equal(decimal.NewFromInt(16)))

	// Totales del documento: descuento global 5% = 15.00; IVA 16% sobre 285.00 = 45.60
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("300.00")))
	assert.True(t, resp.Discount.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, resp.Tax.Equal(decimal.RequireFromString("45.60")))
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("330.60")))
}

func TestCreateQuotation_CantidadMayorAlStock_EsValida(t *testing.T) {
	fx := newFixture()

	// Cotizar mercancía que aún no llega es un caso normal del mostrador.
	resp, err := fx.uc.Create(context.Background(), "user-1", dto.CreateQuotationRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-1", Quantity: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.QuotationStatusDraft, resp.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_Transiciones(t *testing.T) {
	fx := newFixture()
	resp := createQuotation(t, fx)

	got, err := fx.uc.UpdateStatus(context.Background(), resp.ID, entity.QuotationStatusSent)
	require.NoError(t, err)
	assert.Equal(t, entity.QuotationStatusSent, got.Status)

	got, err = fx.uc.UpdateStatus(context.Background(), resp.ID, entity.QuotationStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, entity.QuotationStatusAccepted, got.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// ConvertToSale
// ──────────────────────────────────────────────────────────────────────────────

func TestConvertToSale_SoloDesdeAccepted(t *testing.T) {
	fx := newFixture()
	resp := createQuotation(t, fx)

	// draft no es convertible
	_, _, err := fx.uc.ConvertToSale(context.Background(), "user-1", resp.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestConvertToSale_CreaVentaConPreciosCotizados(t *testing.T) {
	fx := newFixture()
	resp := createQuotation(t, fx)

	_, err := fx.uc.UpdateStatus(context.Background(), resp.ID, entity.QuotationStatusAccepted)
	require.NoError(t, err)

	quotation, sale, err := fx.uc.ConvertToSale(context.Background(), "user-1", resp.ID)
	require.NoError(t, err)
	require.NotNil(t, sale)

	assert.Equal(t, entity.QuotationStatusConverted, quotation.Status)
	assert.Equal(t, sale.ID, quotation.ConvertedSaleID)

	// La venta respeta el precio cotizado (75.00), no el de catálogo (80.00)
	items, err := fx.sales.GetItems(sale.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("75.00")))
	assert.True(t, sale.Total.Equal(resp.Total), "la venta hereda los totales cotizados")

	// Ahora sí se descuenta stock
	assert.True(t, fx.products.products["prod-1"].Stock.Equal(decimal.NewFromInt(3)))
}

func TestConvertToSale_DobleConversion_EsConflicto(t *testing.T) {
	fx := newFixture()
	resp := createQuotation(t, fx)

	_, err := fx.uc.UpdateStatus(context.Background(), resp.ID, entity.QuotationStatusAccepted)
	require.NoError(t, err)

	_, _, err = fx.uc.ConvertToSale(context.Background(), "user-1", resp.ID)
	require.NoError(t, err)

	_, _, err = fx.uc.ConvertToSale(context.Background(), "user-1", resp.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "una cotización solo se convierte una vez")

	// Solo existe una venta
	assert.Len(t, fx.sales.sales, 1)
}

func TestConvertToSale_SinStock_Falla(t *testing.T) {
	fx := newFixture()
	resp, err := fx.uc.Create(context.Background(), "user-1", dto.CreateQuotationRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-1", Quantity: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	_, err = fx.uc.UpdateStatus(context.Background(), resp.ID, entity.QuotationStatusAccepted)
	require.NoError(t, err)

	// La cotización fue válida, pero convertirla exige stock real.
	_, _, err = fx.uc.ConvertToSale(context.Background(), "user-1", resp.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}
