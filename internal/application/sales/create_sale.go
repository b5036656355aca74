package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/dto"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/billing"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

// SaleUseCase casos de uso de ventas: creación transaccional con descuento
// de stock, cancelación con reposición, consultas y estadísticas.
type SaleUseCase struct {
	txRunner     TxRunner
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	statsRepo    repository.StatsRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	statsRepo repository.StatsRepository,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:     txRunner,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		statsRepo:    statsRepo,
	}
}

// Create crea una venta completa en una sola transacción: valida stock con
// bloqueo de fila, calcula totales, genera el consecutivo, persiste cabecera
// y líneas, descuenta stock y deja un movimiento de salida por línea.
// Cualquier error revierte todo: no sobrevive ningún efecto parcial.
func (uc *SaleUseCase) Create(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if it.UnitPrice.LessThan(decimal.Zero) || it.Discount.LessThan(decimal.Zero) || it.Tax.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Discount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	// Validar cliente fuera de la tx (solo lectura)
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
		if in.ClientName == "" {
			in.ClientName = customer.Name
		}
	}

	now := time.Now()
	var sale *entity.Sale
	var items []*entity.SaleItem
	productNames := map[string]string{}

	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		sale, items, err = uc.CreateSaleInTx(tx, userID, in, now)
		if err != nil {
			return err
		}
		for _, it := range items {
			p, err := tx.Products.GetByID(it.ProductID)
			if err == nil && p != nil {
				productNames[it.ProductID] = p.Name
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items, productNames), nil
}

// CreateSaleInTx ejecuta la creación usando los repositorios de la
// transacción del caller. La conversión de cotizaciones lo reutiliza para
// que cotización y venta queden en la misma tx.
func (uc *SaleUseCase) CreateSaleInTx(tx repository.Tx, userID string, in dto.CreateSaleRequest, now time.Time) (*entity.Sale, []*entity.SaleItem, error) {
	saleID := uuid.New().String()

	lines := make([]billing.LineInput, 0, len(in.Items))
	items := make([]*entity.SaleItem, 0, len(in.Items))

	for _, it := range in.Items {
		// Bloquea la fila del producto: el chequeo de stock y el decremento
		// quedan serializados frente a ventas concurrentes.
		product, err := tx.Products.GetByIDForUpdate(it.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if product == nil {
			return nil, nil, domain.ErrNotFound
		}
		unitPrice := it.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.Price
		}
		if product.Stock.LessThan(it.Quantity) {
			return nil, nil, &domain.StockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   it.Quantity,
				Available:   product.Stock,
			}
		}

		line := billing.LineInput{Quantity: it.Quantity, Price: unitPrice, Discount: it.Discount, Tax: it.Tax}
		lt := billing.ComputeLine(line)
		lines = append(lines, line)
		items = append(items, &entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: unitPrice,
			Discount:  it.Discount,
			Tax:       it.Tax,
			Subtotal:  lt.Subtotal,
			Total:     lt.Total,
		})

		// Descuenta stock y deja el movimiento de salida
		newStock := product.Stock.Sub(it.Quantity)
		if err := tx.Products.UpdateStock(product.ID, newStock); err != nil {
			return nil, nil, err
		}
		if err := tx.Movements.Create(&entity.InventoryMovement{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			Type:          entity.MovementTypeExit,
			Quantity:      it.Quantity.Neg(),
			PreviousStock: product.Stock,
			NewStock:      newStock,
			ReferenceType: entity.ReferenceSale,
			ReferenceID:   saleID,
			UserID:        userID,
			CreatedAt:     now,
		}); err != nil {
			return nil, nil, err
		}
	}

	totals := billing.ComputeDocument(lines, in.Discount)

	n, err := tx.Sequences.Next(entity.DocTypeSale, now.Year())
	if err != nil {
		return nil, nil, err
	}

	clientName := in.ClientName
	if clientName == "" {
		clientName = entity.DefaultClientName
	}
	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = entity.PaymentMethodCash
	}
	paymentStatus := in.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = entity.PaymentStatusPaid
	}

	sale := &entity.Sale{
		ID:            saleID,
		InvoiceNumber: entity.FormatDocumentNumber(entity.DocTypeSale, now.Year(), n),
		CustomerID:    in.CustomerID,
		ClientName:    clientName,
		UserID:        userID,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: paymentMethod,
		PaymentStatus: paymentStatus,
		Status:        entity.SaleStatusCompleted,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.Sales.Create(sale); err != nil {
		return nil, nil, err
	}
	for _, item := range items {
		if err := tx.Sales.CreateItem(item); err != nil {
			return nil, nil, err
		}
	}
	return sale, items, nil
}

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem, productNames map[string]string) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		CustomerID:    s.CustomerID,
		ClientName:    s.ClientName,
		UserID:        s.UserID,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Tax:           s.Tax,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		PaymentStatus: s.PaymentStatus,
		Status:        s.Status,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
		Items:         make([]dto.SaleItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: productNames[it.ProductID],
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Tax:         it.Tax,
			Subtotal:    it.Subtotal,
			Total:       it.Total,
		})
	}
	return resp
}
