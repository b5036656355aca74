// Package quotations maneja cotizaciones: documentos sin efecto sobre
// stock que pueden convertirse, una sola vez, en una venta real.
package quotations

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

// TxRunner ejecuta una función dentro de una transacción de BD.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}

// SaleCreator crea una venta dentro de una transacción ya abierta. Lo
// implementa el caso de uso de ventas: la conversión reutiliza exactamente
// la misma ruta de creación (locks, stock, movimientos, numeración).
type SaleCreator interface {
	CreateSaleInTx(tx repository.Tx, userID string, in dto.CreateSaleRequest, now time.Time) (*entity.Sale, []*entity.SaleItem, error)
}

// QuotationUseCase casos de uso de cotizaciones.
type QuotationUseCase struct {
	txRunner      TxRunner
	quotationRepo repository.QuotationRepository
	productRepo   repository.ProductRepository
	saleCreator   SaleCreator
}

// NewQuotationUseCase construye el caso de uso.
func NewQuotationUseCase(
	txRunner TxRunner,
	quotationRepo repository.QuotationRepository,
	productRepo repository.ProductRepository,
	saleCreator SaleCreator,
) *QuotationUseCase {
	return &QuotationUseCase{
		txRunner:      txRunner,
		quotationRepo: quotationRepo,
		productRepo:   productRepo,
		saleCreator:   saleCreator,
	}
}

// Create registra una cotización en draft. Misma aritmética de totales que
// una venta pero sin tocar stock ni validar existencias: cotizar mercancía
// que aún no llega es un caso normal del mostrador.
func (uc *QuotationUseCase) Create(ctx context.Context, userID string, in dto.CreateQuotationRequest) (*dto.QuotationResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	quotationID := uuid.New().String()

	lines := make([]billing.LineInput, 0, len(in.Items))
	items := make([]*entity.QuotationItem, 0, len(in.Items))
	for _, it := range in.Items {
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		unitPrice := it.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.Price
		}
		line := billing.LineInput{
			Quantity: it.Quantity,
			Price:    unitPrice,
			Discount: it.Discount,
			Tax:      it.Tax,
		}
		lt := billing.ComputeLine(line)
		lines = append(lines, line)
		items = append(items, &entity.QuotationItem{
			ID:          uuid.New().String(),
			QuotationID: quotationID,
			ProductID:   it.ProductID,
			ProductName: product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   unitPrice,
			Discount:    it.Discount,
			Tax:         it.Tax,
			Subtotal:    lt.Subtotal,
		})
	}
	totals := billing.ComputeDocument(lines, in.Discount)

	clientName := in.ClientName
	if clientName == "" {
		clientName = entity.DefaultClientName
	}

	var quotation *entity.Quotation
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		n, err := tx.Sequences.Next(entity.DocTypeQuotation, now.Year())
		if err != nil {
			return err
		}
		quotation = &entity.Quotation{
			ID:              quotationID,
			QuotationNumber: entity.FormatDocumentNumber(entity.DocTypeQuotation, now.Year(), n),
			CustomerID:      in.CustomerID,
			ClientName:      clientName,
			UserID:          userID,
			Subtotal:        totals.Subtotal,
			Discount:        totals.Discount,
			Tax:             totals.Tax,
			Total:           totals.Total,
			ValidUntil:      in.ValidUntil,
			Status:          entity.QuotationStatusDraft,
			Notes:           in.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.Quotations.Create(quotation); err != nil {
			return err
		}
		for _, item := range items {
			if err := tx.Quotations.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toQuotationResponse(quotation, items), nil
}

// GetByID devuelve la cotización con sus líneas.
func (uc *QuotationUseCase) GetByID(ctx context.Context, id string) (*dto.QuotationResponse, error) {
	quotation, err := uc.quotationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.quotationRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return toQuotationResponse(quotation, items), nil
}

// List lista cotizaciones paginadas (sin líneas).
func (uc *QuotationUseCase) List(ctx context.Context, status string, limit, offset int) (*dto.QuotationListResponse, error) {
	quotations, err := uc.quotationRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.QuotationListResponse{Items: make([]dto.QuotationResponse, 0, len(quotations)), Limit: limit, Offset: offset}
	for _, q := range quotations {
		out.Items = append(out.Items, *toQuotationResponse(q, nil))
	}
	return out, nil
}

// UpdateStatus cambia el estado del ciclo de vida de la cotización.
// converted no se asigna por esta vía: solo ConvertToSale escribe ese
// estado. Una cotización convertida ya no cambia de estado.
func (uc *QuotationUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.QuotationResponse, error) {
	switch status {
	case entity.QuotationStatusDraft, entity.QuotationStatusSent,
		entity.QuotationStatusAccepted, entity.QuotationStatusRejected,
		entity.QuotationStatusExpired:
	default:
		return nil, domain.ErrInvalidInput
	}
	quotation, err := uc.quotationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, domain.ErrNotFound
	}
	if quotation.Status == entity.QuotationStatusConverted {
		return nil, domain.ErrConflict
	}
	quotation.Status = status
	quotation.UpdatedAt = time.Now()
	if err := uc.quotationRepo.Update(quotation); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// ConvertToSale convierte una cotización aceptada en venta, todo en una
// transacción: lock de la cotización, verificación del estado convertible,
// creación de la venta por la ruta normal (con sus locks de stock y
// movimientos) y marcado como converted con el ID de la venta. Si el stock
// no alcanza, la transacción completa se revierte y la cotización queda
// intacta en accepted. El lock FOR UPDATE hace imposible la doble
// conversión concurrente: la segunda transacción ve converted y recibe
// ErrConflict.
func (uc *QuotationUseCase) ConvertToSale(ctx context.Context, userID, quotationID string) (*dto.QuotationResponse, *entity.Sale, error) {
	now := time.Now()
	var quotation *entity.Quotation
	var quotationItems []*entity.QuotationItem
	var sale *entity.Sale

	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		quotation, err = tx.Quotations.GetByIDForUpdate(quotationID)
		if err != nil {
			return err
		}
		if quotation == nil {
			return domain.ErrNotFound
		}
		if quotation.Status == entity.QuotationStatusConverted {
			return domain.ErrConflict
		}
		if quotation.Status != entity.QuotationConvertibleStatus {
			return domain.ErrConflict
		}
		quotationItems, err = tx.Quotations.GetItems(quotationID)
		if err != nil {
			return err
		}

		// Los precios cotizados se respetan: la venta usa los valores
		// congelados en la cotización, no los precios vigentes del catálogo.
		globalDiscountPct := decimal.Zero
		if quotation.Subtotal.GreaterThan(decimal.Zero) {
			globalDiscountPct = quotation.Discount.Div(quotation.Subtotal).Mul(decimal.NewFromInt(100)).Round(4)
		}
		saleReq := dto.CreateSaleRequest{
			CustomerID: quotation.CustomerID,
			ClientName: quotation.ClientName,
			Discount:   globalDiscountPct,
			Notes:      quotation.Notes,
		}
		for _, it := range quotationItems {
			saleReq.Items = append(saleReq.Items, dto.SaleItemRequest{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Discount:  it.Discount,
				Tax:       it.Tax,
			})
		}

		sale, _, err = uc.saleCreator.CreateSaleInTx(tx, userID, saleReq, now)
		if err != nil {
			return err
		}

		quotation.Status = entity.QuotationStatusConverted
		quotation.ConvertedSaleID = sale.ID
		quotation.UpdatedAt = now
		return tx.Quotations.Update(quotation)
	})
	if err != nil {
		return nil, nil, err
	}
	return toQuotationResponse(quotation, quotationItems), sale, nil
}

func toQuotationResponse(q *entity.Quotation, items []*entity.QuotationItem) *dto.QuotationResponse {
	resp := &dto.QuotationResponse{
		ID:              q.ID,
		QuotationNumber: q.QuotationNumber,
		CustomerID:      q.CustomerID,
		ClientName:      q.ClientName,
		UserID:          q.UserID,
		Subtotal:        q.Subtotal,
		Discount:        q.Discount,
		Tax:             q.Tax,
		Total:           q.Total,
		ValidUntil:      q.ValidUntil,
		Status:          q.Status,
		ConvertedSaleID: q.ConvertedSaleID,
		Notes:           q.Notes,
		CreatedAt:       q.CreatedAt,
		Items:           make([]dto.QuotationItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.QuotationItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Tax:         it.Tax,
			Subtotal:    it.Subtotal,
		})
	}
	return resp
}
