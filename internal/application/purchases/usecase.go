// Package purchases implementa el ciclo de compra a proveedor:
// pending/draft → received (única transición que afecta stock) o
// pending/draft → cancelled; received → cancelled reversa el stock.
package purchases

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

// PurchaseUseCase casos de uso de compras.
type PurchaseUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	statsRepo    repository.StatsRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner TxRunner,
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	statsRepo repository.StatsRepository,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		statsRepo:    statsRepo,
	}
}

// Create registra la orden de compra en estado pending. No toca stock: eso
// ocurre únicamente al recibir la mercancía (Receive).
func (uc *PurchaseUseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.SupplierID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.GreaterThan(decimal.Zero) || it.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	// Validar productos fuera de la tx (solo lectura, sin locks: no hay stock en juego)
	for _, it := range in.Items {
		p, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	purchaseID := uuid.New().String()

	// Subtotal = Σ qty × costo; IVA fijo sobre el subtotal, sin descuento en compras
	lines := make([]billing.LineInput, 0, len(in.Items))
	items := make([]*entity.PurchaseItem, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, billing.LineInput{Quantity: it.Quantity, Price: it.UnitCost})
		items = append(items, &entity.PurchaseItem{
			ID:         uuid.New().String(),
			PurchaseID: purchaseID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitCost:   it.UnitCost,
			Subtotal:   it.Quantity.Mul(it.UnitCost).Round(2),
		})
	}
	totals := billing.ComputeDocument(lines, decimal.Zero)

	paymentStatus := in.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = entity.PaymentStatusPending
	}

	var purchase *entity.Purchase
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		n, err := tx.Sequences.Next(entity.DocTypePurchase, now.Year())
		if err != nil {
			return err
		}
		purchase = &entity.Purchase{
			ID:             purchaseID,
			PurchaseNumber: entity.FormatDocumentNumber(entity.DocTypePurchase, now.Year(), n),
			SupplierID:     in.SupplierID,
			UserID:         userID,
			InvoiceNumber:  in.InvoiceNumber,
			Subtotal:       totals.Subtotal,
			Tax:            totals.Tax,
			Total:          totals.Total,
			PaymentStatus:  paymentStatus,
			Status:         entity.PurchaseStatusPending,
			ExpectedDate:   in.ExpectedDate,
			Notes:          in.Notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.Purchases.Create(purchase); err != nil {
			return err
		}
		for _, item := range items {
			if err := tx.Purchases.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(purchase, items, supplier.Name), nil
}

// Receive marca la compra como recibida, una sola vez: por cada línea
// incrementa el stock con bloqueo de fila, sobreescribe el costo del
// producto con el costo de esta compra (último costo gana) y deja el
// movimiento de entrada. Recibir una compra ya recibida o cancelada es
// ErrConflict sin ningún efecto: N intentos equivalen a 1 recepción.
func (uc *PurchaseUseCase) Receive(ctx context.Context, userID, purchaseID string, in dto.ReceivePurchaseRequest) (*dto.PurchaseResponse, error) {
	now := time.Now()
	var purchase *entity.Purchase
	var items []*entity.PurchaseItem

	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		purchase, err = tx.Purchases.GetByIDForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.Status != entity.PurchaseStatusPending && purchase.Status != entity.PurchaseStatusDraft {
			return domain.ErrConflict
		}
		items, err = tx.Purchases.GetItems(purchaseID)
		if err != nil {
			return err
		}
		for _, it := range items {
			product, err := tx.Products.GetByIDForUpdate(it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			newStock := product.Stock.Add(it.Quantity)
			if err := tx.Products.UpdateStock(product.ID, newStock); err != nil {
				return err
			}
			if err := tx.Products.UpdateCost(product.ID, it.UnitCost); err != nil {
				return err
			}
			if err := tx.Movements.Create(&entity.InventoryMovement{
				ID:            uuid.New().String(),
				ProductID:     product.ID,
				Type:          entity.MovementTypeEntry,
				Quantity:      it.Quantity,
				PreviousStock: product.Stock,
				NewStock:      newStock,
				ReferenceType: entity.ReferencePurchase,
				ReferenceID:   purchase.ID,
				UserID:        userID,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}
		receivedDate := now
		if in.ReceivedDate != nil {
			receivedDate = *in.ReceivedDate
		}
		purchase.Status = entity.PurchaseStatusReceived
		purchase.ReceivedDate = &receivedDate
		if in.Notes != "" {
			purchase.Notes = in.Notes
		}
		purchase.UpdatedAt = now
		return tx.Purchases.Update(purchase)
	})
	if err != nil {
		return nil, err
	}
	return uc.responseWithSupplier(purchase, items)
}

// Cancel cancela la compra. Si estaba recibida, reversa el incremento de
// stock línea por línea con su movimiento compensatorio; si no, no hay
// stock que revertir. En ambos casos la fila se conserva como cancelled.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, userID, purchaseID string) error {
	now := time.Now()
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		purchase, err := tx.Purchases.GetByIDForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.Status == entity.PurchaseStatusCancelled {
			return domain.ErrConflict
		}
		if purchase.Status == entity.PurchaseStatusReceived {
			items, err := tx.Purchases.GetItems(purchaseID)
			if err != nil {
				return err
			}
			for _, it := range items {
				product, err := tx.Products.GetByIDForUpdate(it.ProductID)
				if err != nil {
					return err
				}
				if product == nil {
					return domain.ErrNotFound
				}
				newStock := product.Stock.Sub(it.Quantity)
				if err := tx.Products.UpdateStock(product.ID, newStock); err != nil {
					return err
				}
				if err := tx.Movements.Create(&entity.InventoryMovement{
					ID:            uuid.New().String(),
					ProductID:     product.ID,
					Type:          entity.MovementTypeAdjustment,
					Quantity:      it.Quantity.Neg(),
					PreviousStock: product.Stock,
					NewStock:      newStock,
					ReferenceType: entity.ReferencePurchaseCancellation,
					ReferenceID:   purchase.ID,
					UserID:        userID,
					CreatedAt:     now,
				}); err != nil {
					return err
				}
			}
		}
		purchase.Status = entity.PurchaseStatusCancelled
		purchase.UpdatedAt = now
		return tx.Purchases.Update(purchase)
	})
}

// GetByID devuelve la compra con líneas y nombre del proveedor.
func (uc *PurchaseUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.purchaseRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return uc.responseWithSupplier(purchase, items)
}

// List lista compras paginadas (sin líneas).
func (uc *PurchaseUseCase) List(ctx context.Context, f repository.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	purchases, err := uc.purchaseRepo.List(f)
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseListResponse{Items: make([]dto.PurchaseResponse, 0, len(purchases)), Limit: f.Limit, Offset: f.Offset}
	for _, p := range purchases {
		out.Items = append(out.Items, *uc.toResponse(p, nil, ""))
	}
	return out, nil
}

// Update edita los campos administrativos de una compra aún no recibida.
// Una compra recibida o cancelada no se edita (ErrConflict).
func (uc *PurchaseUseCase) Update(ctx context.Context, id string, in dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	if purchase.Status != entity.PurchaseStatusPending && purchase.Status != entity.PurchaseStatusDraft {
		return nil, domain.ErrConflict
	}
	if in.InvoiceNumber != nil {
		purchase.InvoiceNumber = *in.InvoiceNumber
	}
	if in.ExpectedDate != nil {
		purchase.ExpectedDate = in.ExpectedDate
	}
	if in.PaymentStatus != nil {
		purchase.PaymentStatus = *in.PaymentStatus
	}
	if in.Notes != nil {
		purchase.Notes = *in.Notes
	}
	purchase.UpdatedAt = time.Now()
	if err := uc.purchaseRepo.Update(purchase); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Stats agregados de compras.
func (uc *PurchaseUseCase) Stats(ctx context.Context) (*dto.PurchaseStatsResponse, error) {
	res, err := uc.statsRepo.PurchaseStats(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseStatsResponse{
		Today:        dto.PeriodTotalsDTO{Count: res.Today.Count, Total: res.Today.Total},
		Last7Days:    dto.PeriodTotalsDTO{Count: res.Last7Days.Count, Total: res.Last7Days.Total},
		CurrentMonth: dto.PeriodTotalsDTO{Count: res.CurrentMonth.Count, Total: res.CurrentMonth.Total},
	}
	for _, g := range res.ByStatus {
		out.ByStatus = append(out.ByStatus, dto.GroupTotalsDTO{Key: g.Key, Count: g.Count, Total: g.Total})
	}
	return out, nil
}

func (uc *PurchaseUseCase) responseWithSupplier(p *entity.Purchase, items []*entity.PurchaseItem) (*dto.PurchaseResponse, error) {
	supplierName := ""
	if s, err := uc.supplierRepo.GetByID(p.SupplierID); err == nil && s != nil {
		supplierName = s.Name
	}
	return uc.toResponse(p, items, supplierName), nil
}

func (uc *PurchaseUseCase) toResponse(p *entity.Purchase, items []*entity.PurchaseItem, supplierName string) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:             p.ID,
		PurchaseNumber: p.PurchaseNumber,
		SupplierID:     p.SupplierID,
		SupplierName:   supplierName,
		UserID:         p.UserID,
		InvoiceNumber:  p.InvoiceNumber,
		Subtotal:       p.Subtotal,
		Tax:            p.Tax,
		Total:          p.Total,
		PaymentStatus:  p.PaymentStatus,
		Status:         p.Status,
		ExpectedDate:   p.ExpectedDate,
		ReceivedDate:   p.ReceivedDate,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		Items:          make([]dto.PurchaseItemResponse, 0, len(items)),
	}
	for _, it := range items {
		name := ""
		if prod, err := uc.productRepo.GetByID(it.ProductID); err == nil && prod != nil {
			name = prod.Name
		}
		resp.Items = append(resp.Items, dto.PurchaseItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: name,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			Subtotal:    it.Subtotal,
		})
	}
	return resp
}
