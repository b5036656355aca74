package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/dto"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

// Cancel cancela una venta: repone el stock de cada línea con su movimiento
// compensatorio y transiciona la venta a cancelled. La fila y sus líneas se
// conservan; el rastro de auditoría no se destruye.
func (uc *SaleUseCase) Cancel(ctx context.Context, userID, saleID string) error {
	now := time.Now()
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		sale, err := tx.Sales.GetByIDForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleStatusCancelled {
			return domain.ErrConflict
		}
		items, err := tx.Sales.GetItems(saleID)
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
			if err := tx.Movements.Create(&entity.InventoryMovement{
				ID:            uuid.New().String(),
				ProductID:     product.ID,
				Type:          entity.MovementTypeAdjustment,
				Quantity:      it.Quantity,
				PreviousStock: product.Stock,
				NewStock:      newStock,
				ReferenceType: entity.ReferenceSaleCancellation,
				ReferenceID:   sale.ID,
				UserID:        userID,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}
		sale.Status = entity.SaleStatusCancelled
		sale.UpdatedAt = now
		return tx.Sales.Update(sale)
	})
}

// GetByID devuelve la venta con líneas y nombres de producto.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	names := map[string]string{}
	for _, it := range items {
		if p, err := uc.productRepo.GetByID(it.ProductID); err == nil && p != nil {
			names[it.ProductID] = p.Name
		}
	}
	return toSaleResponse(sale, items, names), nil
}

// List lista ventas paginadas (sin líneas).
func (uc *SaleUseCase) List(ctx context.Context, f repository.SaleFilter) (*dto.SaleListResponse, error) {
	sales, err := uc.saleRepo.List(f)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{Items: make([]dto.SaleResponse, 0, len(sales)), Limit: f.Limit, Offset: f.Offset}
	for _, s := range sales {
		out.Items = append(out.Items, *toSaleResponse(s, nil, nil))
	}
	return out, nil
}

// UpdatePayment actualiza los únicos campos mutables de una venta:
// estado de pago, método y notas. Los totales quedaron congelados al crear.
func (uc *SaleUseCase) UpdatePayment(ctx context.Context, id string, in dto.UpdateSalePaymentRequest) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status == entity.SaleStatusCancelled {
		return nil, domain.ErrConflict
	}
	if in.PaymentMethod != nil {
		sale.PaymentMethod = *in.PaymentMethod
	}
	if in.PaymentStatus != nil {
		sale.PaymentStatus = *in.PaymentStatus
	}
	if in.Notes != nil {
		sale.Notes = *in.Notes
	}
	sale.UpdatedAt = time.Now()
	if err := uc.saleRepo.Update(sale); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Stats agregados de ventas: hoy, 7 días, mes, y desgloses.
func (uc *SaleUseCase) Stats(ctx context.Context) (*dto.SalesStatsResponse, error) {
	res, err := uc.statsRepo.SalesStats(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	out := &dto.SalesStatsResponse{
		Today:        dto.PeriodTotalsDTO{Count: res.Today.Count, Total: res.Today.Total},
		Last7Days:    dto.PeriodTotalsDTO{Count: res.Last7Days.Count, Total: res.Last7Days.Total},
		CurrentMonth: dto.PeriodTotalsDTO{Count: res.CurrentMonth.Count, Total: res.CurrentMonth.Total},
	}
	for _, g := range res.ByPaymentStatus {
		out.ByPaymentStatus = append(out.ByPaymentStatus, dto.GroupTotalsDTO{Key: g.Key, Count: g.Count, Total: g.Total})
	}
	for _, g := range res.ByPaymentMethod {
		out.ByPaymentMethod = append(out.ByPaymentMethod, dto.GroupTotalsDTO{Key: g.Key, Count: g.Count, Total: g.Total})
	}
	return out, nil
}
