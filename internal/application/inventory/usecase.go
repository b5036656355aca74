// Package inventory expone los movimientos manuales de stock (ajustes,
// devoluciones, entradas y salidas sueltas), el kardex y las alertas de
// stock mínimo. Ventas y compras generan sus propios movimientos.
package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferreteria-pro/ferreteria-api/internal/application/dto"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}

// InventoryUseCase casos de uso de inventario.
type InventoryUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.InventoryMovementRepository
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(txRunner TxRunner, productRepo repository.ProductRepository, movementRepo repository.InventoryMovementRepository) *InventoryUseCase {
	return &InventoryUseCase{txRunner: txRunner, productRepo: productRepo, movementRepo: movementRepo}
}

// RegisterMovement aplica un movimiento manual sobre el stock con la fila
// del producto bloqueada. entry/return suman, exit resta (validando que
// alcance), adjustment aplica la cantidad con su signo. El stock nunca
// queda negativo.
func (uc *InventoryUseCase) RegisterMovement(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if in.ProductID == "" || in.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	var delta decimal.Decimal
	switch in.Type {
	case entity.MovementTypeEntry, entity.MovementTypeReturn:
		if in.Quantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		delta = in.Quantity
	case entity.MovementTypeExit:
		if in.Quantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		delta = in.Quantity.Neg()
	case entity.MovementTypeAdjustment:
		delta = in.Quantity
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var movement *entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		product, err := tx.Products.GetByIDForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		newStock := product.Stock.Add(delta)
		if newStock.IsNegative() {
			return &domain.StockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   delta.Abs(),
				Available:   product.Stock,
			}
		}
		if err := tx.Products.UpdateStock(product.ID, newStock); err != nil {
			return err
		}
		movement = &entity.InventoryMovement{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			Type:          in.Type,
			Quantity:      delta,
			PreviousStock: product.Stock,
			NewStock:      newStock,
			ReferenceType: referenceFor(in.Type),
			UserID:        userID,
			Notes:         in.Notes,
			CreatedAt:     now,
		}
		return tx.Movements.Create(movement)
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(movement), nil
}

func referenceFor(movementType string) string {
	if movementType == entity.MovementTypeReturn {
		return entity.ReferenceReturn
	}
	return entity.ReferenceAdjustment
}

// ListMovements kardex filtrable por producto, tipo y rango de fechas.
func (uc *InventoryUseCase) ListMovements(ctx context.Context, f repository.MovementFilter) (*dto.MovementListResponse, error) {
	movements, err := uc.movementRepo.List(f)
	if err != nil {
		return nil, err
	}
	out := &dto.MovementListResponse{Items: make([]dto.MovementResponse, 0, len(movements)), Limit: f.Limit, Offset: f.Offset}
	for _, m := range movements {
		out.Items = append(out.Items, *toMovementResponse(m))
	}
	return out, nil
}

// LowStock productos activos en o por debajo de su stock mínimo, con la
// cantidad sugerida a reordenar cuando el producto define stock máximo.
func (uc *InventoryUseCase) LowStock(ctx context.Context) ([]dto.LowStockProductDTO, error) {
	products, err := uc.productRepo.ListBelowMinStock()
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockProductDTO, 0, len(products))
	for _, p := range products {
		suggested := decimal.Zero
		if p.MaxStock.GreaterThan(decimal.Zero) {
			suggested = p.MaxStock.Sub(p.Stock)
			if suggested.IsNegative() {
				suggested = decimal.Zero
			}
		}
		out = append(out, dto.LowStockProductDTO{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Stock:     p.Stock,
			MinStock:  p.MinStock,
			Suggested: suggested,
		})
	}
	return out, nil
}

func toMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		UserID:        m.UserID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}
