package service

import (
	"context"
	"fmt"

	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/ws"
	"go-pos-inventory/pkg/logger"
	"go-pos-inventory/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InventoryService interface {
	Adjust(ctx context.Context, productID uuid.UUID, quantity int, notes *string) (*model.Product, error)
	Restock(ctx context.Context, productID uuid.UUID, quantity int, notes *string) (*model.Product, error)
	GetMovements(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error)
	GetRecentMovements(ctx context.Context, limit int) ([]model.StockMovement, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewInventoryService(
	pRepo repository.ProductRepository,
	mRepo repository.StockMovementRepository,
	db *gorm.DB,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		productRepo:  pRepo,
		movementRepo: mRepo,
		db:           db,
		wsHub:        hub,
	}
}

// Adjust applies a signed stock delta and appends one adjustment ledger
// row, atomically. A delta that would drive stock below zero is rejected
// with no mutation and no ledger entry. Zero deltas are allowed and still
// ledgered: a stock count that confirms the current quantity is an audit
// event too.
func (s *inventoryService) Adjust(ctx context.Context, productID uuid.UUID, quantity int, notes *string) (*model.Product, error) {
	return s.applyMovement(ctx, productID, quantity, model.MovementAdjustment, model.RefAdjustment, notes)
}

// Restock is a receiving entry: a positive-only stock increase recorded as
// an "in" movement referencing a restock.
func (s *inventoryService) Restock(ctx context.Context, productID uuid.UUID, quantity int, notes *string) (*model.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: restock quantity must be greater than zero", validator.ErrValidation)
	}
	return s.applyMovement(ctx, productID, quantity, model.MovementIn, model.RefRestock, notes)
}

func (s *inventoryService) applyMovement(
	ctx context.Context,
	productID uuid.UUID,
	quantity int,
	movementType model.MovementType,
	referenceType model.ReferenceType,
	notes *string,
) (*model.Product, error) {
	var updated model.Product

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.AdjustStock(tx, productID, quantity); err != nil {
			return err
		}
		movement := &model.StockMovement{
			ProductID:     productID,
			MovementType:  movementType,
			Quantity:      quantity,
			ReferenceType: referenceType,
			Notes:         notes,
		}
		if err := s.movementRepo.Append(tx, movement); err != nil {
			return err
		}
		return tx.First(&updated, "id = ?", productID).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("stock movement applied",
		zap.String("product_id", productID.String()),
		zap.String("movement_type", string(movementType)),
		zap.Int("quantity", quantity),
		zap.Int("new_stock", updated.StockQuantity),
	)

	if s.wsHub != nil {
		go s.wsHub.BroadcastJSON(map[string]interface{}{
			"type":   "stock_update",
			"action": "stock_adjusted",
			"product": map[string]interface{}{
				"id":        updated.ID,
				"name":      updated.Name,
				"new_stock": updated.StockQuantity,
			},
			"movement": map[string]interface{}{
				"movement_type": movementType,
				"quantity":      quantity,
			},
		})
	}

	return &updated, nil
}

func (s *inventoryService) GetMovements(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.movementRepo.FindByProduct(ctx, productID)
}

func (s *inventoryService) GetRecentMovements(ctx context.Context, limit int) ([]model.StockMovement, error) {
	return s.movementRepo.FindRecent(ctx, limit)
}
