package repository

import (
	"context"

	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementRepository is the append-only inventory ledger. There is no
// update or delete on purpose: movements are the audit trail that
// reconciles against product stock.
type StockMovementRepository interface {
	Append(tx *gorm.DB, movement *model.StockMovement) error
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error)
	FindRecent(ctx context.Context, limit int) ([]model.StockMovement, error)
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) Append(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *stockMovementRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) FindRecent(ctx context.Context, limit int) ([]model.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).Preload("Product").
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}
