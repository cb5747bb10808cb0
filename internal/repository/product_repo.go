package repository

import (
	"context"
	"errors"
	"strings"

	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category   string
	Search     string
	ActiveOnly bool
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindActiveByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	BarcodeExists(ctx context.Context, barcode string, excludingID uuid.UUID) (bool, error)
	Update(ctx context.Context, product *model.Product) error
	DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int) error
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error
	HasPendingReferences(ctx context.Context, id uuid.UUID) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Order("name ASC")
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR barcode = ?", pattern, filter.Search)
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	return &product, err
}

func (r *productRepo) FindActiveByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, "barcode = ? AND is_active = ?", barcode, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	return &product, err
}

func (r *productRepo) BarcodeExists(ctx context.Context, barcode string, excludingID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("barcode = ?", barcode)
	if excludingID != uuid.Nil {
		q = q.Where("id <> ?", excludingID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Update writes catalog fields only. Stock is owned by the ledgered paths
// (sales, adjustments); omitting it here keeps a stale in-memory copy from
// clobbering a decrement that committed after the caller's read.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).
		Omit("stock_quantity", clause.Associations).
		Save(product).Error
}

// DecrementStock subtracts quantity inside the caller's transaction. The
// guard in the WHERE clause is the compare-and-swap that keeps stock
// non-negative under concurrent sales: a lost race shows up as zero rows
// affected, never as negative stock.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.stockGuardFailure(tx, id, model.ErrInsufficientStock)
	}
	return nil
}

// AdjustStock applies a signed delta inside the caller's transaction,
// rejecting any delta that would drive stock below zero.
func (r *productRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock_quantity + ? >= 0", id, delta).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.stockGuardFailure(tx, id, model.ErrNegativeStockResult)
	}
	return nil
}

// stockGuardFailure disambiguates a zero-rows update: missing row vs a
// stock guard that did not hold.
func (r *productRepo) stockGuardFailure(tx *gorm.DB, id uuid.UUID, guardErr error) error {
	var count int64
	if err := tx.Model(&model.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return model.ErrNotFound
	}
	return guardErr
}

func (r *productRepo) HasPendingReferences(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TransactionItem{}).
		Joins("JOIN transactions ON transactions.id = transaction_items.transaction_id").
		Where("transaction_items.product_id = ? AND transactions.status = ?", id, model.TxPending).
		Count(&count).Error
	return count > 0, err
}
