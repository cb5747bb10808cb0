package repository

import (
	"context"
	"errors"
	"time"

	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionFilter narrows sale listings.
type TransactionFilter struct {
	Status        model.TransactionStatus
	PaymentMethod model.PaymentMethod
	StartDate     *time.Time
	EndDate       *time.Time
}

// DailySalesData is one chart point of the sales-per-day series.
type DailySalesData struct {
	Date         string          `json:"date"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	Transactions int64           `json:"transactions"`
}

// DashboardStats is the overview block of the dashboard.
type DashboardStats struct {
	TotalProducts      int64           `json:"total_products"`
	LowStockCount      int64           `json:"low_stock_count"`
	InventoryValuation decimal.Decimal `json:"inventory_valuation"`
	TodaySales         decimal.Decimal `json:"today_sales"`
	TodayTransactions  int64           `json:"today_transactions"`
}

type TransactionRepository interface {
	Create(tx *gorm.DB, transaction *model.Transaction) error
	FindAll(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	FindCompletedBetween(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
	GetDailySales(ctx context.Context, start, end time.Time) ([]DailySalesData, error)
	GetDashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// Create persists the sale and its line items inside the caller's
// transaction. Items are saved through the association so the whole order
// lands or none of it does.
func (r *transactionRepo) Create(tx *gorm.DB, transaction *model.Transaction) error {
	return tx.Create(transaction).Error
}

func (r *transactionRepo) FindAll(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction
	q := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PaymentMethod != "" {
		q = q.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("created_at <= ?", *filter.EndDate)
	}
	err := q.Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).Preload("Items").First(&transaction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	return &transaction, err
}

func (r *transactionRepo) FindCompletedBetween(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at BETWEEN ? AND ?", model.TxCompleted, start, end).
		Order("created_at ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) GetDailySales(ctx context.Context, start, end time.Time) ([]DailySalesData, error) {
	var results []DailySalesData

	rows, err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(total_amount), 0) as total_sales,
			COUNT(*) as transactions
		`).
		Where("status = ? AND created_at BETWEEN ? AND ?", model.TxCompleted, start, end).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailySalesData
		if err := rows.Scan(&data.Date, &data.TotalSales, &data.Transactions); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *transactionRepo) GetDashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Where("is_active = ?", true).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	// Low stock threshold matches the reorder warning in the client.
	if err := db.Model(&model.Product{}).
		Where("is_active = ? AND stock_quantity < ?", true, 10).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.Product{}).
		Where("is_active = ?", true).
		Select("COALESCE(SUM(stock_quantity * price), 0)").
		Scan(&stats.InventoryValuation).Error; err != nil {
		return nil, err
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(999*time.Millisecond), now.Location())

	if err := db.Model(&model.Transaction{}).
		Where("status = ? AND created_at BETWEEN ? AND ?", model.TxCompleted, dayStart, dayEnd).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TodaySales).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.Transaction{}).
		Where("status = ? AND created_at BETWEEN ? AND ?", model.TxCompleted, dayStart, dayEnd).
		Count(&stats.TodayTransactions).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
