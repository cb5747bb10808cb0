package service_test

import (
	"math/rand"
	"testing"
	"time"

	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every session sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Product{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.StockMovement{},
	))
	return db
}

type testEnv struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	txRepo       repository.TransactionRepository
	movementRepo repository.StockMovementRepository

	catalog   service.CatalogService
	inventory service.InventoryService
	sales     service.SaleService
}

func newTestEnv(t *testing.T, now func() time.Time) *testEnv {
	t.Helper()

	db := newTestDB(t)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)

	rnd := rand.New(rand.NewSource(42))

	return &testEnv{
		db:           db,
		productRepo:  productRepo,
		txRepo:       txRepo,
		movementRepo: movementRepo,
		catalog:      service.NewCatalogService(productRepo),
		inventory:    service.NewInventoryService(productRepo, movementRepo, db, nil),
		sales:        service.NewSaleService(productRepo, txRepo, movementRepo, db, nil, now, rnd),
	}
}

func (e *testEnv) seedProduct(t *testing.T, name string, price string, stock int, active bool) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsActive:      active,
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *testEnv) reloadProduct(t *testing.T, id uuid.UUID) *model.Product {
	t.Helper()

	var product model.Product
	require.NoError(t, e.db.First(&product, "id = ?", id).Error)
	return &product
}

func (e *testEnv) countRows(t *testing.T, value interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, e.db.Model(value).Count(&count).Error)
	return count
}

// ledgerSum is the signed movement total for a product; combined with the
// product's seeded stock it must always reconcile with the current
// quantity.
func (e *testEnv) ledgerSum(t *testing.T, productID uuid.UUID) int {
	t.Helper()

	var movements []model.StockMovement
	require.NoError(t, e.db.Where("product_id = ?", productID).Find(&movements).Error)
	sum := 0
	for _, m := range movements {
		sum += m.Quantity
	}
	return sum
}

func strPtr(s string) *string { return &s }

func mustDecimal(s string) decimal.Decimal { return decimal.RequireFromString(s) }
