package service_test

import (
	"context"
	"testing"

	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct_SetsDefaults(t *testing.T) {
	env := newTestEnv(t, nil)

	product, err := env.catalog.CreateProduct(context.Background(), &service.ProductRequest{
		Name:          "  Espresso Cup  ",
		Barcode:       strPtr("8991234500017"),
		Category:      strPtr("kitchen"),
		Price:         mustDecimal("3.75"),
		StockQuantity: 12,
	})
	require.NoError(t, err)

	assert.Equal(t, "Espresso Cup", product.Name)
	assert.True(t, product.IsActive)
	assert.Equal(t, 12, product.StockQuantity)
	assert.NotZero(t, product.ID)
}

func TestCreateProduct_DuplicateBarcode(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.catalog.CreateProduct(ctx, &service.ProductRequest{
		Name:    "First",
		Barcode: strPtr("111222333"),
		Price:   mustDecimal("1.00"),
	})
	require.NoError(t, err)

	_, err = env.catalog.CreateProduct(ctx, &service.ProductRequest{
		Name:    "Second",
		Barcode: strPtr("111222333"),
		Price:   mustDecimal("2.00"),
	})
	require.ErrorIs(t, err, model.ErrDuplicateBarcode)
}

func TestCreateProduct_DuplicateBarcodeIgnoresActiveFlag(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	first, err := env.catalog.CreateProduct(ctx, &service.ProductRequest{
		Name:    "Old Stock",
		Barcode: strPtr("999000111"),
		Price:   mustDecimal("1.00"),
	})
	require.NoError(t, err)
	require.NoError(t, env.catalog.DeactivateProduct(ctx, first.ID))

	// Uniqueness holds across inactive products too.
	_, err = env.catalog.CreateProduct(ctx, &service.ProductRequest{
		Name:    "New Stock",
		Barcode: strPtr("999000111"),
		Price:   mustDecimal("2.00"),
	})
	require.ErrorIs(t, err, model.ErrDuplicateBarcode)
}

func TestUpdateProduct_KeepingOwnBarcode(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	product, err := env.catalog.CreateProduct(ctx, &service.ProductRequest{
		Name:    "Mug",
		Barcode: strPtr("4004004004"),
		Price:   mustDecimal("6.00"),
	})
	require.NoError(t, err)

	updated, err := env.catalog.UpdateProduct(ctx, product.ID, &service.ProductRequest{
		Name:    "Mug XL",
		Barcode: strPtr("4004004004"),
		Price:   mustDecimal("7.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mug XL", updated.Name)
	assert.True(t, updated.Price.Equal(mustDecimal("7.50")))
}

func TestUpdateProduct_BarcodeCollision(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.catalog.CreateProduct(ctx, &service.ProductRequest{
		Name:    "Taken",
		Barcode: strPtr("123123123"),
		Price:   mustDecimal("1.00"),
	})
	require.NoError(t, err)

	other, err := env.catalog.CreateProduct(ctx, &service.ProductRequest{
		Name:  "Other",
		Price: mustDecimal("1.00"),
	})
	require.NoError(t, err)

	_, err = env.catalog.UpdateProduct(ctx, other.ID, &service.ProductRequest{
		Name:    "Other",
		Barcode: strPtr("123123123"),
		Price:   mustDecimal("1.00"),
	})
	require.ErrorIs(t, err, model.ErrDuplicateBarcode)
}

func TestUpdateProduct_DoesNotTouchStock(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	product := env.seedProduct(t, "Candles", "2.00", 33, true)

	// A sale settles before the catalog edit; the edit must not restore
	// the pre-sale count or leave the ledger out of step.
	_, err := env.sales.CreateSale(ctx, &service.CreateSaleRequest{
		Items:         []service.SaleLineInput{{ProductID: product.ID, Quantity: 8}},
		PaymentMethod: model.PaymentCash,
		PaymentAmount: mustDecimal("20.00"),
	})
	require.NoError(t, err)

	_, err = env.catalog.UpdateProduct(ctx, product.ID, &service.ProductRequest{
		Name:          "Candles",
		Price:         mustDecimal("2.50"),
		StockQuantity: 999, // ignored: stock moves only through the ledgered paths
	})
	require.NoError(t, err)

	assert.Equal(t, 25, env.reloadProduct(t, product.ID).StockQuantity)
	assert.Equal(t, 25, 33+env.ledgerSum(t, product.ID))
}

func TestDeactivateProduct_BlockedByPendingTransaction(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	product := env.seedProduct(t, "Layaway Item", "20.00", 4, true)

	pending := &model.Transaction{
		TransactionNumber: "TRX-TEST-PENDING-0001",
		TotalAmount:       mustDecimal("20.00"),
		PaymentMethod:     model.PaymentCash,
		PaymentAmount:     mustDecimal("20.00"),
		ChangeAmount:      mustDecimal("0"),
		Status:            model.TxPending,
		Items: []model.TransactionItem{{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    1,
			TotalPrice:  product.Price,
		}},
	}
	require.NoError(t, env.db.Create(pending).Error)

	err := env.catalog.DeactivateProduct(ctx, product.ID)
	require.ErrorIs(t, err, model.ErrProductReferenced)
	assert.True(t, env.reloadProduct(t, product.ID).IsActive)

	// Once the transaction settles, deactivation goes through.
	require.NoError(t, env.db.Model(pending).Update("status", model.TxCompleted).Error)
	require.NoError(t, env.catalog.DeactivateProduct(ctx, product.ID))
	assert.False(t, env.reloadProduct(t, product.ID).IsActive)
}

func TestGetProductByBarcode_ActiveOnly(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	product, err := env.catalog.CreateProduct(ctx, &service.ProductRequest{
		Name:    "Scan Me",
		Barcode: strPtr("777888999"),
		Price:   mustDecimal("3.00"),
	})
	require.NoError(t, err)

	found, err := env.catalog.GetProductByBarcode(ctx, "777888999")
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)

	require.NoError(t, env.catalog.DeactivateProduct(ctx, product.ID))

	_, err = env.catalog.GetProductByBarcode(ctx, "777888999")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetProducts_Filters(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.catalog.CreateProduct(ctx, &service.ProductRequest{
		Name: "Green Tea", Category: strPtr("drinks"), Price: mustDecimal("2.00"),
	})
	require.NoError(t, err)
	inactive, err := env.catalog.CreateProduct(ctx, &service.ProductRequest{
		Name: "Black Tea", Category: strPtr("drinks"), Price: mustDecimal("2.00"),
	})
	require.NoError(t, err)
	require.NoError(t, env.catalog.DeactivateProduct(ctx, inactive.ID))
	_, err = env.catalog.CreateProduct(ctx, &service.ProductRequest{
		Name: "Mint Soap", Category: strPtr("bathroom"), Price: mustDecimal("1.50"),
	})
	require.NoError(t, err)

	drinks, err := env.catalog.GetProducts(ctx, repository.ProductFilter{Category: "drinks"})
	require.NoError(t, err)
	assert.Len(t, drinks, 2)

	activeDrinks, err := env.catalog.GetProducts(ctx, repository.ProductFilter{Category: "drinks", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, activeDrinks, 1)
	assert.Equal(t, "Green Tea", activeDrinks[0].Name)

	byName, err := env.catalog.GetProducts(ctx, repository.ProductFilter{Search: "tea"})
	require.NoError(t, err)
	assert.Len(t, byName, 2)
}
