package service_test

import (
	"context"
	"testing"

	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjust_IncreasesStockAndAppendsLedger(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	product := env.seedProduct(t, "Flour 1kg", "2.10", 50, true)

	updated, err := env.inventory.Adjust(ctx, product.ID, 25, strPtr("restock delivery"))
	require.NoError(t, err)
	assert.Equal(t, 75, updated.StockQuantity)

	movements, err := env.inventory.GetMovements(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementAdjustment, movements[0].MovementType)
	assert.Equal(t, 25, movements[0].Quantity)
	assert.Equal(t, model.RefAdjustment, movements[0].ReferenceType)
	assert.Nil(t, movements[0].ReferenceID)
	require.NotNil(t, movements[0].Notes)
	assert.Equal(t, "restock delivery", *movements[0].Notes)
}

func TestAdjust_NegativeDelta(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	product := env.seedProduct(t, "Sugar 1kg", "1.80", 20, true)

	updated, err := env.inventory.Adjust(ctx, product.ID, -8, strPtr("spoilage"))
	require.NoError(t, err)
	assert.Equal(t, 12, updated.StockQuantity)
	assert.Equal(t, -8, env.ledgerSum(t, product.ID))
}

func TestAdjust_NegativeResultRejected_NoMutationNoLedger(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	product := env.seedProduct(t, "Salt 500g", "0.90", 5, true)

	_, err := env.inventory.Adjust(ctx, product.ID, -6, nil)
	require.ErrorIs(t, err, model.ErrNegativeStockResult)

	assert.Equal(t, 5, env.reloadProduct(t, product.ID).StockQuantity)
	assert.Zero(t, env.countRows(t, &model.StockMovement{}))
}

func TestAdjust_ZeroQuantityStillLedgered(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	product := env.seedProduct(t, "Rice 5kg", "7.50", 30, true)

	updated, err := env.inventory.Adjust(ctx, product.ID, 0, strPtr("stock count confirmed"))
	require.NoError(t, err)
	assert.Equal(t, 30, updated.StockQuantity)

	movements, err := env.inventory.GetMovements(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, 0, movements[0].Quantity)
}

func TestAdjust_ProductNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.inventory.Adjust(context.Background(), uuid.New(), 5, nil)
	require.ErrorIs(t, err, model.ErrNotFound)
	assert.Zero(t, env.countRows(t, &model.StockMovement{}))
}

func TestRestock_RecordsInMovement(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	product := env.seedProduct(t, "Pasta 500g", "1.40", 10, true)

	updated, err := env.inventory.Restock(ctx, product.ID, 40, strPtr("supplier order #88"))
	require.NoError(t, err)
	assert.Equal(t, 50, updated.StockQuantity)

	movements, err := env.inventory.GetMovements(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, model.MovementIn, movements[0].MovementType)
	assert.Equal(t, model.RefRestock, movements[0].ReferenceType)
	assert.Equal(t, 40, movements[0].Quantity)
}

func TestRestock_RejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv(t, nil)
	product := env.seedProduct(t, "Honey", "5.60", 10, true)

	_, err := env.inventory.Restock(context.Background(), product.ID, 0, nil)
	require.Error(t, err)
	assert.Equal(t, 10, env.reloadProduct(t, product.ID).StockQuantity)
}

func TestLedger_ReconcilesAcrossAdjustmentsAndSales(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	product := env.seedProduct(t, "Cereal", "4.20", 40, true)

	_, err := env.inventory.Adjust(ctx, product.ID, 10, nil)
	require.NoError(t, err)
	_, err = env.inventory.Adjust(ctx, product.ID, -3, nil)
	require.NoError(t, err)
	_, err = env.inventory.Restock(ctx, product.ID, 12, nil)
	require.NoError(t, err)

	current := env.reloadProduct(t, product.ID).StockQuantity
	assert.Equal(t, current, 40+env.ledgerSum(t, product.ID))
	assert.Equal(t, 59, current)
}

func TestGetMovements_UnknownProduct(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.inventory.GetMovements(context.Background(), uuid.New())
	require.ErrorIs(t, err, model.ErrNotFound)
}
