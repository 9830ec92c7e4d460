package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
	"stocktally/internal/domain/catalog/product"
	"stocktally/internal/domain/ledger"
	"stocktally/internal/domain/stock"
	"stocktally/internal/infrastructure/storage/memory"
)

func newFixture(t *testing.T) (*stock.Service, *memory.Store, *product.Product) {
	t.Helper()

	store := memory.NewStore()
	svc := stock.NewService(store.Products(), store.Movements(), store)

	p := product.New("SKU-001", "Test Widget")
	require.NoError(t, store.Products().Create(context.Background(), p))

	return svc, store, p
}

func currentStock(t *testing.T, store *memory.Store, p *product.Product) int64 {
	t.Helper()
	got, err := store.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	return got.CurrentStock
}

func TestAddStock(t *testing.T) {
	svc, store, p := newFixture(t)
	ctx := context.Background()

	cost := decimal.RequireFromString("2.50")
	m, err := svc.AddStock(ctx, stock.AddStockInput{
		ProductID: p.ID,
		Quantity:  10,
		UnitCost:  &cost,
		Reference: "PO-17",
	})
	require.NoError(t, err)

	assert.Equal(t, ledger.TypeIn, m.Type)
	assert.Equal(t, int64(10), m.Quantity)
	assert.Equal(t, int64(0), m.PreviousStock)
	assert.Equal(t, int64(10), m.NewStock)
	assert.Equal(t, "PO-17", m.Reference)
	require.NotNil(t, m.UnitCost)
	assert.True(t, m.UnitCost.Equal(cost))

	assert.Equal(t, int64(10), currentStock(t, store, p))

	count, err := store.Movements().CountByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAddStock_InvalidQuantity(t *testing.T) {
	svc, store, p := newFixture(t)

	for _, qty := range []int64{0, -5} {
		_, err := svc.AddStock(context.Background(), stock.AddStockInput{
			ProductID: p.ID,
			Quantity:  qty,
		})
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))
	}

	// Nothing was persisted.
	assert.Equal(t, int64(0), currentStock(t, store, p))
	count, err := store.Movements().CountByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestAddStock_UnknownProduct(t *testing.T) {
	svc, _, _ := newFixture(t)

	_, err := svc.AddStock(context.Background(), stock.AddStockInput{
		ProductID: id.New(),
		Quantity:  1,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRemoveStock(t *testing.T) {
	svc, store, p := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddStock(ctx, stock.AddStockInput{ProductID: p.ID, Quantity: 10})
	require.NoError(t, err)

	m, err := svc.RemoveStock(ctx, stock.RemoveStockInput{
		ProductID: p.ID,
		Quantity:  4,
		Notes:     "damaged",
	})
	require.NoError(t, err)

	assert.Equal(t, ledger.TypeOut, m.Type)
	assert.Equal(t, int64(4), m.Quantity) // stored absolute
	assert.Equal(t, int64(-4), m.SignedQuantity())
	assert.Equal(t, int64(10), m.PreviousStock)
	assert.Equal(t, int64(6), m.NewStock)

	assert.Equal(t, int64(6), currentStock(t, store, p))
}

func TestRemoveStock_Insufficient(t *testing.T) {
	svc, store, p := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddStock(ctx, stock.AddStockInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = svc.RemoveStock(ctx, stock.RemoveStockInput{ProductID: p.ID, Quantity: 5})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// The failed removal left no trace.
	assert.Equal(t, int64(3), currentStock(t, store, p))
	count, err := store.Movements().CountByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRemoveStock_ExactDrain(t *testing.T) {
	svc, store, p := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddStock(ctx, stock.AddStockInput{ProductID: p.ID, Quantity: 7})
	require.NoError(t, err)

	m, err := svc.RemoveStock(ctx, stock.RemoveStockInput{ProductID: p.ID, Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(0), m.NewStock)
	assert.Equal(t, int64(0), currentStock(t, store, p))
}

func TestAdjustStock(t *testing.T) {
	svc, store, p := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddStock(ctx, stock.AddStockInput{ProductID: p.ID, Quantity: 10})
	require.NoError(t, err)

	t.Run("downward", func(t *testing.T) {
		m, err := svc.AdjustStock(ctx, stock.AdjustStockInput{
			ProductID: p.ID,
			NewLevel:  6,
			Notes:     "cycle count",
		})
		require.NoError(t, err)

		assert.Equal(t, ledger.TypeAdjustment, m.Type)
		assert.Equal(t, int64(-4), m.Quantity) // signed delta
		assert.Equal(t, int64(-4), m.SignedQuantity())
		assert.Equal(t, int64(10), m.PreviousStock)
		assert.Equal(t, int64(6), m.NewStock)
		assert.Equal(t, int64(6), currentStock(t, store, p))
	})

	t.Run("upward", func(t *testing.T) {
		m, err := svc.AdjustStock(ctx, stock.AdjustStockInput{ProductID: p.ID, NewLevel: 9})
		require.NoError(t, err)
		assert.Equal(t, int64(3), m.Quantity)
		assert.Equal(t, int64(9), currentStock(t, store, p))
	})

	t.Run("negative level rejected", func(t *testing.T) {
		_, err := svc.AdjustStock(ctx, stock.AdjustStockInput{ProductID: p.ID, NewLevel: -1})
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))
		assert.Equal(t, int64(9), currentStock(t, store, p))
	})
}

func TestRecordSaleMovement(t *testing.T) {
	svc, store, p := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddStock(ctx, stock.AddStockInput{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)

	m, err := svc.RecordSaleMovement(ctx, stock.SaleMovementInput{
		ProductID: p.ID,
		Quantity:  2,
		UnitCost:  decimal.RequireFromString("1.10"),
		Reference: "POS-20260829-0001",
	})
	require.NoError(t, err)

	assert.Equal(t, ledger.TypeSale, m.Type)
	assert.Equal(t, int64(2), m.Quantity)
	assert.Equal(t, "POS-20260829-0001", m.Reference)
	assert.Equal(t, int64(3), currentStock(t, store, p))
}

func TestMovementChain(t *testing.T) {
	// Every movement's PreviousStock must equal the prior movement's
	// NewStock: the ledger is a gapless audit chain.
	svc, store, p := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddStock(ctx, stock.AddStockInput{ProductID: p.ID, Quantity: 10})
	require.NoError(t, err)
	_, err = svc.RemoveStock(ctx, stock.RemoveStockInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = svc.AdjustStock(ctx, stock.AdjustStockInput{ProductID: p.ID, NewLevel: 5})
	require.NoError(t, err)
	_, err = svc.RecordSaleMovement(ctx, stock.SaleMovementInput{
		ProductID: p.ID, Quantity: 4, UnitCost: decimal.Zero,
	})
	require.NoError(t, err)

	movements, err := store.Movements().List(ctx, ledger.ByProduct(p.ID))
	require.NoError(t, err)
	require.Len(t, movements, 4)

	// Newest first; reverse to chronological for the chain check.
	for i := len(movements) - 1; i > 0; i-- {
		older, newer := movements[i], movements[i-1]
		assert.Equal(t, older.NewStock, newer.PreviousStock)
	}
	assert.Equal(t, movements[0].NewStock, currentStock(t, store, p))
	assert.Equal(t, int64(1), currentStock(t, store, p))
}
