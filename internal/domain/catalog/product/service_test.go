package product_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
	"stocktally/internal/domain/catalog/product"
	"stocktally/internal/domain/stock"
	"stocktally/internal/infrastructure/storage/memory"
)

func newService(t *testing.T) (*product.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return product.NewService(store.Products(), store.Movements(), store), store
}

func TestCreate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p := product.New("SKU-1", "Widget")
	p.SellPrice = decimal.RequireFromString("4.20")
	require.NoError(t, svc.Create(ctx, p))

	got, err := svc.GetBySKU(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, int64(0), got.CurrentStock)
}

func TestCreate_DuplicateSKU(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, product.New("SKU-1", "Widget")))

	err := svc.Create(ctx, product.New("SKU-1", "Other widget"))
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(p *product.Product)
	}{
		{"empty sku", func(p *product.Product) { p.SKU = "" }},
		{"empty name", func(p *product.Product) { p.Name = "" }},
		{"negative buy price", func(p *product.Product) { p.BuyPrice = decimal.RequireFromString("-1") }},
		{"negative sell price", func(p *product.Product) { p.SellPrice = decimal.RequireFromString("-1") }},
		{"negative threshold", func(p *product.Product) { p.LowStockThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := product.New("SKU-V", "Widget")
			tt.mutate(p)
			err := svc.Create(ctx, p)
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
		})
	}
}

func TestUpdate_DoesNotTouchStock(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	p := product.New("SKU-1", "Widget")
	require.NoError(t, svc.Create(ctx, p))

	stockSvc := stock.NewService(store.Products(), store.Movements(), store)
	_, err := stockSvc.AddStock(ctx, stock.AddStockInput{ProductID: p.ID, Quantity: 9})
	require.NoError(t, err)

	p.Name = "Renamed Widget"
	p.CurrentStock = 999 // must be ignored by the catalog path
	require.NoError(t, svc.Update(ctx, p))

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Widget", got.Name)
	assert.Equal(t, int64(9), got.CurrentStock)
}

func TestDelete(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	t.Run("without history", func(t *testing.T) {
		p := product.New("SKU-GONE", "Short lived")
		require.NoError(t, svc.Create(ctx, p))
		require.NoError(t, svc.Delete(ctx, p.ID))

		_, err := svc.GetByID(ctx, p.ID)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("restricted with history", func(t *testing.T) {
		p := product.New("SKU-KEEP", "Has movements")
		require.NoError(t, svc.Create(ctx, p))

		stockSvc := stock.NewService(store.Products(), store.Movements(), store)
		_, err := stockSvc.AddStock(ctx, stock.AddStockInput{ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)

		err = svc.Delete(ctx, p.ID)
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeConflict))

		// Still there.
		_, err = svc.GetByID(ctx, p.ID)
		require.NoError(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := svc.Delete(ctx, id.New())
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestList(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	low := product.New("SKU-LOW", "Nearly out")
	low.LowStockThreshold = 10
	require.NoError(t, svc.Create(ctx, low))

	ok := product.New("SKU-OK", "Plenty left")
	ok.LowStockThreshold = 2
	require.NoError(t, svc.Create(ctx, ok))

	stockSvc := stock.NewService(store.Products(), store.Movements(), store)
	_, err := stockSvc.AddStock(ctx, stock.AddStockInput{ProductID: low.ID, Quantity: 5})
	require.NoError(t, err)
	_, err = stockSvc.AddStock(ctx, stock.AddStockInput{ProductID: ok.ID, Quantity: 50})
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		products, err := svc.List(ctx, product.ListFilter{})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("search by name", func(t *testing.T) {
		products, err := svc.List(ctx, product.ListFilter{Search: "nearly"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, low.ID, products[0].ID)
	})

	t.Run("search by sku", func(t *testing.T) {
		products, err := svc.List(ctx, product.ListFilter{Search: "sku-ok"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, ok.ID, products[0].ID)
	})

	t.Run("low stock only", func(t *testing.T) {
		products, err := svc.LowStock(ctx)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, low.ID, products[0].ID)
	})
}

func TestIsLowStock(t *testing.T) {
	p := product.New("SKU-1", "Widget")
	p.LowStockThreshold = 5

	p.CurrentStock = 6
	assert.False(t, p.IsLowStock())
	p.CurrentStock = 5 // at threshold counts as low
	assert.True(t, p.IsLowStock())
	p.CurrentStock = 0
	assert.True(t, p.IsLowStock())
}

func TestUnitMargin(t *testing.T) {
	p := product.New("SKU-1", "Widget")
	p.BuyPrice = decimal.RequireFromString("1.25")
	p.SellPrice = decimal.RequireFromString("2.50")
	assert.True(t, p.UnitMargin().Equal(decimal.RequireFromString("1.25")))
}
