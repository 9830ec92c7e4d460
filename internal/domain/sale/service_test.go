package sale_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
	"stocktally/internal/domain/catalog/product"
	"stocktally/internal/domain/ledger"
	"stocktally/internal/domain/sale"
	"stocktally/internal/domain/stock"
	"stocktally/internal/infrastructure/storage/memory"
	"stocktally/pkg/numerator"
)

type fixture struct {
	store *memory.Store
	stock *stock.Service
	sales *sale.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	stockSvc := stock.NewService(store.Products(), store.Movements(), store)
	saleSvc := sale.NewService(store.Sales(), store.Products(), stockSvc, numerator.NewMemory(), store)

	return &fixture{store: store, stock: stockSvc, sales: saleSvc}
}

func (f *fixture) product(t *testing.T, sku string, opening int64, sellPrice, buyPrice string) *product.Product {
	t.Helper()
	ctx := context.Background()

	p := product.New(sku, "Product "+sku)
	p.SellPrice = decimal.RequireFromString(sellPrice)
	p.BuyPrice = decimal.RequireFromString(buyPrice)
	require.NoError(t, f.store.Products().Create(ctx, p))

	if opening > 0 {
		_, err := f.stock.AddStock(ctx, stock.AddStockInput{ProductID: p.ID, Quantity: opening})
		require.NoError(t, err)
	}
	return p
}

func (f *fixture) stockOf(t *testing.T, p *product.Product) int64 {
	t.Helper()
	got, err := f.store.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	return got.CurrentStock
}

func line(p *product.Product, qty int64) sale.CartItem {
	return sale.CartItem{
		ProductID: p.ID,
		Quantity:  qty,
		UnitPrice: p.SellPrice,
		UnitCost:  p.BuyPrice,
	}
}

func TestSettle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.product(t, "SKU-1", 20, "9.99", "5.00")

	// Remove some stock first so the sale starts from a known level.
	_, err := f.stock.RemoveStock(ctx, stock.RemoveStockInput{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, int64(15), f.stockOf(t, p))

	committed, err := f.sales.Settle(ctx, []sale.CartItem{line(p, 3)}, "walk-in")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(committed.Number, "POS-"))
	assert.True(t, committed.TotalAmount.Equal(decimal.RequireFromString("29.97")))
	assert.True(t, committed.TotalCost.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, committed.TotalProfit.Equal(decimal.RequireFromString("14.97")))
	assert.Equal(t, int64(3), committed.ItemCount)
	assert.Equal(t, "walk-in", committed.Notes)
	require.Len(t, committed.Items, 1)
	assert.Equal(t, "Product SKU-1", committed.Items[0].ProductName)

	// Stock dropped and a SALE movement referencing the number exists.
	assert.Equal(t, int64(12), f.stockOf(t, p))

	movements, err := f.store.Movements().List(ctx, ledger.ByType(ledger.TypeSale))
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, committed.Number, movements[0].Reference)
	assert.Equal(t, int64(3), movements[0].Quantity)
	assert.Equal(t, int64(15), movements[0].PreviousStock)
	assert.Equal(t, int64(12), movements[0].NewStock)
}

func TestSettle_EmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.sales.Settle(context.Background(), nil, "")
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeEmptyCart))
}

func TestSettle_InvalidLine(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "SKU-1", 10, "2.00", "1.00")

	tests := []struct {
		name string
		item sale.CartItem
		code string
	}{
		{"zero quantity", sale.CartItem{ProductID: p.ID, Quantity: 0, UnitPrice: p.SellPrice}, apperror.CodeInvalidQuantity},
		{"negative quantity", sale.CartItem{ProductID: p.ID, Quantity: -1, UnitPrice: p.SellPrice}, apperror.CodeInvalidQuantity},
		{"missing product", sale.CartItem{Quantity: 1, UnitPrice: p.SellPrice}, apperror.CodeValidation},
		{"negative price", sale.CartItem{ProductID: p.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("-1")}, apperror.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.sales.Settle(context.Background(), []sale.CartItem{tt.item}, "")
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, tt.code))
		})
	}

	// No partial state leaked from the failures.
	assert.Equal(t, int64(10), f.stockOf(t, p))
}

func TestSettle_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "SKU-1", 2, "3.00", "1.00")

	_, err := f.sales.Settle(ctx, []sale.CartItem{line(p, 5)}, "")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Nothing persisted: no sale, no movement, stock intact.
	assert.Equal(t, int64(2), f.stockOf(t, p))
	sales, err := f.sales.List(ctx, sale.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, sales)
	movements, err := f.store.Movements().List(ctx, ledger.ByType(ledger.TypeSale))
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestSettle_CombinedQuantityExceedsStock(t *testing.T) {
	// Two lines for the same product, each within stock, jointly over.
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "SKU-1", 5, "3.00", "1.00")

	_, err := f.sales.Settle(ctx, []sale.CartItem{line(p, 3), line(p, 3)}, "")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, int64(6), appErr.Details["requested"])
	assert.Equal(t, int64(5), appErr.Details["available"])

	assert.Equal(t, int64(5), f.stockOf(t, p))
}

func TestSettle_MultiLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.product(t, "SKU-A", 10, "2.50", "1.00")
	b := f.product(t, "SKU-B", 4, "10.00", "6.50")

	committed, err := f.sales.Settle(ctx, []sale.CartItem{line(a, 4), line(b, 2)}, "")
	require.NoError(t, err)

	// 4*2.50 + 2*10.00 = 30.00; cost 4*1.00 + 2*6.50 = 17.00
	assert.True(t, committed.TotalAmount.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, committed.TotalCost.Equal(decimal.RequireFromString("17.00")))
	assert.True(t, committed.TotalProfit.Equal(decimal.RequireFromString("13.00")))
	assert.Equal(t, int64(6), committed.ItemCount)
	require.Len(t, committed.Items, 2)

	assert.Equal(t, int64(6), f.stockOf(t, a))
	assert.Equal(t, int64(2), f.stockOf(t, b))

	// One SALE movement per line, all referencing the same number.
	movements, err := f.store.Movements().List(ctx, ledger.ByType(ledger.TypeSale))
	require.NoError(t, err)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, committed.Number, m.Reference)
	}
}

func TestSettle_SameProductTwiceWithinStock(t *testing.T) {
	// Duplicate lines stay independent when stock covers the sum.
	f := newFixture(t)
	p := f.product(t, "SKU-1", 10, "1.00", "0.50")

	committed, err := f.sales.Settle(context.Background(), []sale.CartItem{line(p, 2), line(p, 3)}, "")
	require.NoError(t, err)

	require.Len(t, committed.Items, 2)
	assert.Equal(t, int64(5), committed.ItemCount)
	assert.Equal(t, int64(5), f.stockOf(t, p))
}

func TestSettle_NumbersAreSequential(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "SKU-1", 10, "1.00", "0.50")
	ctx := context.Background()

	first, err := f.sales.Settle(ctx, []sale.CartItem{line(p, 1)}, "")
	require.NoError(t, err)
	second, err := f.sales.Settle(ctx, []sale.CartItem{line(p, 1)}, "")
	require.NoError(t, err)

	assert.NotEqual(t, first.Number, second.Number)
	assert.True(t, strings.HasSuffix(first.Number, "-0001"))
	assert.True(t, strings.HasSuffix(second.Number, "-0002"))
}

func TestGetByIDAndNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "SKU-1", 10, "1.50", "0.75")

	committed, err := f.sales.Settle(ctx, []sale.CartItem{line(p, 2)}, "")
	require.NoError(t, err)

	byID, err := f.sales.GetByID(ctx, committed.ID)
	require.NoError(t, err)
	assert.Equal(t, committed.Number, byID.Number)
	require.Len(t, byID.Items, 1)
	assert.Equal(t, p.ID, byID.Items[0].ProductID)

	byNumber, err := f.sales.GetByNumber(ctx, committed.Number)
	require.NoError(t, err)
	assert.Equal(t, committed.ID, byNumber.ID)

	_, err = f.sales.GetByID(ctx, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_DoesNotRestoreStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "SKU-1", 10, "1.00", "0.50")

	committed, err := f.sales.Settle(ctx, []sale.CartItem{line(p, 4)}, "")
	require.NoError(t, err)
	require.Equal(t, int64(6), f.stockOf(t, p))

	require.NoError(t, f.sales.Delete(ctx, committed.ID))

	// Sale and its lines are gone.
	_, err = f.sales.GetByID(ctx, committed.ID)
	assert.True(t, apperror.IsNotFound(err))
	items, err := f.store.Sales().GetItems(ctx, committed.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// The ledger and the balance keep the sale's effect.
	assert.Equal(t, int64(6), f.stockOf(t, p))
	movements, err := f.store.Movements().List(ctx, ledger.ByType(ledger.TypeSale))
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestCartItemHelpers(t *testing.T) {
	c := sale.CartItem{
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("9.99"),
		UnitCost:  decimal.RequireFromString("5.00"),
	}

	assert.True(t, c.Subtotal().Equal(decimal.RequireFromString("29.97")))
	assert.True(t, c.Profit().Equal(decimal.RequireFromString("14.97")))
}
