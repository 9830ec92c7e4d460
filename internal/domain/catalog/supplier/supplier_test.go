package supplier_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktally/internal/core/apperror"
	"stocktally/internal/domain/catalog/product"
	"stocktally/internal/domain/catalog/supplier"
	"stocktally/internal/infrastructure/storage/memory"
)

func TestSupplierCRUD(t *testing.T) {
	store := memory.NewStore()
	svc := supplier.NewService(store.Suppliers(), store)
	ctx := context.Background()

	s := supplier.New("Northline Wholesale")
	s.Email = "orders@northline.example"
	require.NoError(t, svc.Create(ctx, s))

	err := svc.Create(ctx, supplier.New("Northline Wholesale"))
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))

	got, err := svc.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "orders@northline.example", got.Email)

	got.Phone = "+1 555 0101"
	require.NoError(t, svc.Update(ctx, got))

	suppliers, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "+1 555 0101", suppliers[0].Phone)
}

func TestSupplierDelete_ClearsProductReference(t *testing.T) {
	store := memory.NewStore()
	svc := supplier.NewService(store.Suppliers(), store)
	ctx := context.Background()

	s := supplier.New("Short Run Imports")
	require.NoError(t, svc.Create(ctx, s))

	p := product.New("SKU-1", "Imported Tin")
	p.SupplierID = &s.ID
	require.NoError(t, store.Products().Create(ctx, p))

	require.NoError(t, svc.Delete(ctx, s.ID))

	got, err := store.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SupplierID)
}
