package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stocktally/internal/core/id"
)

func mv(t MovementType, qty int64) Movement {
	return Movement{ID: id.New(), ProductID: id.New(), Type: t, Quantity: qty}
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, Summary{}, Summarize([]Movement{}))
}

func TestSummarize_AllTypes(t *testing.T) {
	movements := []Movement{
		mv(TypeIn, 10),
		mv(TypeOut, 3),
		mv(TypeAdjustment, -2),
		mv(TypeSale, 4),
	}

	s := Summarize(movements)

	assert.Equal(t, 1, s.CountIn)
	assert.Equal(t, 1, s.CountOut)
	assert.Equal(t, 1, s.CountAdjustments)
	assert.Equal(t, 1, s.CountSales)

	assert.Equal(t, int64(10), s.TotalIn)
	assert.Equal(t, int64(3), s.TotalOut)
	assert.Equal(t, int64(-2), s.TotalAdjustments)
	assert.Equal(t, int64(4), s.TotalSales)

	// 10 - 3 + (-2) - 4
	assert.Equal(t, int64(1), s.NetChange)
}

func TestSummarize_AdjustmentSignPreserved(t *testing.T) {
	s := Summarize([]Movement{
		mv(TypeAdjustment, 5),
		mv(TypeAdjustment, -8),
	})

	assert.Equal(t, 2, s.CountAdjustments)
	assert.Equal(t, int64(-3), s.TotalAdjustments)
	assert.Equal(t, int64(-3), s.NetChange)
}

func TestSummarize_OutAndSaleAbsolute(t *testing.T) {
	// OUT and SALE quantities are recorded absolute; the summary
	// subtracts them rather than trusting a sign.
	s := Summarize([]Movement{
		mv(TypeIn, 20),
		mv(TypeOut, 5),
		mv(TypeOut, 5),
		mv(TypeSale, 7),
	})

	assert.Equal(t, int64(10), s.TotalOut)
	assert.Equal(t, int64(7), s.TotalSales)
	assert.Equal(t, int64(3), s.NetChange)
}

func TestSignedQuantity(t *testing.T) {
	tests := []struct {
		name string
		m    Movement
		want int64
	}{
		{"in", mv(TypeIn, 10), 10},
		{"out", mv(TypeOut, 3), -3},
		{"sale", mv(TypeSale, 4), -4},
		{"adjustment positive", mv(TypeAdjustment, 2), 2},
		{"adjustment negative", mv(TypeAdjustment, -2), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.SignedQuantity())
		})
	}
}

func TestMovementTypeValid(t *testing.T) {
	for _, valid := range []MovementType{TypeIn, TypeOut, TypeAdjustment, TypeSale} {
		assert.True(t, valid.Valid())
	}
	assert.False(t, MovementType("").Valid())
	assert.False(t, MovementType("RETURN").Valid())
}
