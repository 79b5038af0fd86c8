package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fieldstock/internal/core/types"
)

func TestClassify(t *testing.T) {
	rp := types.NewQuantityFromInt(5)

	tests := []struct {
		name      string
		available types.Quantity
		reorder   types.Quantity
		want      Status
	}{
		{"zero is out of stock", types.NewQuantityFromInt(0), rp, StatusOutOfStock},
		{"below reorder is low", types.NewQuantityFromInt(3), rp, StatusLowStock},
		{"exactly at reorder is low", types.NewQuantityFromInt(5), rp, StatusLowStock},
		{"just above reorder is in stock", types.NewQuantityFromInt(6), rp, StatusInStock},
		{"well above reorder is in stock", types.NewQuantityFromInt(100), rp, StatusInStock},
		{"negative clamps to out of stock", types.NewQuantityFromInt(-2), rp, StatusOutOfStock},
		{"zero reorder uses default", types.NewQuantityFromInt(5), 0, StatusLowStock},
		{"fractional below reorder is low", types.NewQuantityFromFloat64(4.5), rp, StatusLowStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.available, tt.reorder))
		})
	}
}

// Classification must be a pure threshold function: the same inputs always
// produce the same status, and raising availability never lowers status.
func TestClassifyMonotonic(t *testing.T) {
	rp := types.NewQuantityFromInt(5)

	rank := map[Status]int{
		StatusOutOfStock: 0,
		StatusLowStock:   1,
		StatusInStock:    2,
	}

	prev := Classify(types.NewQuantityFromInt(0), rp)
	for units := int64(1); units <= 20; units++ {
		cur := Classify(types.NewQuantityFromInt(units), rp)
		assert.GreaterOrEqual(t, rank[cur], rank[prev], "status regressed at %d units", units)
		prev = cur
	}
}

func TestEffectiveReorderPoint(t *testing.T) {
	assert.Equal(t, DefaultReorderPoint, EffectiveReorderPoint(nil))

	zero := types.NewQuantityFromInt(0)
	assert.Equal(t, DefaultReorderPoint, EffectiveReorderPoint(&zero))

	ten := types.NewQuantityFromInt(10)
	assert.Equal(t, ten, EffectiveReorderPoint(&ten))
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, types.NewQuantityFromInt(5),
		Available(types.NewQuantityFromInt(100), types.NewQuantityFromInt(95)))

	// Over-allocation floors at zero, never negative.
	assert.Equal(t, types.NewQuantityFromInt(0),
		Available(types.NewQuantityFromInt(3), types.NewQuantityFromInt(10)))

	assert.Equal(t, types.NewQuantityFromInt(7),
		Available(types.NewQuantityFromInt(7), types.NewQuantityFromInt(0)))
}
