package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
)

func validMovement(mType MovementType, qty types.Quantity) Movement {
	return NewMovement(id.New(), id.New(), id.New(), mType, qty)
}

func TestMovementValidate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mType   MovementType
		qty     types.Quantity
		wantErr bool
	}{
		{"purchase positive", MovementPurchase, types.NewQuantityFromInt(10), false},
		{"purchase zero", MovementPurchase, 0, true},
		{"purchase negative", MovementPurchase, types.NewQuantityFromInt(-10), true},
		{"usage positive", MovementUsage, types.NewQuantityFromInt(3), false},
		{"usage negative", MovementUsage, types.NewQuantityFromInt(-3), true},
		{"return positive", MovementReturn, types.NewQuantityFromInt(1), false},
		{"return zero", MovementReturn, 0, true},
		{"adjustment positive", MovementAdjustment, types.NewQuantityFromInt(7), false},
		{"adjustment negative", MovementAdjustment, types.NewQuantityFromInt(-7), false},
		{"adjustment zero", MovementAdjustment, 0, true},
		{"allocation reserve", MovementAllocation, types.NewQuantityFromInt(5), false},
		{"allocation release", MovementAllocation, types.NewQuantityFromInt(-5), false},
		{"allocation zero", MovementAllocation, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMovement(tt.mType, tt.qty)
			err := m.Validate(ctx)
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMovementValidateRequiredIDs(t *testing.T) {
	ctx := context.Background()

	m := validMovement(MovementPurchase, types.NewQuantityFromInt(1))
	m.CompanyID = id.Nil()
	assert.Error(t, m.Validate(ctx))

	m = validMovement(MovementPurchase, types.NewQuantityFromInt(1))
	m.ItemID = id.Nil()
	assert.Error(t, m.Validate(ctx))

	m = validMovement(MovementPurchase, types.NewQuantityFromInt(1))
	m.LocationID = id.Nil()
	assert.Error(t, m.Validate(ctx))

	m = validMovement(MovementType("SHIPMENT"), types.NewQuantityFromInt(1))
	assert.Error(t, m.Validate(ctx))
}

func TestSignedQuantity(t *testing.T) {
	qty := types.NewQuantityFromInt(10)

	purchase := validMovement(MovementPurchase, qty)
	assert.Equal(t, qty, purchase.SignedQuantity())

	ret := validMovement(MovementReturn, qty)
	assert.Equal(t, qty, ret.SignedQuantity())

	usage := validMovement(MovementUsage, qty)
	assert.Equal(t, qty.Neg(), usage.SignedQuantity())

	writeOff := validMovement(MovementAdjustment, types.NewQuantityFromInt(-4))
	assert.Equal(t, types.NewQuantityFromInt(-4), writeOff.SignedQuantity())

	// Allocations reserve, they never move stock.
	alloc := validMovement(MovementAllocation, qty)
	assert.Equal(t, types.Quantity(0), alloc.SignedQuantity())
	assert.False(t, alloc.CountsTowardOnHand())
	assert.True(t, purchase.CountsTowardOnHand())
}

func TestFoldOnHand(t *testing.T) {
	companyID := id.New()
	itemID := id.New()
	locationID := id.New()

	mk := func(mType MovementType, units int64) Movement {
		return NewMovement(companyID, itemID, locationID, mType, types.NewQuantityFromInt(units))
	}

	movements := []Movement{
		mk(MovementPurchase, 100),
		mk(MovementUsage, 30),
		mk(MovementReturn, 5),
		mk(MovementAdjustment, -2),
		mk(MovementAllocation, 50), // reservation, no effect on on-hand
	}

	assert.Equal(t, types.NewQuantityFromInt(73), FoldOnHand(movements))
	assert.Equal(t, types.Quantity(0), FoldOnHand(nil))
}

func TestValidMovementType(t *testing.T) {
	for _, mt := range []MovementType{MovementPurchase, MovementUsage, MovementReturn, MovementAdjustment, MovementAllocation} {
		assert.True(t, ValidMovementType(mt))
	}
	assert.False(t, ValidMovementType(MovementType("")))
	assert.False(t, ValidMovementType(MovementType("TRANSFER")))
}
