package ledger_repo

import (
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldstock/internal/core/entity"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
)

func testBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func TestStockUpsertFoldsSignedQuantity(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name  string
		mType entity.MovementType
		qty   types.Quantity
		want  types.Quantity
	}{
		{"purchase adds", entity.MovementPurchase, types.NewQuantityFromInt(100), types.NewQuantityFromInt(100)},
		{"return adds", entity.MovementReturn, types.NewQuantityFromInt(5), types.NewQuantityFromInt(5)},
		{"usage subtracts", entity.MovementUsage, types.NewQuantityFromInt(30), types.NewQuantityFromInt(-30)},
		{"adjustment keeps sign", entity.MovementAdjustment, types.NewQuantityFromInt(-2), types.NewQuantityFromInt(-2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := entity.NewMovement(id.New(), id.New(), id.New(), tt.mType, tt.qty)

			sql, args, ok, err := stockUpsert(testBuilder(), &m, now)
			require.NoError(t, err)
			require.True(t, ok)

			assert.Contains(t, sql, "INSERT INTO inventory_stock")
			assert.Contains(t, sql, "ON CONFLICT (company_id, item_id, location_id)")
			assert.Contains(t, sql, "quantity = inventory_stock.quantity + EXCLUDED.quantity")

			require.Len(t, args, 5)
			assert.Equal(t, m.CompanyID, args[0])
			assert.Equal(t, m.ItemID, args[1])
			assert.Equal(t, m.LocationID, args[2])
			assert.Equal(t, tt.want, args[3])
		})
	}
}

func TestStockUpsertSkipsAllocations(t *testing.T) {
	now := time.Now().UTC()

	// Reservations and releases never touch physical stock.
	for _, qty := range []types.Quantity{types.NewQuantityFromInt(95), types.NewQuantityFromInt(-95)} {
		m := entity.NewMovement(id.New(), id.New(), id.New(), entity.MovementAllocation, qty)

		sql, args, ok, err := stockUpsert(testBuilder(), &m, now)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, sql)
		assert.Nil(t, args)
	}
}

func TestStockUpsertUsesDollarPlaceholders(t *testing.T) {
	m := entity.NewMovement(id.New(), id.New(), id.New(), entity.MovementPurchase, types.NewQuantityFromInt(1))

	sql, _, ok, err := stockUpsert(testBuilder(), &m, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.Contains(sql, "$5"))
	assert.False(t, strings.Contains(sql, "?"))
}
