// Package stock derives on-hand, reserved and available quantities from the
// movement ledger and classifies stock levels.
package stock

import (
	"fieldstock/internal/core/types"
)

// Status is the tri-state stock level classification.
type Status string

const (
	StatusOutOfStock Status = "OUT_OF_STOCK"
	StatusLowStock   Status = "LOW_STOCK"
	StatusInStock    Status = "IN_STOCK"
)

// DefaultReorderPoint is used when an item has no reorder point set.
var DefaultReorderPoint = types.NewQuantityFromInt(5)

// Classify maps an available quantity and reorder point to a Status.
// It is a pure function and the single canonical classification rule:
// every caller (listings, alerts, per-location detail) must use it so
// thresholds never diverge.
//
//	available == 0              -> OUT_OF_STOCK
//	0 < available <= reorder    -> LOW_STOCK
//	available > reorder         -> IN_STOCK
func Classify(available, reorderPoint types.Quantity) Status {
	available = available.FloorZero()
	if reorderPoint <= 0 {
		reorderPoint = DefaultReorderPoint
	}

	switch {
	case available.IsZero():
		return StatusOutOfStock
	case available <= reorderPoint:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// EffectiveReorderPoint resolves an item's optional reorder point to the
// value Classify will use.
func EffectiveReorderPoint(rp *types.Quantity) types.Quantity {
	if rp == nil || *rp <= 0 {
		return DefaultReorderPoint
	}
	return *rp
}

// Available computes available quantity: on-hand minus reserved, floored at
// zero. Reserved can exceed on-hand (over-allocation); availability still
// never reports negative.
func Available(onHand, reserved types.Quantity) types.Quantity {
	return (onHand - reserved).FloorZero()
}
