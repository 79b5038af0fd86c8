package entity

import (
	"context"
	"time"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
)

// MovementType defines the kind of stock movement.
type MovementType string

const (
	// MovementPurchase is inbound stock from a purchase receipt.
	MovementPurchase MovementType = "PURCHASE"
	// MovementUsage is outbound stock consumed on a job (also the outgoing
	// leg of a transfer).
	MovementUsage MovementType = "USAGE"
	// MovementReturn is inbound stock returned from a job (also the incoming
	// leg of a transfer).
	MovementReturn MovementType = "RETURN"
	// MovementAdjustment is a manual correction carrying an explicit signed
	// quantity.
	MovementAdjustment MovementType = "ADJUSTMENT"
	// MovementAllocation reserves quantity for a work order. It is not a
	// physical movement and never counts toward on-hand.
	MovementAllocation MovementType = "ALLOCATION"
)

// ValidMovementType reports whether t is a known movement type.
func ValidMovementType(t MovementType) bool {
	switch t {
	case MovementPurchase, MovementUsage, MovementReturn, MovementAdjustment, MovementAllocation:
		return true
	}
	return false
}

// Movement is an immutable event in the stock ledger. Movements are created
// once and never updated; deletion happens only during an explicit
// force-delete of the owning item. The ledger is the sole source of truth
// for quantities: on-hand is always a fold over movements, never a counter.
type Movement struct {
	// ID is the primary key (UUIDv7, time-ordered)
	ID id.ID `db:"id" json:"id"`

	CompanyID  id.ID `db:"company_id" json:"companyId"`
	ItemID     id.ID `db:"item_id" json:"itemId"`
	LocationID id.ID `db:"location_id" json:"locationId"`

	Type MovementType `db:"movement_type" json:"movementType"`

	// Quantity follows a type-dependent sign convention: PURCHASE, USAGE and
	// RETURN carry a positive magnitude (direction implied by type),
	// ADJUSTMENT carries an explicit signed value, ALLOCATION is positive to
	// reserve and negative to release.
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitCost is the optional per-unit cost at the time of the movement.
	UnitCost *types.Money `db:"unit_cost" json:"unitCost,omitempty"`

	// Note is free text; transfer legs share a note identifying them as one
	// logical transfer.
	Note *string `db:"note" json:"note,omitempty"`

	// WorkOrderID references the work order that triggered the movement.
	WorkOrderID *id.ID `db:"work_order_id" json:"workOrderId,omitempty"`

	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a new movement with generated ID and timestamp.
func NewMovement(companyID, itemID, locationID id.ID, mType MovementType, qty types.Quantity) Movement {
	return Movement{
		ID:         id.New(),
		CompanyID:  companyID,
		ItemID:     itemID,
		LocationID: locationID,
		Type:       mType,
		Quantity:   qty,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate implements Validatable.
func (m *Movement) Validate(ctx context.Context) error {
	if id.IsNil(m.CompanyID) {
		return apperror.NewValidation("company_id is required").WithDetail("field", "company_id")
	}
	if id.IsNil(m.ItemID) {
		return apperror.NewValidation("item_id is required").WithDetail("field", "item_id")
	}
	if id.IsNil(m.LocationID) {
		return apperror.NewValidation("location_id is required").WithDetail("field", "location_id")
	}
	if !ValidMovementType(m.Type) {
		return apperror.NewValidation("invalid movement type").
			WithDetail("field", "movement_type").
			WithDetail("value", string(m.Type))
	}

	switch m.Type {
	case MovementPurchase, MovementUsage, MovementReturn:
		if !m.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "quantity").
				WithDetail("movement_type", string(m.Type))
		}
	case MovementAdjustment, MovementAllocation:
		if m.Quantity.IsZero() {
			return apperror.NewValidation("quantity must be non-zero").
				WithDetail("field", "quantity").
				WithDetail("movement_type", string(m.Type))
		}
	}

	return nil
}

// CountsTowardOnHand reports whether the movement affects physical stock.
// Allocations reserve quantity but do not move it.
func (m *Movement) CountsTowardOnHand() bool {
	return m.Type != MovementAllocation
}

// SignedQuantity returns the movement's contribution to on-hand:
// PURCHASE/RETURN add, USAGE subtracts, ADJUSTMENT is already signed,
// ALLOCATION contributes nothing.
func (m *Movement) SignedQuantity() types.Quantity {
	switch m.Type {
	case MovementPurchase, MovementReturn:
		return m.Quantity
	case MovementUsage:
		return m.Quantity.Neg()
	case MovementAdjustment:
		return m.Quantity
	default:
		return 0
	}
}

// FoldOnHand computes on-hand quantity by summing signed quantities over a
// movement sequence. This is the canonical derivation: any cached stock
// record must always equal this fold for the same (item, location).
func FoldOnHand(movements []Movement) types.Quantity {
	var total types.Quantity
	for i := range movements {
		total += movements[i].SignedQuantity()
	}
	return total
}

// StockRecord is the derived on-hand quantity for an (item, location) pair.
// It is a read-model, not a primary entity: it must always be reproducible
// by replaying the ledger for that pair.
type StockRecord struct {
	CompanyID  id.ID `db:"company_id" json:"companyId"`
	ItemID     id.ID `db:"item_id" json:"itemId"`
	LocationID id.ID `db:"location_id" json:"locationId"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
