// Package ledger provides the append-only stock movement ledger.
package ledger

import (
	"context"
	"time"

	"fieldstock/internal/core/entity"
	"fieldstock/internal/core/id"
)

// MovementFilter narrows movement history queries.
type MovementFilter struct {
	ItemID     *id.ID
	LocationID *id.ID
	Type       *entity.MovementType
	FromDate   *time.Time
	ToDate     *time.Time

	Limit  int
	Offset int
}

// Repository defines the interface for movement persistence. The movement
// log is append-only: there is no update, and delete exists only for the
// force-delete cascade.
type Repository interface {
	// Append inserts exactly one immutable movement row.
	Append(ctx context.Context, m *entity.Movement) error

	// List returns movements ordered by creation time descending.
	List(ctx context.Context, companyID id.ID, filter MovementFilter) ([]entity.Movement, error)

	// ListByItemLocation returns all movements for one (item, location)
	// pair ordered by creation time ascending, for ledger replay.
	ListByItemLocation(ctx context.Context, companyID, itemID, locationID id.ID) ([]entity.Movement, error)

	// ListAllocations returns all ALLOCATION movements for a company
	// (reserve and release rows).
	ListAllocations(ctx context.Context, companyID id.ID) ([]entity.Movement, error)

	// HasItemReferences reports whether any movement references the item.
	HasItemReferences(ctx context.Context, companyID, itemID id.ID) (bool, error)

	// DeleteItemReferences removes all of the item's movements. Only
	// called from the force-delete cascade.
	DeleteItemReferences(ctx context.Context, companyID, itemID id.ID) error
}
