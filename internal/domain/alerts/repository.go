package alerts

import (
	"context"

	"fieldstock/internal/core/id"
)

// ListFilter narrows alert listings.
type ListFilter struct {
	ItemID     *id.ID
	OnlyActive bool
	Limit      int
	Offset     int
}

// Repository persists alerts. At most one active alert exists per item:
// level changes update it in place, recovery resolves it.
type Repository interface {
	Create(ctx context.Context, a *Alert) error
	Update(ctx context.Context, a *Alert) error
	ActiveByItem(ctx context.Context, companyID, itemID id.ID) (*Alert, error)
	List(ctx context.Context, companyID id.ID, filter ListFilter) ([]Alert, error)
}
