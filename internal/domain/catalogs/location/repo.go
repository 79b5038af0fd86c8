package location

import (
	"context"

	"fieldstock/internal/core/id"
)

// Repository defines the interface for Location persistence.
type Repository interface {
	Create(ctx context.Context, loc *Location) error

	GetByID(ctx context.Context, companyID, locationID id.ID) (*Location, error)

	// Update modifies an existing location with optimistic locking.
	Update(ctx context.Context, loc *Location) error

	Delete(ctx context.Context, companyID, locationID id.ID) error

	// List returns locations ordered default-first, then by name.
	List(ctx context.Context, companyID id.ID) ([]*Location, error)

	Exists(ctx context.Context, companyID, locationID id.ID) (bool, error)

	// ClearDefault clears the default flag on all of the company's locations
	// (before setting a new default).
	ClearDefault(ctx context.Context, companyID id.ID) error
}
