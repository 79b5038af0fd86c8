package item

import (
	"context"

	"fieldstock/internal/core/id"
)

// ListFilter contains filtering options for item listings.
type ListFilter struct {
	// Search matches name, SKU or category (case-insensitive substring)
	Search string

	// Category filters by exact category
	Category string

	Limit  int
	Offset int
}

// Repository defines the interface for Item persistence.
type Repository interface {
	Create(ctx context.Context, item *Item) error

	GetByID(ctx context.Context, companyID, itemID id.ID) (*Item, error)

	// Update modifies an existing item with optimistic locking.
	Update(ctx context.Context, item *Item) error

	// Delete removes the item row. Dependency checks happen in the service;
	// the repository performs the plain delete.
	Delete(ctx context.Context, companyID, itemID id.ID) error

	List(ctx context.Context, companyID id.ID, filter ListFilter) ([]*Item, error)

	Exists(ctx context.Context, companyID, itemID id.ID) (bool, error)

	// Categories returns distinct non-empty categories, sorted.
	Categories(ctx context.Context, companyID id.ID) ([]string, error)
}

// DependencyChecker reports references that block item deletion. Implemented
// by the ledger, stock and work-order repositories.
type DependencyChecker interface {
	HasItemReferences(ctx context.Context, companyID, itemID id.ID) (bool, error)
}

// DependencyPurger removes an item's references during force-delete.
type DependencyPurger interface {
	DeleteItemReferences(ctx context.Context, companyID, itemID id.ID) error
}

// DependencyDetailer lists the concrete references blocking a delete, for
// inclusion in conflict payloads. Implemented by the work-order repository.
type DependencyDetailer interface {
	ItemReferenceDetails(ctx context.Context, companyID, itemID id.ID) (any, error)
}
