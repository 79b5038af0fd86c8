package stock

import (
	"context"

	"fieldstock/internal/core/entity"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/catalogs/item"
	"fieldstock/internal/domain/catalogs/location"
)

// ReadModelRepository is the precomputed read path: database views that
// join items, stock rows and open allocations server-side.
type ReadModelRepository interface {
	// ProbeView runs a cheap limited query against the named view,
	// scoped to the company, returning an error when the view is
	// missing or broken.
	ProbeView(ctx context.Context, companyID id.ID, view string) error
	// ProbeTable reports whether the named base table answers queries
	// for the company.
	ProbeTable(ctx context.Context, companyID id.ID, table string) error

	ItemSummaries(ctx context.Context, companyID id.ID, filter SummaryFilter) ([]ItemSummary, error)
	LocationDetails(ctx context.Context, companyID, itemID id.ID) ([]LocationDetail, error)
}

// RecordSource reads the maintained per-item-per-location stock rows used
// by the fallback fold.
type RecordSource interface {
	StockRecords(ctx context.Context, companyID id.ID, itemID *id.ID) ([]entity.StockRecord, error)
}

// AllocationSource lists open ALLOCATION movements so reserved quantities
// can be summed client-side on the fallback path. Satisfied by the ledger
// repository.
type AllocationSource interface {
	ListAllocations(ctx context.Context, companyID id.ID) ([]entity.Movement, error)
}

// ItemSource supplies catalog rows for the fallback path. Satisfied by the
// item repository.
type ItemSource interface {
	GetByID(ctx context.Context, companyID, itemID id.ID) (*item.Item, error)
	List(ctx context.Context, companyID id.ID, filter item.ListFilter) ([]*item.Item, error)
}

// LocationSource supplies location names for per-location detail on the
// fallback path. Satisfied by the location repository.
type LocationSource interface {
	List(ctx context.Context, companyID id.ID) ([]*location.Location, error)
}

// LedgerReplayer folds the full movement history of one (item, location)
// pair. Diagnose uses it to verify the maintained stock rows against the
// ledger. Satisfied by the ledger service.
type LedgerReplayer interface {
	Replay(ctx context.Context, companyID, itemID, locationID id.ID) (types.Quantity, error)
}
