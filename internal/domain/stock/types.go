package stock

import (
	"time"

	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
)

// ItemSummary is one row of the company-wide stock overview: an item with
// its totals across all locations. Items with no stock rows still appear,
// with zero on-hand.
type ItemSummary struct {
	ItemID        id.ID          `db:"item_id" json:"item_id"`
	SKU           string         `db:"sku" json:"sku"`
	Name          string         `db:"name" json:"name"`
	Category      *string        `db:"category" json:"category,omitempty"`
	UnitOfMeasure string         `db:"unit_of_measure" json:"unit_of_measure"`
	ReorderPoint  types.Quantity `db:"reorder_point" json:"reorder_point"`
	OnHand        types.Quantity `db:"on_hand" json:"on_hand"`
	Reserved      types.Quantity `db:"reserved" json:"reserved"`
	Available     types.Quantity `db:"available" json:"available"`
	Status        Status         `db:"status" json:"status"`
	LocationCount int            `db:"location_count" json:"location_count"`
}

// LocationDetail is the per-location breakdown for a single item.
type LocationDetail struct {
	LocationID   id.ID          `db:"location_id" json:"location_id"`
	LocationName string         `db:"location_name" json:"location_name"`
	OnHand       types.Quantity `db:"on_hand" json:"on_hand"`
	Reserved     types.Quantity `db:"reserved" json:"reserved"`
	Available    types.Quantity `db:"available" json:"available"`
	UpdatedAt    *time.Time     `db:"updated_at" json:"updated_at,omitempty"`
}

// SummaryFilter narrows the stock overview.
type SummaryFilter struct {
	Search   string
	Category string
	Status   Status // when set, keep only items with this classification
	Limit    int
	Offset   int
}

// ReservedKey identifies a reservation bucket.
type ReservedKey struct {
	ItemID     id.ID
	LocationID id.ID
}

// StockCheck compares one maintained stock row against the fold of its
// movement history.
type StockCheck struct {
	ItemID     id.ID          `json:"item_id"`
	LocationID id.ID          `json:"location_id"`
	Recorded   types.Quantity `json:"recorded"`
	Replayed   types.Quantity `json:"replayed"`
	Match      bool           `json:"match"`
}

// DiagnosticReport describes the health of the stock read path.
type DiagnosticReport struct {
	GeneratedAt     time.Time         `json:"generated_at"`
	Views           map[string]string `json:"views"`
	Tables          map[string]bool   `json:"tables"`
	LedgerChecks    []StockCheck      `json:"ledger_checks,omitempty"`
	Recommendations []string          `json:"recommendations,omitempty"`
}
