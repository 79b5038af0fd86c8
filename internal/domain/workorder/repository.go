// Package workorder exposes the slice of work-order data the inventory
// module depends on: line items that reference inventory items. Work orders
// themselves are managed elsewhere; this module only guards and cascades
// the references.
package workorder

import (
	"context"
	"time"

	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
)

// ItemReference is one work-order line that points at an inventory item.
type ItemReference struct {
	ID          id.ID          `db:"id" json:"id"`
	CompanyID   id.ID          `db:"company_id" json:"-"`
	WorkOrderID id.ID          `db:"work_order_id" json:"work_order_id"`
	ItemID      id.ID          `db:"item_id" json:"item_id"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// Repository reads and cascades work-order item references. It satisfies
// the item catalog's dependency checker and purger contracts.
type Repository interface {
	ListByItem(ctx context.Context, companyID, itemID id.ID) ([]ItemReference, error)
	HasItemReferences(ctx context.Context, companyID, itemID id.ID) (bool, error)
	DeleteItemReferences(ctx context.Context, companyID, itemID id.ID) error
}
