// Package item provides the inventory item catalog.
// Items are the "what" dimension of the stock ledger: every movement,
// stock record and alert references an item.
package item

import (
	"context"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/entity"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
)

// Item represents a stockable inventory item.
type Item struct {
	entity.Catalog

	// SKU is the stock keeping unit (unique within a company by convention)
	SKU *string `db:"sku" json:"sku,omitempty"`

	// Description is optional free text
	Description *string `db:"description" json:"description,omitempty"`

	// Category groups items for filtering and reporting
	Category *string `db:"category" json:"category,omitempty"`

	// UnitOfMeasure is the counting unit ("each", "box", "meter")
	UnitOfMeasure string `db:"unit_of_measure" json:"unitOfMeasure"`

	// Cost is the purchase cost per unit
	Cost *types.Money `db:"cost" json:"cost,omitempty"`

	// SellPrice is the sell price per unit
	SellPrice *types.Money `db:"sell_price" json:"sellPrice,omitempty"`

	// ReorderPoint is the threshold below which available stock is LOW_STOCK.
	// When nil, classification falls back to the system default.
	ReorderPoint *types.Quantity `db:"reorder_point" json:"reorderPoint,omitempty"`
}

// NewItem creates a new Item with required fields.
func NewItem(companyID id.ID, name string) *Item {
	return &Item{
		Catalog:       entity.NewCatalog(companyID, name),
		UnitOfMeasure: "each",
	}
}

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if i.ReorderPoint != nil && i.ReorderPoint.IsNegative() {
		return apperror.NewValidation("reorder point cannot be negative").
			WithDetail("field", "reorder_point")
	}
	if i.Cost != nil && i.Cost.IsNegative() {
		return apperror.NewValidation("cost cannot be negative").
			WithDetail("field", "cost")
	}
	if i.SellPrice != nil && i.SellPrice.IsNegative() {
		return apperror.NewValidation("sell price cannot be negative").
			WithDetail("field", "sell_price")
	}

	return nil
}
