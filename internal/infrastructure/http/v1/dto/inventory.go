package dto

import (
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/catalogs/location"
)

// ItemRequest creates or updates a catalog item.
type ItemRequest struct {
	Name          string          `json:"name" binding:"required"`
	SKU           *string         `json:"sku"`
	Description   *string         `json:"description"`
	Category      *string         `json:"category"`
	UnitOfMeasure string          `json:"unitOfMeasure"`
	Cost          *types.Money    `json:"cost"`
	SellPrice     *types.Money    `json:"sellPrice"`
	ReorderPoint  *types.Quantity `json:"reorderPoint"`
	Version       int             `json:"version"`
}

// LocationRequest creates or updates a stock location.
type LocationRequest struct {
	Name      string                `json:"name" binding:"required"`
	Type      location.LocationType `json:"locationType"`
	IsDefault bool                  `json:"isDefault"`
	Version   int                   `json:"version"`
}

// MovementRequest appends one ledger movement.
type MovementRequest struct {
	ItemID       string         `json:"itemId" binding:"required"`
	LocationID   string         `json:"locationId" binding:"required"`
	MovementType string         `json:"movementType" binding:"required"`
	Quantity     types.Quantity `json:"quantity" binding:"required"`
	UnitCost     *types.Money   `json:"unitCost"`
	Note         *string        `json:"note"`
	WorkOrderID  *string        `json:"workOrderId"`
}

// TransferRequest moves stock between locations.
type TransferRequest struct {
	ItemID         string         `json:"itemId" binding:"required"`
	FromLocationID string         `json:"fromLocationId" binding:"required"`
	ToLocationID   string         `json:"toLocationId" binding:"required"`
	Quantity       types.Quantity `json:"quantity" binding:"required"`
	Note           string         `json:"note"`
}

// ReleaseAllocationRequest releases a reservation.
type ReleaseAllocationRequest struct {
	ItemID      string         `json:"itemId" binding:"required"`
	LocationID  string         `json:"locationId" binding:"required"`
	Quantity    types.Quantity `json:"quantity" binding:"required"`
	WorkOrderID *string        `json:"workOrderId"`
	Note        *string        `json:"note"`
}

// DeleteConflictResponse reports why an item cannot be deleted.
type DeleteConflictResponse struct {
	Categories []string `json:"categories"`
}
