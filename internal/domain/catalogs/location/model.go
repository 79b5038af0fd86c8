// Package location provides the storage location catalog.
// Locations are the "where" dimension of the stock ledger (van, warehouse,
// job site). At most one location per company is the default, enforced by
// clearing the flag on siblings when it is set.
package location

import (
	"context"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/entity"
	"fieldstock/internal/core/id"
)

// LocationType defines the kind of storage location.
type LocationType string

const (
	TypeWarehouse LocationType = "warehouse"
	TypeVehicle   LocationType = "vehicle"
	TypeJobSite   LocationType = "job_site"
	TypeOther     LocationType = "other"
)

// Location represents a place where stock is held.
type Location struct {
	entity.Catalog

	// Type categorizes the location
	Type LocationType `db:"location_type" json:"locationType"`

	// IsDefault marks the company's default location
	IsDefault bool `db:"is_default" json:"isDefault"`
}

// NewLocation creates a new Location with required fields.
func NewLocation(companyID id.ID, name string, locType LocationType) *Location {
	return &Location{
		Catalog: entity.NewCatalog(companyID, name),
		Type:    locType,
	}
}

// Validate implements entity.Validatable.
func (l *Location) Validate(ctx context.Context) error {
	if err := l.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidLocationType(l.Type) {
		return apperror.NewValidation("invalid location type").
			WithDetail("field", "location_type").
			WithDetail("value", string(l.Type))
	}

	return nil
}

func isValidLocationType(t LocationType) bool {
	switch t {
	case TypeWarehouse, TypeVehicle, TypeJobSite, TypeOther:
		return true
	}
	return false
}
