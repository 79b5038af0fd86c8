package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"fieldstock/internal/core/id"
	"fieldstock/internal/domain/catalogs/location"
	"fieldstock/internal/infrastructure/storage/postgres"
)

const locationTable = "inventory_locations"

// LocationRepo implements location.Repository.
type LocationRepo struct {
	*baseCatalogRepo[*location.Location]
}

var _ location.Repository = (*LocationRepo)(nil)

func NewLocationRepo(txManager *postgres.TxManager) *LocationRepo {
	return &LocationRepo{
		baseCatalogRepo: newBaseCatalogRepo(
			txManager,
			locationTable,
			postgres.ExtractDBColumns[location.Location](),
			func() *location.Location { return &location.Location{} },
		),
	}
}

func (r *LocationRepo) Create(ctx context.Context, loc *location.Location) error {
	return r.create(ctx, loc)
}

func (r *LocationRepo) GetByID(ctx context.Context, companyID, locationID id.ID) (*location.Location, error) {
	return r.getByID(ctx, companyID, locationID)
}

func (r *LocationRepo) Update(ctx context.Context, loc *location.Location) error {
	return r.update(ctx, loc)
}

func (r *LocationRepo) Delete(ctx context.Context, companyID, locationID id.ID) error {
	return r.delete(ctx, companyID, locationID)
}

func (r *LocationRepo) Exists(ctx context.Context, companyID, locationID id.ID) (bool, error) {
	return r.exists(ctx, companyID, locationID)
}

func (r *LocationRepo) List(ctx context.Context, companyID id.ID) ([]*location.Location, error) {
	return r.selectList(ctx, r.baseSelect(companyID).OrderBy("is_default DESC", "name ASC"))
}

func (r *LocationRepo) ClearDefault(ctx context.Context, companyID id.ID) error {
	sql, args, err := r.builder().
		Update(locationTable).
		Set("is_default", false).
		Where(squirrel.Eq{"company_id": companyID, "is_default": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear default: %w", err)
	}
	return nil
}
