package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/catalogs/item"
	"fieldstock/internal/domain/stock"
	"fieldstock/internal/infrastructure/storage/postgres"
)

const itemTable = "inventory_items"

// ItemRepo implements item.Repository.
type ItemRepo struct {
	*baseCatalogRepo[*item.Item]
}

var _ item.Repository = (*ItemRepo)(nil)

func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		baseCatalogRepo: newBaseCatalogRepo(
			txManager,
			itemTable,
			postgres.ExtractDBColumns[item.Item](),
			func() *item.Item { return &item.Item{} },
		),
	}
}

func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	return r.create(ctx, it)
}

func (r *ItemRepo) GetByID(ctx context.Context, companyID, itemID id.ID) (*item.Item, error) {
	return r.getByID(ctx, companyID, itemID)
}

func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	return r.update(ctx, it)
}

func (r *ItemRepo) Delete(ctx context.Context, companyID, itemID id.ID) error {
	return r.delete(ctx, companyID, itemID)
}

func (r *ItemRepo) Exists(ctx context.Context, companyID, itemID id.ID) (bool, error) {
	return r.exists(ctx, companyID, itemID)
}

func (r *ItemRepo) List(ctx context.Context, companyID id.ID, filter item.ListFilter) ([]*item.Item, error) {
	q := r.baseSelect(companyID).OrderBy("name ASC")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
			squirrel.ILike{"category": pattern},
		})
	}
	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	return r.selectList(ctx, q)
}

// ReorderPoint resolves the item's name and effective reorder point for
// alert recalculation.
func (r *ItemRepo) ReorderPoint(ctx context.Context, companyID, itemID id.ID) (string, types.Quantity, error) {
	it, err := r.getByID(ctx, companyID, itemID)
	if err != nil {
		return "", 0, err
	}
	return it.Name, stock.EffectiveReorderPoint(it.ReorderPoint), nil
}

func (r *ItemRepo) Categories(ctx context.Context, companyID id.ID) ([]string, error) {
	sql, args, err := r.builder().
		Select("DISTINCT category").
		From(itemTable).
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.NotEq{"category": nil}).
		Where(squirrel.NotEq{"category": ""}).
		OrderBy("category ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var categories []string
	if err := pgxscan.Select(ctx, r.querier(ctx), &categories, sql, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
