// Package stock_repo provides the PostgreSQL read path for stock levels:
// the precomputed views, the maintained stock rows, and the probes that
// decide between them.
package stock_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"fieldstock/internal/core/entity"
	"fieldstock/internal/core/id"
	"fieldstock/internal/domain/stock"
	"fieldstock/internal/infrastructure/storage/postgres"
)

const stockTable = "inventory_stock"

// probeTargets whitelists relations the probes may touch. Probe names come
// from code, never from request input, but the whitelist keeps identifier
// interpolation safe.
var probeTargets = map[string]bool{
	stock.ViewItemSummary: true,
	stock.ViewStockStatus: true,
	"inventory_items":     true,
	"inventory_locations": true,
	"inventory_stock":     true,
	"inventory_movements": true,
}

// StockRepo implements stock.ReadModelRepository and stock.RecordSource,
// and the item catalog's dependency contracts for stock rows.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var (
	_ stock.ReadModelRepository = (*StockRepo)(nil)
	_ stock.RecordSource        = (*StockRepo)(nil)
)

func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ProbeView checks that the named view answers a trivial company-scoped
// query.
func (r *StockRepo) ProbeView(ctx context.Context, companyID id.ID, view string) error {
	return r.probe(ctx, companyID, view)
}

// ProbeTable checks that the named base table answers a trivial
// company-scoped query.
func (r *StockRepo) ProbeTable(ctx context.Context, companyID id.ID, table string) error {
	return r.probe(ctx, companyID, table)
}

func (r *StockRepo) probe(ctx context.Context, companyID id.ID, relation string) error {
	if !probeTargets[relation] {
		return fmt.Errorf("unknown probe target %q", relation)
	}

	var one int
	err := r.txManager.GetQuerier(ctx).
		QueryRow(ctx, "SELECT 1 FROM "+relation+" WHERE company_id = $1 LIMIT 1", companyID).
		Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		// No rows for the company still proves the relation exists and
		// answers.
		return nil
	}
	return err
}

// ItemSummaries reads the per-item totals view. Reserved and location
// counts are aggregated server-side; classification happens in the domain.
func (r *StockRepo) ItemSummaries(ctx context.Context, companyID id.ID, filter stock.SummaryFilter) ([]stock.ItemSummary, error) {
	q := r.builder.
		Select(
			"item_id", "sku", "name", "category", "unit_of_measure",
			"reorder_point", "on_hand", "reserved", "location_count",
		).
		From(stock.ViewItemSummary).
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("name ASC")

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

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []stock.ItemSummary
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("query %s: %w", stock.ViewItemSummary, err)
	}
	return rows, nil
}

// LocationDetails reads the per-location status view for one item.
func (r *StockRepo) LocationDetails(ctx context.Context, companyID, itemID id.ID) ([]stock.LocationDetail, error) {
	sql, args, err := r.builder.
		Select("location_id", "location_name", "on_hand", "reserved", "available", "updated_at").
		From(stock.ViewStockStatus).
		Where(squirrel.Eq{"company_id": companyID, "item_id": itemID}).
		OrderBy("location_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []stock.LocationDetail
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("query %s: %w", stock.ViewStockStatus, err)
	}
	return rows, nil
}

// StockRecords reads the maintained stock rows, optionally narrowed to one
// item.
func (r *StockRepo) StockRecords(ctx context.Context, companyID id.ID, itemID *id.ID) ([]entity.StockRecord, error) {
	q := r.builder.
		Select("company_id", "item_id", "location_id", "quantity", "updated_at").
		From(stockTable).
		Where(squirrel.Eq{"company_id": companyID})
	if itemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *itemID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []entity.StockRecord
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("query stock records: %w", err)
	}
	return records, nil
}

// HasItemReferences reports whether the item has stock rows. Part of the
// item deletion guard.
func (r *StockRepo) HasItemReferences(ctx context.Context, companyID, itemID id.ID) (bool, error) {
	sql, args, err := r.builder.
		Select("1").
		From(stockTable).
		Where(squirrel.Eq{"company_id": companyID, "item_id": itemID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check stock rows: %w", err)
	}
	return true, nil
}

// DeleteItemReferences removes the item's stock rows during force-delete.
func (r *StockRepo) DeleteItemReferences(ctx context.Context, companyID, itemID id.ID) error {
	sql, args, err := r.builder.
		Delete(stockTable).
		Where(squirrel.Eq{"company_id": companyID, "item_id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete stock rows: %w", err)
	}
	return nil
}
