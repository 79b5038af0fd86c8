// Package alert_repo persists stock alerts.
package alert_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/domain/alerts"
	"fieldstock/internal/infrastructure/storage/postgres"
)

const alertsTable = "inventory_alerts"

var alertCols = postgres.ExtractDBColumns[alerts.Alert]()

// AlertRepo implements alerts.Repository.
type AlertRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ alerts.Repository = (*AlertRepo)(nil)

func NewAlertRepo(txManager *postgres.TxManager) *AlertRepo {
	return &AlertRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AlertRepo) Create(ctx context.Context, a *alerts.Alert) error {
	data := postgres.StructToMap(a)
	filtered := make(map[string]any, len(alertCols))
	for _, col := range alertCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder.
		Insert(alertsTable).
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (r *AlertRepo) Update(ctx context.Context, a *alerts.Alert) error {
	sql, args, err := r.builder.
		Update(alertsTable).
		Set("status", a.Status).
		Set("available", a.Available).
		Set("message", a.Message).
		Set("resolved_at", a.ResolvedAt).
		Where(squirrel.Eq{"id": a.ID, "company_id": a.CompanyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(alertsTable, a.ID.String())
	}
	return nil
}

func (r *AlertRepo) ActiveByItem(ctx context.Context, companyID, itemID id.ID) (*alerts.Alert, error) {
	sql, args, err := r.builder.
		Select(alertCols...).
		From(alertsTable).
		Where(squirrel.Eq{"company_id": companyID, "item_id": itemID, "resolved_at": nil}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var a alerts.Alert
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(alertsTable, itemID.String())
		}
		return nil, fmt.Errorf("get active alert: %w", err)
	}
	return &a, nil
}

func (r *AlertRepo) List(ctx context.Context, companyID id.ID, filter alerts.ListFilter) ([]alerts.Alert, error) {
	q := r.builder.
		Select(alertCols...).
		From(alertsTable).
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("resolved_at ASC NULLS FIRST", "created_at DESC")

	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.OnlyActive {
		q = q.Where(squirrel.Eq{"resolved_at": nil})
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

	var list []alerts.Alert
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return list, nil
}
