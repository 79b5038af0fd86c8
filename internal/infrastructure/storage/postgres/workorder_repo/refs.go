// Package workorder_repo reads and cascades work-order item references.
package workorder_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"fieldstock/internal/core/id"
	"fieldstock/internal/domain/workorder"
	"fieldstock/internal/infrastructure/storage/postgres"
)

const refsTable = "work_order_items"

// RefsRepo implements workorder.Repository.
type RefsRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ workorder.Repository = (*RefsRepo)(nil)

func NewRefsRepo(txManager *postgres.TxManager) *RefsRepo {
	return &RefsRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *RefsRepo) ListByItem(ctx context.Context, companyID, itemID id.ID) ([]workorder.ItemReference, error) {
	sql, args, err := r.builder.
		Select("id", "company_id", "work_order_id", "item_id", "quantity", "created_at").
		From(refsTable).
		Where(squirrel.Eq{"company_id": companyID, "item_id": itemID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var refs []workorder.ItemReference
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &refs, sql, args...); err != nil {
		return nil, fmt.Errorf("list work order refs: %w", err)
	}
	return refs, nil
}

// ItemReferenceDetails implements the item catalog's dependency detailer:
// delete conflicts name the work-order lines blocking the item.
func (r *RefsRepo) ItemReferenceDetails(ctx context.Context, companyID, itemID id.ID) (any, error) {
	refs, err := r.ListByItem(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *RefsRepo) HasItemReferences(ctx context.Context, companyID, itemID id.ID) (bool, error) {
	sql, args, err := r.builder.
		Select("1").
		From(refsTable).
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
		return false, fmt.Errorf("check work order refs: %w", err)
	}
	return true, nil
}

func (r *RefsRepo) DeleteItemReferences(ctx context.Context, companyID, itemID id.ID) error {
	sql, args, err := r.builder.
		Delete(refsTable).
		Where(squirrel.Eq{"company_id": companyID, "item_id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete work order refs: %w", err)
	}
	return nil
}
