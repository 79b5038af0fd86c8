// Package ledger_repo provides the PostgreSQL implementation of the
// movement ledger.
package ledger_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"fieldstock/internal/core/entity"
	"fieldstock/internal/core/id"
	"fieldstock/internal/domain/ledger"
	"fieldstock/internal/infrastructure/storage/postgres"
)

const (
	movementsTable = "inventory_movements"
	stockTable     = "inventory_stock"
)

var movementCols = postgres.ExtractDBColumns[entity.Movement]()

// MovementRepo implements ledger.Repository. Movements are append-only:
// the only delete is the item force-delete cascade. Append also folds the
// movement into the maintained inventory_stock row, in the same
// transaction, so stock rows always equal the ledger fold.
type MovementRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ ledger.Repository = (*MovementRepo)(nil)

func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.insertMovement(ctx, m); err != nil {
			return err
		}
		return r.applyToStock(ctx, m)
	})
}

func (r *MovementRepo) insertMovement(ctx context.Context, m *entity.Movement) error {
	data := postgres.StructToMap(m)
	filtered := make(map[string]any, len(movementCols))
	for _, col := range movementCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder.
		Insert(movementsTable).
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// applyToStock folds the movement into its stock row. Allocations reserve
// stock, they do not move it, so they produce no statement.
func (r *MovementRepo) applyToStock(ctx context.Context, m *entity.Movement) error {
	sql, args, ok, err := stockUpsert(r.builder, m, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("build stock upsert: %w", err)
	}
	if !ok {
		return nil
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("apply movement to stock: %w", err)
	}
	return nil
}

// stockUpsert builds the statement that adds the movement's signed quantity
// to the (company, item, location) stock row, creating it on first touch.
func stockUpsert(builder squirrel.StatementBuilderType, m *entity.Movement, now time.Time) (string, []any, bool, error) {
	if !m.CountsTowardOnHand() {
		return "", nil, false, nil
	}

	sql, args, err := builder.
		Insert(stockTable).
		Columns("company_id", "item_id", "location_id", "quantity", "updated_at").
		Values(m.CompanyID, m.ItemID, m.LocationID, m.SignedQuantity(), now).
		Suffix("ON CONFLICT (company_id, item_id, location_id) DO UPDATE SET " +
			"quantity = " + stockTable + ".quantity + EXCLUDED.quantity, " +
			"updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return "", nil, false, err
	}
	return sql, args, true, nil
}

func (r *MovementRepo) List(ctx context.Context, companyID id.ID, filter ledger.MovementFilter) ([]entity.Movement, error) {
	q := r.baseSelect(companyID).OrderBy("created_at DESC", "id DESC")

	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"movement_type": *filter.Type})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	return r.selectMovements(ctx, q)
}

func (r *MovementRepo) ListByItemLocation(ctx context.Context, companyID, itemID, locationID id.ID) ([]entity.Movement, error) {
	q := r.baseSelect(companyID).
		Where(squirrel.Eq{"item_id": itemID, "location_id": locationID}).
		OrderBy("created_at ASC", "id ASC")
	return r.selectMovements(ctx, q)
}

func (r *MovementRepo) ListAllocations(ctx context.Context, companyID id.ID) ([]entity.Movement, error) {
	q := r.baseSelect(companyID).
		Where(squirrel.Eq{"movement_type": entity.MovementAllocation}).
		OrderBy("created_at ASC", "id ASC")
	return r.selectMovements(ctx, q)
}

func (r *MovementRepo) HasItemReferences(ctx context.Context, companyID, itemID id.ID) (bool, error) {
	sql, args, err := r.builder.
		Select("1").
		From(movementsTable).
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
		return false, fmt.Errorf("check movements: %w", err)
	}
	return true, nil
}

func (r *MovementRepo) DeleteItemReferences(ctx context.Context, companyID, itemID id.ID) error {
	sql, args, err := r.builder.
		Delete(movementsTable).
		Where(squirrel.Eq{"company_id": companyID, "item_id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	return nil
}

func (r *MovementRepo) baseSelect(companyID id.ID) squirrel.SelectBuilder {
	return r.builder.
		Select(movementCols...).
		From(movementsTable).
		Where(squirrel.Eq{"company_id": companyID})
}

func (r *MovementRepo) selectMovements(ctx context.Context, q squirrel.SelectBuilder) ([]entity.Movement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.Movement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}
