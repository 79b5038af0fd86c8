// Package alerts maintains low-stock and out-of-stock alerts derived from
// the ledger. Alerts are a convenience projection: the ledger stays the
// source of truth and alert state is recomputed after each movement.
package alerts

import (
	"context"
	"time"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/stock"
)

// Alert is one open or resolved stock alert for an item.
type Alert struct {
	ID         id.ID          `db:"id" json:"id"`
	CompanyID  id.ID          `db:"company_id" json:"-"`
	ItemID     id.ID          `db:"item_id" json:"item_id"`
	Status     stock.Status   `db:"status" json:"status"`
	Available  types.Quantity `db:"available" json:"available"`
	Message    string         `db:"message" json:"message"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	ResolvedAt *time.Time     `db:"resolved_at" json:"resolved_at,omitempty"`
}

func (a *Alert) Validate(ctx context.Context) error {
	if id.IsNil(a.CompanyID) || id.IsNil(a.ItemID) {
		return apperror.NewValidation("company and item are required")
	}
	if a.Status != stock.StatusLowStock && a.Status != stock.StatusOutOfStock {
		return apperror.NewValidation("alert status must be LOW_STOCK or OUT_OF_STOCK")
	}
	return nil
}

// Resolved reports whether the alert has been closed.
func (a *Alert) Resolved() bool { return a.ResolvedAt != nil }
