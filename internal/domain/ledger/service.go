package ledger

import (
	"context"
	"fmt"
	"time"

	"fieldstock/internal/core/apperror"
	appctx "fieldstock/internal/core/context"
	"fieldstock/internal/core/entity"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/audit"
	"fieldstock/pkg/logger"
)

// AlertNotifier recomputes stock-alert state for an item after a movement.
// Implemented by the alerts service; a nil notifier disables the follow-up.
type AlertNotifier interface {
	RecalculateItem(ctx context.Context, companyID, itemID id.ID) error
}

// Service provides the movement ledger write path.
type Service struct {
	repo   Repository
	alerts AlertNotifier
	audit  audit.Recorder
}

// NewService creates a new ledger service.
func NewService(repo Repository, alerts AlertNotifier, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{
		repo:   repo,
		alerts: alerts,
		audit:  recorder,
	}
}

// Append validates and persists exactly one immutable movement, then
// triggers a best-effort recompute of the item's stock-alert state. A
// failed recompute is logged and never rolls back or fails the movement.
// A failed insert leaves no partial state (single row, no retry).
func (s *Service) Append(ctx context.Context, m *entity.Movement) (*entity.Movement, error) {
	if err := m.Validate(ctx); err != nil {
		return nil, err
	}

	if id.IsNil(m.ID) {
		m.ID = id.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.CreatedBy == "" {
		m.CreatedBy = appctx.GetUserID(ctx)
	}

	if err := s.repo.Append(ctx, m); err != nil {
		return nil, fmt.Errorf("append movement: %w", err)
	}

	logger.Info(ctx, "movement appended",
		"id", m.ID,
		"item_id", m.ItemID,
		"location_id", m.LocationID,
		"type", m.Type,
		"quantity", m.Quantity,
	)

	if err := s.audit.LogChange(ctx, "inventory_movement", m.ID, audit.ActionMovement, map[string]any{
		"movement_type": string(m.Type),
		"item_id":       m.ItemID.String(),
		"location_id":   m.LocationID.String(),
		"quantity":      m.Quantity.String(),
	}); err != nil {
		logger.Warn(ctx, "audit log failed", "error", err)
	}

	s.notifyAlerts(ctx, m.CompanyID, m.ItemID)

	return m, nil
}

// notifyAlerts is the best-effort post-append follow-up.
func (s *Service) notifyAlerts(ctx context.Context, companyID, itemID id.ID) {
	if s.alerts == nil {
		return
	}
	if err := s.alerts.RecalculateItem(ctx, companyID, itemID); err != nil {
		logger.Warn(ctx, "stock alert recompute failed",
			"item_id", itemID,
			"error", err,
		)
	}
}

// ReleaseAllocation appends a negative ALLOCATION movement compensating an
// earlier reservation, optionally tied to the same work order. This is the
// explicit release path: reservations never expire on their own.
func (s *Service) ReleaseAllocation(ctx context.Context, companyID, itemID, locationID id.ID, qty types.Quantity, workOrderID *id.ID, note *string) (*entity.Movement, error) {
	if !qty.IsPositive() {
		return nil, apperror.NewValidation("release quantity must be positive").
			WithDetail("quantity", qty.String())
	}

	m := entity.NewMovement(companyID, itemID, locationID, entity.MovementAllocation, qty.Neg())
	m.WorkOrderID = workOrderID
	m.Note = note

	return s.Append(ctx, &m)
}

// List returns movement history, newest first.
func (s *Service) List(ctx context.Context, companyID id.ID, filter MovementFilter) ([]entity.Movement, error) {
	return s.repo.List(ctx, companyID, filter)
}

// Replay returns the on-hand quantity for one (item, location) pair by
// folding its full movement history. Used for audits and read-model
// verification; the stock service uses grouped SQL folds for bulk reads.
func (s *Service) Replay(ctx context.Context, companyID, itemID, locationID id.ID) (types.Quantity, error) {
	movements, err := s.repo.ListByItemLocation(ctx, companyID, itemID, locationID)
	if err != nil {
		return 0, fmt.Errorf("list movements: %w", err)
	}
	return entity.FoldOnHand(movements), nil
}
