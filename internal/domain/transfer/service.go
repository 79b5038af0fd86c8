// Package transfer moves stock between locations as a pair of ledger
// movements committed atomically.
package transfer

import (
	"context"
	"fmt"

	"fieldstock/internal/core/apperror"
	appctx "fieldstock/internal/core/context"
	"fieldstock/internal/core/entity"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/tx"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/audit"
	"fieldstock/internal/domain/ledger"
	"fieldstock/pkg/logger"
)

// AvailabilityChecker supplies source-location availability for the
// pre-transfer guard. Satisfied by the stock service.
type AvailabilityChecker interface {
	Availability(ctx context.Context, companyID, itemID id.ID, locationID *id.ID) (onHand, reserved, available types.Quantity, err error)
}

// Request describes one stock transfer.
type Request struct {
	ItemID         id.ID          `json:"item_id"`
	FromLocationID id.ID          `json:"from_location_id"`
	ToLocationID   id.ID          `json:"to_location_id"`
	Quantity       types.Quantity `json:"quantity"`
	Note           string         `json:"note,omitempty"`
}

// Result reports the two movements a committed transfer produced.
type Result struct {
	OutgoingID id.ID `json:"outgoing_movement_id"`
	IncomingID id.ID `json:"incoming_movement_id"`
}

// Service executes transfers. A transfer is not a first-class record: it is
// a USAGE movement at the source and a RETURN movement at the destination,
// linked by a shared note and committed in one database transaction so a
// failure of either leg leaves the ledger untouched.
type Service struct {
	ledger    ledger.Repository
	stock     AvailabilityChecker
	txManager tx.Manager
	alerts    ledger.AlertNotifier
	audit     audit.Recorder
}

func NewService(repo ledger.Repository, stock AvailabilityChecker, txManager tx.Manager, alerts ledger.AlertNotifier, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{
		ledger:    repo,
		stock:     stock,
		txManager: txManager,
		alerts:    alerts,
		audit:     recorder,
	}
}

// Execute validates and commits a transfer. Quantity must be positive and
// no more than the source location's available quantity; transferring
// exactly the available amount succeeds.
func (s *Service) Execute(ctx context.Context, companyID id.ID, req Request) (*Result, error) {
	if id.IsNil(req.ItemID) {
		return nil, apperror.NewValidation("item_id is required")
	}
	if id.IsNil(req.FromLocationID) || id.IsNil(req.ToLocationID) {
		return nil, apperror.NewValidation("from_location_id and to_location_id are required")
	}
	if req.FromLocationID == req.ToLocationID {
		return nil, apperror.NewValidation("source and destination locations must differ")
	}
	if req.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive")
	}

	_, _, available, err := s.stock.Availability(ctx, companyID, req.ItemID, &req.FromLocationID)
	if err != nil {
		return nil, err
	}
	if req.Quantity > available {
		return nil, apperror.NewInsufficientStock(req.ItemID.String(), req.Quantity.Float64(), available.Float64())
	}

	userID := appctx.GetUserID(ctx)
	baseNote := req.Note
	if baseNote == "" {
		baseNote = "Stock transfer"
	}

	outgoing := entity.NewMovement(companyID, req.ItemID, req.FromLocationID, entity.MovementUsage, req.Quantity)
	outgoing.CreatedBy = userID
	outgoing.Note = notePtr(baseNote + " (Outgoing)")

	incoming := entity.NewMovement(companyID, req.ItemID, req.ToLocationID, entity.MovementReturn, req.Quantity)
	incoming.CreatedBy = userID
	incoming.Note = notePtr(baseNote + " (Incoming)")

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ledger.Append(txCtx, &outgoing); err != nil {
			return fmt.Errorf("outgoing movement: %w", err)
		}
		if err := s.ledger.Append(txCtx, &incoming); err != nil {
			return fmt.Errorf("incoming movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "stock transferred",
		"item_id", req.ItemID,
		"from_location_id", req.FromLocationID,
		"to_location_id", req.ToLocationID,
		"quantity", req.Quantity)

	// Post-commit follow-ups are best-effort: the transfer stands even if
	// alert recomputation or the audit write fails.
	if s.alerts != nil {
		if err := s.alerts.RecalculateItem(ctx, companyID, req.ItemID); err != nil {
			logger.Warn(ctx, "alert recalculation after transfer failed",
				"item_id", req.ItemID, "error", err)
		}
	}
	if err := s.audit.LogChange(ctx, "inventory_transfer", outgoing.ID, audit.ActionTransfer, map[string]any{
		"item_id":          req.ItemID,
		"from_location_id": req.FromLocationID,
		"to_location_id":   req.ToLocationID,
		"quantity":         req.Quantity,
		"outgoing_id":      outgoing.ID,
		"incoming_id":      incoming.ID,
	}); err != nil {
		logger.Warn(ctx, "audit log for transfer failed", "error", err)
	}

	return &Result{OutgoingID: outgoing.ID, IncomingID: incoming.ID}, nil
}

func notePtr(s string) *string { return &s }
