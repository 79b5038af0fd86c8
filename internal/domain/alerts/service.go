package alerts

import (
	"context"
	"fmt"
	"time"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/types"
	"fieldstock/internal/domain/ledger"
	"fieldstock/internal/domain/stock"
	"fieldstock/pkg/logger"
)

// AvailabilityChecker reports current availability for an item across all
// locations. Satisfied by the stock service.
type AvailabilityChecker interface {
	Availability(ctx context.Context, companyID, itemID id.ID, locationID *id.ID) (onHand, reserved, available types.Quantity, err error)
}

// Service recomputes alert state per item. It implements the ledger's
// AlertNotifier so every appended movement triggers a recalculation.
type Service struct {
	repo  Repository
	stock AvailabilityChecker
	items ItemReader
}

// ItemReader is the slice of the item repository the alert service needs.
type ItemReader interface {
	ReorderPoint(ctx context.Context, companyID, itemID id.ID) (name string, rp types.Quantity, err error)
}

func NewService(repo Repository, stockSvc AvailabilityChecker, items ItemReader) *Service {
	return &Service{repo: repo, stock: stockSvc, items: items}
}

// RecalculateItem reclassifies the item and reconciles its alert: opens one
// on LOW_STOCK or OUT_OF_STOCK, updates it when the level changes, and
// resolves it when the item recovers to IN_STOCK.
func (s *Service) RecalculateItem(ctx context.Context, companyID, itemID id.ID) error {
	name, reorderPoint, err := s.items.ReorderPoint(ctx, companyID, itemID)
	if err != nil {
		if apperror.IsNotFound(err) {
			// Item was deleted between movement and recalculation.
			return nil
		}
		return err
	}

	_, _, available, err := s.stock.Availability(ctx, companyID, itemID, nil)
	if err != nil {
		return err
	}
	status := stock.Classify(available, reorderPoint)

	active, err := s.repo.ActiveByItem(ctx, companyID, itemID)
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}

	switch {
	case status == stock.StatusInStock:
		if active == nil {
			return nil
		}
		now := time.Now().UTC()
		active.ResolvedAt = &now
		if err := s.repo.Update(ctx, active); err != nil {
			return err
		}
		logger.Info(ctx, "stock alert resolved", "item_id", itemID, "available", available)
		return nil

	case active == nil:
		alert := &Alert{
			ID:        id.New(),
			CompanyID: companyID,
			ItemID:    itemID,
			Status:    status,
			Available: available,
			Message:   alertMessage(name, status, available),
			CreatedAt: time.Now().UTC(),
		}
		if err := alert.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, alert); err != nil {
			return err
		}
		logger.Info(ctx, "stock alert opened", "item_id", itemID, "status", status, "available", available)
		return nil

	default:
		if active.Status == status && active.Available == available {
			return nil
		}
		active.Status = status
		active.Available = available
		active.Message = alertMessage(name, status, available)
		return s.repo.Update(ctx, active)
	}
}

// List returns the company's alerts, active first.
func (s *Service) List(ctx context.Context, companyID id.ID, filter ListFilter) ([]Alert, error) {
	return s.repo.List(ctx, companyID, filter)
}

func alertMessage(itemName string, status stock.Status, available types.Quantity) string {
	if status == stock.StatusOutOfStock {
		return fmt.Sprintf("%s is out of stock", itemName)
	}
	return fmt.Sprintf("%s is low on stock (%s available)", itemName, available)
}

var _ ledger.AlertNotifier = (*Service)(nil)
