package item

import (
	"context"
	"fmt"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/tx"
	"fieldstock/internal/domain/audit"
	"fieldstock/pkg/logger"
)

// Dependency guard categories, in the order they are checked and reported.
const (
	CategoryStockRecords  = "stock_records"
	CategoryMovements     = "movement_history"
	CategoryWorkOrderRefs = "work_order_references"
)

// Dependency pairs a guard category with the repositories that check and
// purge it. Purge order follows slice order during force-delete. Detailer
// is optional; when set, delete conflicts carry the concrete blocking
// references for the category.
type Dependency struct {
	Category string
	Checker  DependencyChecker
	Purger   DependencyPurger
	Detailer DependencyDetailer
}

// Service provides business logic for the Item catalog, including the
// dependency guard for deletes.
type Service struct {
	repo      Repository
	deps      []Dependency
	txManager tx.Manager
	audit     audit.Recorder
}

// NewService creates a new Item service. Dependencies are checked and
// purged in slice order; the whole purge runs in one transaction, so
// ordering only affects how conflicts are reported.
func NewService(repo Repository, deps []Dependency, txManager tx.Manager, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		deps:      deps,
		txManager: txManager,
		audit:     recorder,
	}
}

// Create creates a new item.
func (s *Service) Create(ctx context.Context, it *Item) error {
	if err := it.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, it); err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.audit.LogChange(ctx, "inventory_item", it.ID, audit.ActionCreate, map[string]any{
		"name": it.Name,
	}); err != nil {
		logger.Warn(ctx, "audit log failed", "error", err)
	}

	logger.Info(ctx, "item created", "id", it.ID, "name", it.Name)
	return nil
}

// GetByID retrieves an item.
func (s *Service) GetByID(ctx context.Context, companyID, itemID id.ID) (*Item, error) {
	it, err := s.repo.GetByID(ctx, companyID, itemID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("item", itemID.String())
		}
		return nil, err
	}
	return it, nil
}

// Update modifies an existing item. The audit entry carries the
// field-level diff against the stored state.
func (s *Service) Update(ctx context.Context, it *Item) error {
	if err := it.Validate(ctx); err != nil {
		return err
	}

	old, getErr := s.repo.GetByID(ctx, it.CompanyID, it.ID)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, it); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	changes := map[string]any{"name": it.Name}
	if getErr == nil {
		changes = audit.Diff(auditState(old), auditState(it))
	}
	if err := s.audit.LogChange(ctx, "inventory_item", it.ID, audit.ActionUpdate, changes); err != nil {
		logger.Warn(ctx, "audit log failed", "error", err)
	}

	return nil
}

// auditState flattens the audited item fields for diffing.
func auditState(it *Item) map[string]any {
	return map[string]any{
		"name":            it.Name,
		"sku":             it.SKU,
		"description":     it.Description,
		"category":        it.Category,
		"unit_of_measure": it.UnitOfMeasure,
		"cost":            it.Cost,
		"sell_price":      it.SellPrice,
		"reorder_point":   it.ReorderPoint,
	}
}

// List retrieves items with filtering.
func (s *Service) List(ctx context.Context, companyID id.ID, filter ListFilter) ([]*Item, error) {
	return s.repo.List(ctx, companyID, filter)
}

// Categories returns distinct item categories for a company.
func (s *Service) Categories(ctx context.Context, companyID id.ID) ([]string, error) {
	return s.repo.Categories(ctx, companyID)
}

// CheckDependencies returns the guard categories that currently reference
// the item, in check order. An empty slice means the item is safe to delete.
func (s *Service) CheckDependencies(ctx context.Context, companyID, itemID id.ID) ([]string, error) {
	var present []string
	for _, d := range s.deps {
		has, err := d.Checker.HasItemReferences(ctx, companyID, itemID)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", d.Category, err)
		}
		if has {
			present = append(present, d.Category)
		}
	}
	return present, nil
}

// dependencyConflict builds the structured delete conflict: the blocking
// categories, plus the concrete references for every category that can
// list them. Listing failures degrade to categories only.
func (s *Service) dependencyConflict(ctx context.Context, companyID, itemID id.ID, blocking []string) error {
	conflict := apperror.NewDependencyConflict("item", itemID.String(), blocking)

	blocked := make(map[string]bool, len(blocking))
	for _, category := range blocking {
		blocked[category] = true
	}

	for _, d := range s.deps {
		if d.Detailer == nil || !blocked[d.Category] {
			continue
		}
		details, err := d.Detailer.ItemReferenceDetails(ctx, companyID, itemID)
		if err != nil {
			logger.Warn(ctx, "dependency details unavailable",
				"category", d.Category, "error", err)
			continue
		}
		conflict = conflict.WithDetail(d.Category, details)
	}
	return conflict
}

// Delete removes an item only if nothing references it. When stock rows,
// movements or work-order references exist, it fails with a structured
// conflict naming exactly the present categories so the caller can decide
// to force-delete.
func (s *Service) Delete(ctx context.Context, companyID, itemID id.ID) error {
	exists, err := s.repo.Exists(ctx, companyID, itemID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("item", itemID.String())
	}

	blocking, err := s.CheckDependencies(ctx, companyID, itemID)
	if err != nil {
		return err
	}
	if len(blocking) > 0 {
		return s.dependencyConflict(ctx, companyID, itemID, blocking)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, companyID, itemID)
	})
	if err != nil {
		return err
	}

	if err := s.audit.LogChange(ctx, "inventory_item", itemID, audit.ActionDelete, nil); err != nil {
		logger.Warn(ctx, "audit log failed", "error", err)
	}

	logger.Info(ctx, "item deleted", "id", itemID)
	return nil
}

// ForceDelete cascades: purges each dependency category in order, then
// deletes the item itself, all inside one transaction so a failed step
// leaves no partial cleanup behind.
func (s *Service) ForceDelete(ctx context.Context, companyID, itemID id.ID) error {
	exists, err := s.repo.Exists(ctx, companyID, itemID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("item", itemID.String())
	}

	var completed []string
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, d := range s.deps {
			if d.Purger == nil {
				continue
			}
			if err := d.Purger.DeleteItemReferences(ctx, companyID, itemID); err != nil {
				// The surrounding transaction rolls back the earlier steps.
				return apperror.NewPartialWrite("force_delete_item", d.Category, completed).
					WithDetail("rolled_back", true).WithCause(err)
			}
			completed = append(completed, d.Category)
		}
		if err := s.repo.Delete(ctx, companyID, itemID); err != nil {
			return apperror.NewPartialWrite("force_delete_item", "item", completed).
				WithDetail("rolled_back", true).WithCause(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.audit.LogChange(ctx, "inventory_item", itemID, audit.ActionDelete, map[string]any{
		"forced": true,
		"purged": completed,
	}); err != nil {
		logger.Warn(ctx, "audit log failed", "error", err)
	}

	logger.Info(ctx, "item force deleted", "id", itemID, "purged", completed)
	return nil
}
