package location

import (
	"context"
	"fmt"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/core/tx"
	"fieldstock/pkg/logger"
)

// Service provides business logic for the Location catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new Location service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Create creates a new location. Setting IsDefault clears the flag on the
// company's other locations in the same transaction.
func (s *Service) Create(ctx context.Context, loc *Location) error {
	if err := loc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if loc.IsDefault {
			if err := s.repo.ClearDefault(ctx, loc.CompanyID); err != nil {
				return fmt.Errorf("clear default: %w", err)
			}
		}
		if err := s.repo.Create(ctx, loc); err != nil {
			return fmt.Errorf("create location: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "location created", "id", loc.ID, "name", loc.Name, "default", loc.IsDefault)
	return nil
}

// GetByID retrieves a location.
func (s *Service) GetByID(ctx context.Context, companyID, locationID id.ID) (*Location, error) {
	loc, err := s.repo.GetByID(ctx, companyID, locationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("location", locationID.String())
		}
		return nil, err
	}
	return loc, nil
}

// Update modifies an existing location, handling the default flag.
func (s *Service) Update(ctx context.Context, loc *Location) error {
	if err := loc.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if loc.IsDefault {
			if err := s.repo.ClearDefault(ctx, loc.CompanyID); err != nil {
				return fmt.Errorf("clear default: %w", err)
			}
		}
		if err := s.repo.Update(ctx, loc); err != nil {
			return fmt.Errorf("update location: %w", err)
		}
		return nil
	})
}

// Delete removes a location.
func (s *Service) Delete(ctx context.Context, companyID, locationID id.ID) error {
	exists, err := s.repo.Exists(ctx, companyID, locationID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("location", locationID.String())
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, companyID, locationID)
	})
}

// List retrieves the company's locations, default first.
func (s *Service) List(ctx context.Context, companyID id.ID) ([]*Location, error) {
	return s.repo.List(ctx, companyID)
}
