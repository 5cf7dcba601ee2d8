package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
)

// ConfigSvc is an implementation of the service.ConfigService interface
type ConfigSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
}

// NewConfigService creates a new ConfigSvc
func NewConfigService(deps Dependencies) *ConfigSvc {
	return &ConfigSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
	}
}

// Resolve returns the effective fee set for one loan: the branch config if
// one exists, else the global config, else the hard-coded fallbacks. A
// configuration lookup failure never fails the loan save; it is logged and
// the fallback constants apply.
func (s *ConfigSvc) Resolve(ctx context.Context, branchCode string, category models.LoanCategory, inGroup, returning bool, currency models.Currency) models.ResolvedFees {
	cfg := s.lookup(ctx, branchCode)
	fees := cfg.CategoryFeesFor(category)
	return models.ResolveFees(fees, category, inGroup, returning, currency)
}

// Upsert validates and stores a fee configuration document
func (s *ConfigSvc) Upsert(ctx context.Context, cfg *models.LoanConfig) error {
	if cfg.BranchCode == "" && cfg.BranchName != "" {
		return errors.New("branch config requires a branch code")
	}

	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}

	if err := s.repos.LoanConfig.Upsert(ctx, cfg); err != nil {
		return fmt.Errorf("failed to store loan config: %w", err)
	}

	s.logger.Infof("Loan config upserted for branch %q", cfg.BranchCode)
	return nil
}

// List lists all fee configuration documents
func (s *ConfigSvc) List(ctx context.Context) ([]*models.LoanConfig, error) {
	return s.repos.LoanConfig.List(ctx)
}

// GetForBranch returns the config that would govern a branch: the branch
// document when present, else the global one
func (s *ConfigSvc) GetForBranch(ctx context.Context, branchCode string) (*models.LoanConfig, error) {
	if branchCode != "" {
		cfg, err := s.repos.LoanConfig.GetByBranchCode(ctx, branchCode)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	return s.repos.LoanConfig.GetGlobal(ctx)
}

func (s *ConfigSvc) lookup(ctx context.Context, branchCode string) *models.LoanConfig {
	if branchCode != "" {
		cfg, err := s.repos.LoanConfig.GetByBranchCode(ctx, branchCode)
		if err == nil {
			return cfg
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warnf("Branch config lookup failed for %q, using fallbacks: %v", branchCode, err)
			return nil
		}
	}

	cfg, err := s.repos.LoanConfig.GetGlobal(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warnf("Global config lookup failed, using fallbacks: %v", err)
		}
		return nil
	}

	return cfg
}
