package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
)

// SavingsSvc is an implementation of the service.SavingsService interface
type SavingsSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
}

// NewSavingsService creates a new SavingsSvc
func NewSavingsService(deps Dependencies) *SavingsSvc {
	return &SavingsSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
	}
}

// GetByClient gets a client's savings account with its transaction history
func (s *SavingsSvc) GetByClient(ctx context.Context, clientID uuid.UUID) (*models.SavingsAccount, []*models.SavingsTransaction, error) {
	account, err := s.repos.Savings.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}

	txns, err := s.repos.Savings.GetTransactions(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	return account, txns, nil
}
