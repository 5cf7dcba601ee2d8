package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/repository"
)

// ClientSvc is an implementation of the service.ClientService interface
type ClientSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
}

// NewClientService creates a new ClientSvc
func NewClientService(deps Dependencies) *ClientSvc {
	return &ClientSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
	}
}

// Create stores a new borrower record
func (s *ClientSvc) Create(ctx context.Context, c *models.Client) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.GroupID != nil {
		if _, err := s.repos.Group.GetByID(ctx, *c.GroupID); err != nil {
			return fmt.Errorf("client group: %w", err)
		}
	}

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.repos.Client.Create(ctx, c); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Infof("Client created: %s passbook=%s branch=%s", c.ID, c.PassbookNumber, c.BranchCode)
	return nil
}

// GetByID gets a client
func (s *ClientSvc) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return s.repos.Client.GetByID(ctx, id)
}

// List lists clients, optionally scoped by branch and group
func (s *ClientSvc) List(ctx context.Context, branchCode string, groupID *uuid.UUID) ([]*models.Client, error) {
	return s.repos.Client.List(ctx, branchCode, groupID)
}

// Update mutates a client record
func (s *ClientSvc) Update(ctx context.Context, c *models.Client) error {
	if err := c.Validate(); err != nil {
		return err
	}

	existing, err := s.repos.Client.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}

	if c.GroupID != nil {
		if _, err := s.repos.Group.GetByID(ctx, *c.GroupID); err != nil {
			return fmt.Errorf("client group: %w", err)
		}
	}

	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()

	return s.repos.Client.Update(ctx, c)
}

// Delete removes a client
func (s *ClientSvc) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.Client.Delete(ctx, id)
}
