package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nlescano/floordesk/internal/domain"
)

type ClientUC struct {
	Clients domain.ClientRepo
}

func (uc *ClientUC) Create(ctx context.Context, c *domain.Client) error {
	if c == nil {
		return errors.New("client nil")
	}
	if v := c.Validate(); !v.Empty() {
		return domain.NewValidationError(v)
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.IsActive = true
	return uc.Clients.Save(ctx, c)
}

func (uc *ClientUC) Update(ctx context.Context, c *domain.Client) error {
	if c == nil || c.ID == uuid.Nil {
		return errors.New("client id")
	}
	if v := c.Validate(); !v.Empty() {
		return domain.NewValidationError(v)
	}
	return uc.Clients.Save(ctx, c)
}

// Deactivate soft-deletes: clients are never removed, only flagged off.
func (uc *ClientUC) Deactivate(ctx context.Context, id uuid.UUID) error {
	c, err := uc.Clients.FindByID(ctx, id)
	if err != nil {
		return err
	}
	c.IsActive = false
	return uc.Clients.Save(ctx, c)
}

func (uc *ClientUC) Get(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	if id == uuid.Nil {
		return nil, errors.New("client id")
	}
	return uc.Clients.FindByID(ctx, id)
}

func (uc *ClientUC) List(ctx context.Context, includeInactive bool) ([]domain.Client, error) {
	return uc.Clients.List(ctx, includeInactive)
}
