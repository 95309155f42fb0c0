package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nlescano/floordesk/internal/domain"
)

type ClientRepo struct{ db *gorm.DB }

func NewClientRepo(db *gorm.DB) *ClientRepo { return &ClientRepo{db: db} }

func (r *ClientRepo) Save(ctx context.Context, c *domain.Client) error {
	if c.Email != "" {
		c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	}
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ClientRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var c domain.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepo) List(ctx context.Context, includeInactive bool) ([]domain.Client, error) {
	var list []domain.Client
	q := r.db.WithContext(ctx).Model(&domain.Client{})
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
