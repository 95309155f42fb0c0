package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nlescano/floordesk/internal/domain"
)

type OfferRepo struct{ db *gorm.DB }

func NewOfferRepo(db *gorm.DB) *OfferRepo { return &OfferRepo{db: db} }

func (r *OfferRepo) Save(ctx context.Context, o *domain.Offer) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OfferRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	var o domain.Offer
	if err := r.db.WithContext(ctx).Preload("Variants").First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OfferRepo) FindByNumber(ctx context.Context, number string) (*domain.Offer, error) {
	var o domain.Offer
	if err := r.db.WithContext(ctx).Preload("Variants").First(&o, "offer_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OfferRepo) List(ctx context.Context, projectID uuid.UUID) ([]domain.Offer, error) {
	var list []domain.Offer
	q := r.db.WithContext(ctx).Model(&domain.Offer{}).Preload("Variants")
	if projectID != uuid.Nil {
		q = q.Where("project_id = ?", projectID)
	}
	if err := q.Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ReferencesVariant reports whether the variant appears in any offer whose
// status can still move, i.e. not accepted, rejected, or expired.
func (r *OfferRepo) ReferencesVariant(ctx context.Context, variantID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.OfferVariant{}).
		Joins("JOIN offers ON offers.id = offer_variants.offer_id").
		Where("offer_variants.variant_id = ?", variantID).
		Where("offers.status NOT IN ?", []domain.OfferStatus{
			domain.OfferStatusAccepted, domain.OfferStatusRejected, domain.OfferStatusExpired,
		}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
