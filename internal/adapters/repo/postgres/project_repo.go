package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nlescano/floordesk/internal/domain"
)

type ProjectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) *ProjectRepo { return &ProjectRepo{db: db} }

func (r *ProjectRepo) Save(ctx context.Context, p *domain.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// FindByID loads the project with its full tree, phases and variants in
// their sibling order.
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Phases", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Phases.Variants", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc") }).
		Preload("Phases.Variants.Rooms").
		Preload("Phases.Variants.Rooms.Lines").
		Preload("Phases.Variants.Rooms.Images").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) List(ctx context.Context, clientID uuid.UUID) ([]domain.Project, error) {
	var list []domain.Project
	q := r.db.WithContext(ctx).Model(&domain.Project{})
	if clientID != uuid.Nil {
		q = q.Where("client_id = ?", clientID)
	}
	if err := q.Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProjectRepo) SavePhase(ctx context.Context, ph *domain.Phase) error {
	return r.db.WithContext(ctx).Save(ph).Error
}

func (r *ProjectRepo) FindPhase(ctx context.Context, id uuid.UUID) (*domain.Phase, error) {
	var ph domain.Phase
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc") }).
		Preload("Variants.Rooms").
		Preload("Variants.Rooms.Lines").
		Preload("Variants.Rooms.Images").
		First(&ph, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &ph, nil
}

func (r *ProjectRepo) SaveVariant(ctx context.Context, v *domain.Variant) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *ProjectRepo) FindVariant(ctx context.Context, id uuid.UUID) (*domain.Variant, error) {
	var v domain.Variant
	err := r.db.WithContext(ctx).
		Preload("Rooms").
		Preload("Rooms.Lines").
		Preload("Rooms.Images").
		First(&v, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// DeleteVariant cascades through rooms, lines, and images in one
// transaction. The caller has already checked offer references.
func (r *ProjectRepo) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var roomIDs []uuid.UUID
		if err := tx.Model(&domain.Room{}).Where("variant_id = ?", id).Pluck("id", &roomIDs).Error; err != nil {
			return err
		}
		if len(roomIDs) > 0 {
			if err := tx.Where("room_id IN ?", roomIDs).Delete(&domain.ProductLine{}).Error; err != nil {
				return err
			}
			if err := tx.Where("room_id IN ?", roomIDs).Delete(&domain.RoomImage{}).Error; err != nil {
				return err
			}
			if err := tx.Where("variant_id = ?", id).Delete(&domain.Room{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&domain.Variant{}, "id = ?", id).Error
	})
}

func (r *ProjectRepo) MaxVariantOrder(ctx context.Context, phaseID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&domain.Variant{}).
		Where("phase_id = ?", phaseID).
		Select("MAX(sort_order)").Scan(&max).Error
	if err != nil {
		return -1, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (r *ProjectRepo) SaveRoom(ctx context.Context, room *domain.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *ProjectRepo) FindRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Images").
		First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *ProjectRepo) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&domain.ProductLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&domain.RoomImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Room{}, "id = ?", id).Error
	})
}

func (r *ProjectRepo) SaveLine(ctx context.Context, l *domain.ProductLine) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *ProjectRepo) DeleteLine(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ProductLine{}, "id = ?", id).Error
}

func (r *ProjectRepo) ProjectOfPhase(ctx context.Context, phaseID uuid.UUID) (uuid.UUID, error) {
	var ph domain.Phase
	if err := r.db.WithContext(ctx).Select("project_id").First(&ph, "id = ?", phaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, domain.ErrNotFound
		}
		return uuid.Nil, err
	}
	return ph.ProjectID, nil
}

func (r *ProjectRepo) ProjectOfVariant(ctx context.Context, variantID uuid.UUID) (uuid.UUID, error) {
	var v domain.Variant
	if err := r.db.WithContext(ctx).Select("phase_id").First(&v, "id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, domain.ErrNotFound
		}
		return uuid.Nil, err
	}
	return r.ProjectOfPhase(ctx, v.PhaseID)
}
