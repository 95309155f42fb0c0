package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nlescano/floordesk/internal/domain"
)

// CloneUC drives the clone engine: it resolves source and target, enforces
// the same-project policy the engine itself stays agnostic about, and
// persists the fabricated subtree.
type CloneUC struct {
	Projects domain.ProjectRepo
}

type CloneRoomInput struct {
	SourceRoomID    uuid.UUID
	TargetVariantID uuid.UUID
	IncludeProducts bool
	// ProductIDs, when non-empty, restricts copied lines to this subset of
	// source line ids.
	ProductIDs []uuid.UUID
}

func (uc *CloneUC) CloneRoom(ctx context.Context, in CloneRoomInput) (*domain.Room, error) {
	if in.SourceRoomID == uuid.Nil || in.TargetVariantID == uuid.Nil {
		return nil, errors.New("clone ids")
	}
	src, err := uc.Projects.FindRoom(ctx, in.SourceRoomID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewStructuralError("clone source room %s does not exist", in.SourceRoomID)
		}
		return nil, err
	}
	target, err := uc.Projects.FindVariant(ctx, in.TargetVariantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewStructuralError("clone target variant %s does not exist", in.TargetVariantID)
		}
		return nil, err
	}
	if err := uc.sameProject(ctx, src.VariantID, target.ID); err != nil {
		return nil, err
	}

	var filter map[uuid.UUID]struct{}
	if len(in.ProductIDs) > 0 {
		filter = make(map[uuid.UUID]struct{}, len(in.ProductIDs))
		for _, id := range in.ProductIDs {
			filter[id] = struct{}{}
		}
	}
	clone, err := domain.CloneRoom(src, target, in.IncludeProducts, filter)
	if err != nil {
		return nil, err
	}
	if err := uc.Projects.SaveRoom(ctx, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

type CloneVariantInput struct {
	SourceVariantID uuid.UUID
	TargetPhaseID   uuid.UUID
	IncludeRooms    bool
}

func (uc *CloneUC) CloneVariant(ctx context.Context, in CloneVariantInput) (*domain.Variant, error) {
	if in.SourceVariantID == uuid.Nil || in.TargetPhaseID == uuid.Nil {
		return nil, errors.New("clone ids")
	}
	if in.SourceVariantID == in.TargetPhaseID {
		return nil, domain.NewStructuralError("clone source and target are the same entity")
	}
	src, err := uc.Projects.FindVariant(ctx, in.SourceVariantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewStructuralError("clone source variant %s does not exist", in.SourceVariantID)
		}
		return nil, err
	}
	target, err := uc.Projects.FindPhase(ctx, in.TargetPhaseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewStructuralError("clone target phase %s does not exist", in.TargetPhaseID)
		}
		return nil, err
	}

	srcProject, err := uc.Projects.ProjectOfVariant(ctx, src.ID)
	if err != nil {
		return nil, err
	}
	if srcProject != target.ProjectID {
		return nil, domain.NewConflictError("clone target phase belongs to a different project")
	}

	clone, err := domain.CloneVariant(src, target, in.IncludeRooms)
	if err != nil {
		return nil, err
	}
	if err := uc.Projects.SaveVariant(ctx, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

func (uc *CloneUC) sameProject(ctx context.Context, sourceVariantID, targetVariantID uuid.UUID) error {
	srcProject, err := uc.Projects.ProjectOfVariant(ctx, sourceVariantID)
	if err != nil {
		return err
	}
	dstProject, err := uc.Projects.ProjectOfVariant(ctx, targetVariantID)
	if err != nil {
		return err
	}
	if srcProject != dstProject {
		return domain.NewConflictError("clone target belongs to a different project")
	}
	return nil
}
