package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nlescano/floordesk/internal/domain"
)

type ProjectUC struct {
	Projects domain.ProjectRepo
	Clients  domain.ClientRepo
	Catalog  domain.CatalogRepo
	Offers   domain.OfferRepo
}

func (uc *ProjectUC) Create(ctx context.Context, p *domain.Project) error {
	if p == nil {
		return errors.New("project nil")
	}
	owner, err := uc.Clients.FindByID(ctx, p.ClientID)
	if err != nil {
		return err
	}
	if p.Architect.Mode == "" {
		p.Architect = domain.NoArchitect()
	}
	if v := p.Validate(owner); !v.Empty() {
		return domain.NewValidationError(v)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return uc.Projects.Save(ctx, p)
}

func (uc *ProjectUC) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if id == uuid.Nil {
		return nil, errors.New("project id")
	}
	return uc.Projects.FindByID(ctx, id)
}

func (uc *ProjectUC) List(ctx context.Context, clientID uuid.UUID) ([]domain.Project, error) {
	return uc.Projects.List(ctx, clientID)
}

// SetArchitect replaces the project's architect association. The commission
// percentage is copied here, not live-linked to the backing client.
func (uc *ProjectUC) SetArchitect(ctx context.Context, projectID uuid.UUID, assoc domain.ArchitectAssociation) error {
	p, err := uc.Projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	owner, err := uc.Clients.FindByID(ctx, p.ClientID)
	if err != nil {
		return err
	}
	if v := assoc.Validate(owner); !v.Empty() {
		return domain.NewValidationError(v)
	}
	p.Architect = assoc
	return uc.Projects.Save(ctx, p)
}

func (uc *ProjectUC) AddPhase(ctx context.Context, projectID uuid.UUID, name string) (*domain.Phase, error) {
	p, err := uc.Projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	ph := &domain.Phase{
		ID:        uuid.New(),
		ProjectID: p.ID,
		Name:      name,
		Position:  len(p.Phases),
		Status:    domain.PhaseStatusCreated,
	}
	if err := uc.Projects.SavePhase(ctx, ph); err != nil {
		return nil, err
	}
	return ph, nil
}

func (uc *ProjectUC) TransitionPhase(ctx context.Context, phaseID uuid.UUID, next domain.PhaseStatus) (*domain.Phase, error) {
	ph, err := uc.Projects.FindPhase(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	if err := ph.Transition(next); err != nil {
		return nil, err
	}
	if err := uc.Projects.SavePhase(ctx, ph); err != nil {
		return nil, err
	}
	return ph, nil
}

// AddVariant appends a variant at the end of the phase's dense order.
func (uc *ProjectUC) AddVariant(ctx context.Context, phaseID uuid.UUID, v *domain.Variant) error {
	if v == nil {
		return errors.New("variant nil")
	}
	if out := v.Validate(); !out.Empty() {
		return domain.NewValidationError(out)
	}
	max, err := uc.Projects.MaxVariantOrder(ctx, phaseID)
	if err != nil {
		return err
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.PhaseID = phaseID
	v.Order = max + 1
	return uc.Projects.SaveVariant(ctx, v)
}

func (uc *ProjectUC) UpdateVariant(ctx context.Context, v *domain.Variant) error {
	if v == nil || v.ID == uuid.Nil {
		return errors.New("variant id")
	}
	if out := v.Validate(); !out.Empty() {
		return domain.NewValidationError(out)
	}
	return uc.Projects.SaveVariant(ctx, v)
}

// DeleteVariant refuses to remove a variant a non-terminal offer still
// references.
func (uc *ProjectUC) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("variant id")
	}
	referenced, err := uc.Offers.ReferencesVariant(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.NewConflictError("variant %s is referenced by a live offer", id)
	}
	return uc.Projects.DeleteVariant(ctx, id)
}

func (uc *ProjectUC) AddRoom(ctx context.Context, variantID uuid.UUID, r *domain.Room) error {
	if r == nil {
		return errors.New("room nil")
	}
	if out := r.Validate(); !out.Empty() {
		return domain.NewValidationError(out)
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.VariantID = variantID
	return uc.Projects.SaveRoom(ctx, r)
}

type AddLineInput struct {
	RoomID           uuid.UUID
	CatalogProductID uuid.UUID
	Quantity         *float64
	DiscountPct      *float64
	WastePct         *float64
}

// AddLine copies the catalog product's identity and unit price onto the new
// line, the same way an order item freezes its price at purchase time.
func (uc *ProjectUC) AddLine(ctx context.Context, in AddLineInput) (*domain.ProductLine, error) {
	room, err := uc.Projects.FindRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	cp, err := uc.Catalog.FindByID(ctx, in.CatalogProductID)
	if err != nil {
		return nil, err
	}
	line := &domain.ProductLine{
		ID:               uuid.New(),
		RoomID:           room.ID,
		CatalogProductID: cp.ID,
		ProductName:      cp.Name,
		Category:         cp.Category,
		CatalogUnitPrice: cp.UnitPrice,
		AreaPriced:       cp.AreaPriced,
		Quantity:         in.Quantity,
		DiscountPct:      in.DiscountPct,
		WastePct:         in.WastePct,
	}
	if out := line.Validate(); !out.Empty() {
		return nil, domain.NewValidationError(out)
	}
	if err := uc.Projects.SaveLine(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}
