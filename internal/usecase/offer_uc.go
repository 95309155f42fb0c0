package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nlescano/floordesk/internal/domain"
	"github.com/nlescano/floordesk/internal/pricing"
)

// OfferRenderer turns a snapshot into an attachment for the send action.
type OfferRenderer interface {
	Render(snapshot *domain.OfferSnapshot) ([]byte, error)
}

type OfferUC struct {
	Projects domain.ProjectRepo
	Offers   domain.OfferRepo
	Clients  domain.ClientRepo
	Mailer   domain.OfferMailer
	Renderer OfferRenderer
}

type AssembleInput struct {
	ProjectID   uuid.UUID
	PhaseID     *uuid.UUID
	OfferNumber string
	VariantIDs  []uuid.UUID
}

// Assemble computes the offer snapshot for the selected variants without
// persisting anything. The selection is intersected with the variants
// flagged includeInOffer; commission is attached as a separate figure.
func (uc *OfferUC) Assemble(ctx context.Context, in AssembleInput) (*domain.OfferSnapshot, error) {
	p, err := uc.Projects.FindByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	return uc.snapshot(p, in)
}

// Create assembles and persists a new draft offer. The offer number must be
// unique across all offers; a duplicate is a conflict, never auto-suffixed.
// The storage layer backs this check with a unique index so the read and
// the write stay consistent under concurrent creates.
func (uc *OfferUC) Create(ctx context.Context, in AssembleInput) (*domain.Offer, error) {
	number := strings.TrimSpace(in.OfferNumber)
	if number == "" {
		return nil, errors.New("offer number")
	}
	in.OfferNumber = number

	if _, err := uc.Offers.FindByNumber(ctx, number); err == nil {
		return nil, domain.NewConflictError("offer number %q already exists", number)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	snap, err := uc.Assemble(ctx, in)
	if err != nil {
		return nil, err
	}

	offer := &domain.Offer{
		ID:          uuid.New(),
		ProjectID:   snap.ProjectID,
		PhaseID:     snap.PhaseID,
		OfferNumber: snap.OfferNumber,
		Status:      domain.OfferStatusDraft,
		GrandTotal:  snap.GrandTotal,
	}
	for _, v := range snap.Variants {
		offer.Variants = append(offer.Variants, domain.OfferVariant{
			ID:        uuid.New(),
			OfferID:   offer.ID,
			VariantID: v.VariantID,
			Name:      v.Name,
			Total:     v.Total,
		})
	}
	if snap.Commission != nil {
		pct := snap.Commission.Pct
		amount := snap.Commission.Amount
		offer.CommissionPct = &pct
		offer.CommissionAmount = &amount
	}
	if err := uc.Offers.Save(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (uc *OfferUC) Get(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	if id == uuid.Nil {
		return nil, errors.New("offer id")
	}
	return uc.Offers.FindByID(ctx, id)
}

func (uc *OfferUC) List(ctx context.Context, projectID uuid.UUID) ([]domain.Offer, error) {
	return uc.Offers.List(ctx, projectID)
}

// Transition applies one status change. Send transitions go through Send so
// the side effects stay together.
func (uc *OfferUC) Transition(ctx context.Context, id uuid.UUID, next domain.OfferStatus) (*domain.Offer, error) {
	o, err := uc.Offers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.Transition(next); err != nil {
		return nil, err
	}
	if err := uc.Offers.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Send recomputes the snapshot from the referenced variants' current data,
// moves the offer to sent (bumping sentCount), and mails the rendered
// snapshot to the client.
func (uc *OfferUC) Send(ctx context.Context, id uuid.UUID, to string) (*domain.Offer, error) {
	o, err := uc.Offers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := uc.snapshotForOffer(ctx, o)
	if err != nil {
		return nil, err
	}
	if err := o.Transition(domain.OfferStatusSent); err != nil {
		return nil, err
	}
	o.GrandTotal = snap.GrandTotal
	if snap.Commission != nil {
		pct := snap.Commission.Pct
		amount := snap.Commission.Amount
		o.CommissionPct = &pct
		o.CommissionAmount = &amount
	} else {
		o.CommissionPct = nil
		o.CommissionAmount = nil
	}
	if err := uc.Offers.Save(ctx, o); err != nil {
		return nil, err
	}

	if to == "" {
		p, err := uc.Projects.FindByID(ctx, o.ProjectID)
		if err == nil {
			if c, err := uc.Clients.FindByID(ctx, p.ClientID); err == nil {
				to = c.Email
			}
		}
	}
	if uc.Mailer == nil || to == "" {
		log.Warn().Str("offer", o.OfferNumber).Msg("mailer not configured, skipping offer email")
		return o, nil
	}
	var attachment []byte
	if uc.Renderer != nil {
		attachment, err = uc.Renderer.Render(snap)
		if err != nil {
			return nil, err
		}
	}
	if err := uc.Mailer.SendOffer(to, snap, attachment); err != nil {
		log.Error().Err(err).Str("offer", o.OfferNumber).Msg("offer email send")
		return nil, err
	}
	return o, nil
}

// Snapshot rebuilds the current snapshot for a stored offer.
func (uc *OfferUC) Snapshot(ctx context.Context, id uuid.UUID) (*domain.OfferSnapshot, error) {
	o, err := uc.Offers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.snapshotForOffer(ctx, o)
}

// snapshotForOffer rebuilds the snapshot for a stored offer from the
// variants it references. Totals are always recomputed, never read back
// stale from storage.
func (uc *OfferUC) snapshotForOffer(ctx context.Context, o *domain.Offer) (*domain.OfferSnapshot, error) {
	ids := make([]uuid.UUID, 0, len(o.Variants))
	for _, v := range o.Variants {
		ids = append(ids, v.VariantID)
	}
	return uc.Assemble(ctx, AssembleInput{
		ProjectID:   o.ProjectID,
		PhaseID:     o.PhaseID,
		OfferNumber: o.OfferNumber,
		VariantIDs:  ids,
	})
}

func (uc *OfferUC) snapshot(p *domain.Project, in AssembleInput) (*domain.OfferSnapshot, error) {
	selected := make(map[uuid.UUID]struct{}, len(in.VariantIDs))
	for _, id := range in.VariantIDs {
		selected[id] = struct{}{}
	}

	snap := &domain.OfferSnapshot{
		OfferNumber: in.OfferNumber,
		ProjectID:   p.ID,
		PhaseID:     in.PhaseID,
	}

	var grand float64
	for pi := range p.Phases {
		ph := &p.Phases[pi]
		if in.PhaseID != nil && ph.ID != *in.PhaseID {
			continue
		}
		for vi := range ph.Variants {
			v := &ph.Variants[vi]
			if _, ok := selected[v.ID]; !ok {
				continue
			}
			// Exclusion happens here, at the assembly boundary: the
			// calculators below sum whatever they are handed.
			if !v.IncludeInOffer {
				continue
			}
			snap.Variants = append(snap.Variants, summarizeVariant(v))
			grand += snap.Variants[len(snap.Variants)-1].Total
		}
	}
	snap.GrandTotal = pricing.Round2(grand)

	if pct, ok := p.Architect.Percent(); ok {
		snap.Commission = &domain.CommissionInfo{
			Mode:   p.Architect.Mode,
			Name:   p.Architect.Name,
			Pct:    pct,
			Amount: pricing.ComputeCommission(snap.GrandTotal, pct),
		}
	}
	return snap, nil
}

func summarizeVariant(v *domain.Variant) domain.VariantSummary {
	out := domain.VariantSummary{VariantID: v.ID, Name: v.Name}
	for ri := range v.Rooms {
		r := &v.Rooms[ri]
		rs := domain.RoomSummary{RoomID: r.ID, Name: r.Name, Area: r.Area}
		for li := range r.Lines {
			l := &r.Lines[li]
			res := pricing.ResolveOverrides(l, r, v)
			qty := pricing.ResolveQuantity(l, r)
			lr := pricing.ComputeLine(qty, l.CatalogUnitPrice, res.DiscountPct, res.WastePct)
			rs.Lines = append(rs.Lines, domain.LineSummary{
				LineID:            l.ID,
				ProductName:       l.ProductName,
				Quantity:          qty,
				EffectiveQuantity: lr.EffectiveQuantity,
				DiscountPct:       res.DiscountPct,
				WastePct:          res.WastePct,
				FinalUnitPrice:    lr.FinalUnitPrice,
				Total:             lr.LineTotal,
			})
		}
		rs.Total = pricing.ComputeRoomTotal(r, v)
		out.Rooms = append(out.Rooms, rs)
	}
	out.Total = pricing.ComputeVariantTotal(v)
	return out
}
