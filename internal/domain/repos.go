package domain

import (
	"context"

	"github.com/google/uuid"
)

type ClientRepo interface {
	Save(ctx context.Context, c *Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	List(ctx context.Context, includeInactive bool) ([]Client, error)
}

type CatalogRepo interface {
	Save(ctx context.Context, p *CatalogProduct) error
	FindByID(ctx context.Context, id uuid.UUID) (*CatalogProduct, error)
	List(ctx context.Context, category string) ([]CatalogProduct, error)
}

// ProjectRepo loads and stores the project tree. Find methods preload the
// full subtree below the requested entity.
type ProjectRepo interface {
	Save(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	List(ctx context.Context, clientID uuid.UUID) ([]Project, error)

	SavePhase(ctx context.Context, ph *Phase) error
	FindPhase(ctx context.Context, id uuid.UUID) (*Phase, error)

	SaveVariant(ctx context.Context, v *Variant) error
	FindVariant(ctx context.Context, id uuid.UUID) (*Variant, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error
	MaxVariantOrder(ctx context.Context, phaseID uuid.UUID) (int, error)

	SaveRoom(ctx context.Context, r *Room) error
	FindRoom(ctx context.Context, id uuid.UUID) (*Room, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error

	SaveLine(ctx context.Context, l *ProductLine) error
	DeleteLine(ctx context.Context, id uuid.UUID) error

	// ProjectOfPhase and ProjectOfVariant resolve lineage for clone
	// policy checks without loading whole trees.
	ProjectOfPhase(ctx context.Context, phaseID uuid.UUID) (uuid.UUID, error)
	ProjectOfVariant(ctx context.Context, variantID uuid.UUID) (uuid.UUID, error)
}

type OfferRepo interface {
	Save(ctx context.Context, o *Offer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Offer, error)
	FindByNumber(ctx context.Context, number string) (*Offer, error)
	List(ctx context.Context, projectID uuid.UUID) ([]Offer, error)

	// ReferencesVariant reports whether any non-terminal offer still
	// includes the variant.
	ReferencesVariant(ctx context.Context, variantID uuid.UUID) (bool, error)
}

// OfferMailer delivers an assembled offer to the client, typically with a
// spreadsheet rendering attached.
type OfferMailer interface {
	SendOffer(to string, snapshot *OfferSnapshot, attachment []byte) error
}
