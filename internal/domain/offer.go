package domain

import (
	"time"

	"github.com/google/uuid"
)

type OfferStatus string

const (
	OfferStatusDraft    OfferStatus = "draft"
	OfferStatusSent     OfferStatus = "sent"
	OfferStatusViewed   OfferStatus = "viewed"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
	OfferStatusExpired  OfferStatus = "expired"
)

// sent → sent is a resend; it is the only self-transition and the only one
// that bumps SentCount besides draft → sent.
var offerTransitions = map[OfferStatus][]OfferStatus{
	OfferStatusDraft:  {OfferStatusSent},
	OfferStatusSent:   {OfferStatusSent, OfferStatusViewed, OfferStatusExpired},
	OfferStatusViewed: {OfferStatusAccepted, OfferStatusRejected},
}

func (s OfferStatus) CanTransition(next OfferStatus) bool {
	for _, t := range offerTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition exists from s.
func (s OfferStatus) Terminal() bool {
	return len(offerTransitions[s]) == 0
}

// Offer is the persisted snapshot of selected variants sent to a client. It
// references variants but does not own them.
type Offer struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID  `gorm:"type:uuid;index;not null"`
	PhaseID   *uuid.UUID `gorm:"type:uuid;index"`

	// OfferNumber is human-assigned and unique across all offers.
	OfferNumber string      `gorm:"size:60;uniqueIndex;not null"`
	Status      OfferStatus `gorm:"type:varchar(20);index;default:'draft'"`
	SentCount   int         `gorm:"not null;default:0"`

	Variants []OfferVariant

	GrandTotal       float64  `gorm:"type:decimal(14,2)"`
	CommissionPct    *float64 `gorm:"type:decimal(5,2)"`
	CommissionAmount *float64 `gorm:"type:decimal(14,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transition moves the offer to next, bumping SentCount on send. Illegal
// moves are conflicts; SentCount never decrements.
func (o *Offer) Transition(next OfferStatus) error {
	if !o.Status.CanTransition(next) {
		return NewConflictError("offer status %s cannot move to %s", o.Status, next)
	}
	if next == OfferStatusSent {
		o.SentCount++
	}
	o.Status = next
	return nil
}

// OfferVariant records one included variant with its total frozen at
// assembly time.
type OfferVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OfferID   uuid.UUID `gorm:"type:uuid;index;not null"`
	VariantID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"size:140"`
	Total     float64   `gorm:"type:decimal(14,2)"`
}

// OfferSnapshot is the fully computed, in-memory representation of an offer
// at one point in time. Commission stays a separate labeled figure, never
// folded into the line totals, and is nil when no architect applies.
type OfferSnapshot struct {
	OfferNumber string           `json:"offer_number"`
	ProjectID   uuid.UUID        `json:"project_id"`
	PhaseID     *uuid.UUID       `json:"phase_id,omitempty"`
	Variants    []VariantSummary `json:"variants"`
	GrandTotal  float64          `json:"grand_total"`
	Commission  *CommissionInfo  `json:"commission,omitempty"`
}

type VariantSummary struct {
	VariantID uuid.UUID     `json:"variant_id"`
	Name      string        `json:"name"`
	Rooms     []RoomSummary `json:"rooms"`
	Total     float64       `json:"total"`
}

type RoomSummary struct {
	RoomID uuid.UUID     `json:"room_id"`
	Name   string        `json:"name"`
	Area   float64       `json:"area"`
	Lines  []LineSummary `json:"lines"`
	Total  float64       `json:"total"`
}

type LineSummary struct {
	LineID            uuid.UUID `json:"line_id"`
	ProductName       string    `json:"product_name"`
	Quantity          float64   `json:"quantity"`
	EffectiveQuantity float64   `json:"effective_quantity"`
	DiscountPct       float64   `json:"discount_pct"`
	WastePct          float64   `json:"waste_pct"`
	FinalUnitPrice    float64   `json:"final_unit_price"`
	Total             float64   `json:"total"`
}

type CommissionInfo struct {
	Mode   ArchitectMode `json:"mode"`
	Name   string        `json:"name,omitempty"`
	Pct    float64       `json:"pct"`
	Amount float64       `json:"amount"`
}
