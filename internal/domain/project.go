package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/nlescano/floordesk/internal/validation"
)

// Project groups the work sold to a single client: phases, each with
// competing variants.
type Project struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null"`
	Client   *Client
	Name     string `gorm:"size:180"`
	Address  string `gorm:"size:255"`
	Notes    string `gorm:"type:text"`

	Architect ArchitectAssociation `gorm:"embedded;embeddedPrefix:architect_"`

	Phases []Phase

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Project) Validate(owner *Client) validation.Violations {
	v := validation.Violations{}
	validation.Required("name", p.Name, v)
	if p.ClientID == uuid.Nil {
		v.Add("client_id", "required")
	}
	for f, reason := range p.Architect.Validate(owner) {
		v[f] = reason
	}
	return v
}

type PhaseStatus string

const (
	PhaseStatusCreated PhaseStatus = "created"
	PhaseStatusQuoted  PhaseStatus = "quoted"
	PhaseStatusWon     PhaseStatus = "won"
	PhaseStatusLost    PhaseStatus = "lost"
)

var phaseTransitions = map[PhaseStatus][]PhaseStatus{
	PhaseStatusCreated: {PhaseStatusQuoted},
	PhaseStatusQuoted:  {PhaseStatusWon, PhaseStatusLost},
}

// CanTransition reports whether next is reachable in one step.
func (s PhaseStatus) CanTransition(next PhaseStatus) bool {
	for _, t := range phaseTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the phase reached won or lost.
func (s PhaseStatus) Terminal() bool {
	return s == PhaseStatusWon || s == PhaseStatusLost
}

// Phase is a distinct stage of work within a project, ordered among its
// siblings.
type Phase struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID   `gorm:"type:uuid;index;not null"`
	Name      string      `gorm:"size:140"`
	Position  int         `gorm:"not null;default:0"`
	Status    PhaseStatus `gorm:"type:varchar(20);index;default:'created'"`

	Variants []Variant

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transition moves the phase to next or reports the conflict.
func (p *Phase) Transition(next PhaseStatus) error {
	if !p.Status.CanTransition(next) {
		return NewConflictError("phase status %s cannot move to %s", p.Status, next)
	}
	p.Status = next
	return nil
}
