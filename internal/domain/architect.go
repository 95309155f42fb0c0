package domain

import (
	"github.com/google/uuid"

	"github.com/nlescano/floordesk/internal/validation"
)

// ArchitectMode says how, if at all, an architect is attached to a project.
type ArchitectMode string

const (
	// ArchitectNone means no commission applies to the project.
	ArchitectNone ArchitectMode = "none"
	// ArchitectClient means the project's own client acts as the architect.
	ArchitectClient ArchitectMode = "client"
	// ArchitectExternal means an independent architect is stored on the
	// project itself, optionally backed by a separate client record.
	ArchitectExternal ArchitectMode = "external"
)

// ArchitectAssociation is the tagged union of the three architect modes.
// The commission percentage is copied at assignment time, not live-linked
// to the backing client, and may be overridden per project.
type ArchitectAssociation struct {
	Mode     ArchitectMode `gorm:"size:10;default:'none'" json:"mode"`
	ClientID *uuid.UUID    `gorm:"type:uuid" json:"client_id,omitempty"`
	Name     string        `gorm:"size:140" json:"name,omitempty"`
	Phone    string        `gorm:"size:60" json:"phone,omitempty"`
	Email    string        `gorm:"size:140" json:"email,omitempty"`

	// CommissionPct is nil exactly when Mode is none. A zero value with an
	// external or client mode is a real 0% commission, not "no architect".
	CommissionPct *float64 `gorm:"type:decimal(5,2)" json:"commission_pct,omitempty"`
}

// NoArchitect returns the association for a project without commission.
func NoArchitect() ArchitectAssociation {
	return ArchitectAssociation{Mode: ArchitectNone}
}

// ArchitectFromClient copies the owning client's commission percentage at
// assignment time. Pass override to replace the copied percentage.
func ArchitectFromClient(owner *Client, override *float64) ArchitectAssociation {
	pct := owner.CommissionPercent
	if override != nil {
		pct = *override
	}
	id := owner.ID
	return ArchitectAssociation{
		Mode:          ArchitectClient,
		ClientID:      &id,
		Name:          owner.Name,
		Phone:         owner.Phone,
		Email:         owner.Email,
		CommissionPct: &pct,
	}
}

// ExternalArchitect builds an external association from identity fields
// stored directly on the project.
func ExternalArchitect(name, phone, email string, commissionPct float64) ArchitectAssociation {
	return ArchitectAssociation{
		Mode:          ArchitectExternal,
		Name:          name,
		Phone:         phone,
		Email:         email,
		CommissionPct: &commissionPct,
	}
}

// Applicable reports whether a commission figure exists for the project at
// all. Mode none is "not applicable", never a zero-commission line.
func (a ArchitectAssociation) Applicable() bool {
	return a.Mode == ArchitectClient || a.Mode == ArchitectExternal
}

// Percent returns the effective commission percentage and whether one
// applies.
func (a ArchitectAssociation) Percent() (float64, bool) {
	if !a.Applicable() || a.CommissionPct == nil {
		return 0, false
	}
	return *a.CommissionPct, true
}

// Validate checks mode-dependent invariants. For mode client, owner must be
// the project's owning client record.
func (a ArchitectAssociation) Validate(owner *Client) validation.Violations {
	v := validation.Violations{}
	switch a.Mode {
	case ArchitectNone:
		if a.CommissionPct != nil {
			v.Add("architect.commission_pct", "not_applicable")
		}
	case ArchitectClient:
		if a.ClientID == nil {
			v.Add("architect.client_id", "required")
		}
		if owner == nil || (a.ClientID != nil && *a.ClientID != owner.ID) {
			v.Add("architect.client_id", "must_be_owning_client")
		} else if !owner.IsArchitect {
			v.Add("architect.client_id", "client_not_architect")
		}
		if a.CommissionPct == nil {
			v.Add("architect.commission_pct", "required")
		} else {
			validation.Percent("architect.commission_pct", *a.CommissionPct, v)
		}
	case ArchitectExternal:
		validation.Required("architect.name", a.Name, v)
		if a.CommissionPct == nil {
			v.Add("architect.commission_pct", "required")
		} else {
			validation.Percent("architect.commission_pct", *a.CommissionPct, v)
		}
	default:
		v.Add("architect.mode", "unknown")
	}
	return v
}
