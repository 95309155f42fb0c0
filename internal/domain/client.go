package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/nlescano/floordesk/internal/validation"
)

// Client is a person or company the business sells to. Clients are never
// hard-deleted; IsActive flips to false instead.
type Client struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:140"`
	Email       string    `gorm:"size:140;index"`
	Phone       string    `gorm:"size:60"`
	HasCompany  bool
	CompanyName string `gorm:"size:180"`
	TaxID       string `gorm:"size:30"`

	// Architect-flagged clients can be attached to projects as the
	// commissioned architect.
	IsArchitect       bool    `gorm:"index"`
	CommissionPercent float64 `gorm:"type:decimal(5,2);default:0"`

	IsActive  bool `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Client) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", c.Name, v)
	if c.HasCompany {
		validation.Required("company_name", c.CompanyName, v)
	}
	if c.IsArchitect {
		validation.Percent("commission_percent", c.CommissionPercent, v)
	}
	return v
}
