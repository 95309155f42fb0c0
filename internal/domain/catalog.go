package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/nlescano/floordesk/internal/validation"
)

// CatalogProduct is an entry in the sales catalog. AreaPriced products
// default a line's quantity to the room area (flooring sold by the m²);
// everything else is quantified by hand.
type CatalogProduct struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"size:180"`
	Category   string    `gorm:"size:100;index"`
	Unit       string    `gorm:"size:20"` // m2, unit, lm
	UnitPrice  float64   `gorm:"type:decimal(12,2)"`
	AreaPriced bool      `gorm:"default:false"`
	Active     bool      `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *CatalogProduct) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", p.Name, v)
	validation.NonNegativeFloat("unit_price", p.UnitPrice, v)
	return v
}
