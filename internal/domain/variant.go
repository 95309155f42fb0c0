package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/nlescano/floordesk/internal/validation"
)

// Variant is one alternative design/material proposal within a phase. Its
// Order is unique and dense among siblings; clones always append at the end.
type Variant struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	PhaseID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name    string    `gorm:"size:140"`
	Order   int       `gorm:"column:sort_order;not null;default:0"`

	// IncludeInOffer has no column default on purpose: gorm omits
	// zero-valued fields carrying a default tag on insert, which would
	// silently flip an excluded variant back to included.
	IncludeInOffer bool

	// DiscountPct is a variant-level discount override inherited by rooms
	// and lines that do not set their own.
	DiscountPct *float64 `gorm:"type:decimal(5,2)"`

	Rooms []Room

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v *Variant) Validate() validation.Violations {
	out := validation.Violations{}
	validation.Required("name", v.Name, out)
	if v.DiscountPct != nil {
		validation.Percent("discount_pct", *v.DiscountPct, out)
	}
	return out
}

// Room belongs to one variant and carries the floor area its product lines
// default their quantity to.
type Room struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	VariantID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"size:140"`
	Area      float64   `gorm:"type:decimal(10,2);default:0"`

	DiscountPct *float64 `gorm:"type:decimal(5,2)"`
	WastePct    *float64 `gorm:"type:decimal(5,2)"`

	Images []RoomImage
	Lines  []ProductLine

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Room) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", r.Name, v)
	validation.NonNegativeFloat("area", r.Area, v)
	if r.DiscountPct != nil {
		validation.Percent("discount_pct", *r.DiscountPct, v)
	}
	if r.WastePct != nil {
		validation.Percent("waste_pct", *r.WastePct, v)
	}
	return v
}

// RoomImage is an opaque attachment; pricing never reads it.
type RoomImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID    uuid.UUID `gorm:"type:uuid;index;not null"`
	URL       string    `gorm:"size:255"`
	Alt       string    `gorm:"size:140"`
	CreatedAt time.Time
}

// ProductLine is one billed catalog product inside a room. Catalog identity
// and unit price are copied onto the line at creation time.
type ProductLine struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID uuid.UUID `gorm:"type:uuid;index;not null"`

	CatalogProductID uuid.UUID `gorm:"type:uuid;index"`
	ProductName      string    `gorm:"size:180"`
	Category         string    `gorm:"size:100"`
	CatalogUnitPrice float64   `gorm:"type:decimal(12,2)"`
	AreaPriced       bool      `gorm:"default:false"`

	// Quantity nil means "derive from the room": the room area for
	// area-priced products, zero otherwise.
	Quantity    *float64 `gorm:"type:decimal(10,3)"`
	DiscountPct *float64 `gorm:"type:decimal(5,2)"`
	WastePct    *float64 `gorm:"type:decimal(5,2)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l *ProductLine) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("product_name", l.ProductName, v)
	validation.NonNegativeFloat("catalog_unit_price", l.CatalogUnitPrice, v)
	if l.Quantity != nil {
		validation.NonNegativeFloat("quantity", *l.Quantity, v)
	}
	if l.DiscountPct != nil {
		validation.Percent("discount_pct", *l.DiscountPct, v)
	}
	if l.WastePct != nil {
		validation.Percent("waste_pct", *l.WastePct, v)
	}
	return v
}
