// Package pricing holds the pure calculation core: quantity and override
// resolution, line and rollup totals, and architect commission. Every
// function is stateless and assumes already-validated input (percentages in
// [0,100], non-negative quantities and prices).
package pricing

import (
	"math"

	"github.com/nlescano/floordesk/internal/domain"
)

// Round2 rounds a monetary value to 2 decimals, half-up. It is applied once
// per line total and once per rollup, never on intermediate unit prices.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Resolved carries the effective discount and waste percentages for a line.
type Resolved struct {
	DiscountPct float64
	WastePct    float64
}

// ResolveOverrides walks line > room > variant and takes the most specific
// value for each percentage independently: a line may inherit waste from
// its room while overriding discount itself. Unset everywhere means 0.
// Variants carry no waste override, so the waste chain is line > room > 0.
func ResolveOverrides(line *domain.ProductLine, room *domain.Room, variant *domain.Variant) Resolved {
	var r Resolved
	switch {
	case line != nil && line.DiscountPct != nil:
		r.DiscountPct = *line.DiscountPct
	case room != nil && room.DiscountPct != nil:
		r.DiscountPct = *room.DiscountPct
	case variant != nil && variant.DiscountPct != nil:
		r.DiscountPct = *variant.DiscountPct
	}
	switch {
	case line != nil && line.WastePct != nil:
		r.WastePct = *line.WastePct
	case room != nil && room.WastePct != nil:
		r.WastePct = *room.WastePct
	}
	return r
}

// ResolveQuantity returns the billed base quantity for a line: an explicit
// quantity wins; otherwise area-priced products default to the room area
// and everything else to 0.
func ResolveQuantity(line *domain.ProductLine, room *domain.Room) float64 {
	if line.Quantity != nil {
		return *line.Quantity
	}
	if line.AreaPriced && room != nil {
		return room.Area
	}
	return 0
}

// LineResult is the priced outcome of a single product line.
type LineResult struct {
	EffectiveQuantity float64
	FinalUnitPrice    float64
	LineTotal         float64
}

// ComputeLine prices one line. Waste inflates the billed quantity (material
// cut loss), discount deflates the unit price; rounding happens once, at
// the line total.
func ComputeLine(quantity, catalogUnitPrice, discountPct, wastePct float64) LineResult {
	eq := quantity * (1 + wastePct/100)
	fup := catalogUnitPrice * (1 - discountPct/100)
	return LineResult{
		EffectiveQuantity: eq,
		FinalUnitPrice:    fup,
		LineTotal:         Round2(eq * fup),
	}
}

// ComputeLineIn resolves quantity and overrides from the hierarchy and
// prices the line.
func ComputeLineIn(line *domain.ProductLine, room *domain.Room, variant *domain.Variant) LineResult {
	res := ResolveOverrides(line, room, variant)
	qty := ResolveQuantity(line, room)
	return ComputeLine(qty, line.CatalogUnitPrice, res.DiscountPct, res.WastePct)
}

// ComputeRoomTotal sums the room's line totals. A room with no lines
// contributes 0.
func ComputeRoomTotal(room *domain.Room, variant *domain.Variant) float64 {
	var sum float64
	for i := range room.Lines {
		sum += ComputeLineIn(&room.Lines[i], room, variant).LineTotal
	}
	return Round2(sum)
}

// ComputeVariantTotal sums the variant's room totals.
func ComputeVariantTotal(variant *domain.Variant) float64 {
	var sum float64
	for i := range variant.Rooms {
		sum += ComputeRoomTotal(&variant.Rooms[i], variant)
	}
	return Round2(sum)
}

// ComputeOfferTotal naively sums variant totals. Filtering variants down to
// the included set is the assembler's job, not the calculator's.
func ComputeOfferTotal(variants []domain.Variant) float64 {
	var sum float64
	for i := range variants {
		sum += ComputeVariantTotal(&variants[i])
	}
	return Round2(sum)
}

// ComputeCommission derives the architect's commission from an offer or
// project total. Callers must not invoke it when no architect applies: "no
// architect" and "0% architect" stay distinguishable in output.
func ComputeCommission(total, commissionPct float64) float64 {
	return Round2(total * commissionPct / 100)
}
