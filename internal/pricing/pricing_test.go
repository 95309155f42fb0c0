package pricing

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/nlescano/floordesk/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func fp(v float64) *float64 { return &v }

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"no fraction", 100, 100},
		{"two decimals kept", 12.34, 12.34},
		{"rounds down", 1.234, 1.23},
		{"rounds up", 1.236, 1.24},
		{"half rounds up", 1.875, 1.88},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round2(tt.in); got != tt.want {
				t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name        string
		quantity    float64
		unitPrice   float64
		discountPct float64
		wastePct    float64
		wantEQ      float64
		wantFUP     float64
		wantTotal   float64
	}{
		{"plain multiplication", 10, 100, 0, 0, 10, 100, 1000},
		{"discount only", 2, 50, 10, 0, 2, 45, 90},
		{"waste inflates quantity", 10, 10, 0, 20, 12, 10, 120},
		{"discount and waste combined", 10, 100, 10, 10, 11, 90, 990},
		{"zero quantity", 0, 45.50, 5, 15, 0, 43.225, 0},
		{"full discount", 4, 25, 100, 0, 4, 0, 0},
		{"cent prices", 3, 19.99, 0, 0, 3, 19.99, 59.97},
		// 25.5 m² room, waste 15%: 29.325 × 45.50 = 1334.2875 → 1334.29
		{"area room with waste", 25.5, 45.50, 0, 15, 29.325, 45.50, 1334.29},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLine(tt.quantity, tt.unitPrice, tt.discountPct, tt.wastePct)
			if !almostEqual(got.EffectiveQuantity, tt.wantEQ) {
				t.Errorf("EffectiveQuantity = %v, want %v", got.EffectiveQuantity, tt.wantEQ)
			}
			if !almostEqual(got.FinalUnitPrice, tt.wantFUP) {
				t.Errorf("FinalUnitPrice = %v, want %v", got.FinalUnitPrice, tt.wantFUP)
			}
			if got.LineTotal != tt.wantTotal {
				t.Errorf("LineTotal = %v, want %v", got.LineTotal, tt.wantTotal)
			}
		})
	}
}

func TestComputeLineMonotonicity(t *testing.T) {
	base := ComputeLine(10, 100, 10, 10)

	if got := ComputeLine(11, 100, 10, 10); got.LineTotal < base.LineTotal {
		t.Errorf("total decreased when quantity grew: %v < %v", got.LineTotal, base.LineTotal)
	}
	if got := ComputeLine(10, 110, 10, 10); got.LineTotal < base.LineTotal {
		t.Errorf("total decreased when price grew: %v < %v", got.LineTotal, base.LineTotal)
	}
	if got := ComputeLine(10, 100, 20, 10); got.LineTotal > base.LineTotal {
		t.Errorf("total increased when discount grew: %v > %v", got.LineTotal, base.LineTotal)
	}
	if got := ComputeLine(10, 100, 10, 20); got.LineTotal < base.LineTotal {
		t.Errorf("total decreased when waste grew: %v < %v", got.LineTotal, base.LineTotal)
	}
}

func TestComputeLineIdempotent(t *testing.T) {
	inputs := [][4]float64{
		{25.5, 45.50, 0, 15},
		{3, 19.99, 12.5, 0},
		{100, 9.60, 0, 0},
	}
	for _, in := range inputs {
		first := ComputeLine(in[0], in[1], in[2], in[3])
		second := ComputeLine(in[0], in[1], in[2], in[3])
		if first.LineTotal != second.LineTotal {
			t.Errorf("ComputeLine drifted on repeat: %v vs %v", first.LineTotal, second.LineTotal)
		}
		if Round2(first.LineTotal) != first.LineTotal {
			t.Errorf("LineTotal %v not stable under Round2", first.LineTotal)
		}
	}
}

func TestResolveOverrides(t *testing.T) {
	variant := &domain.Variant{DiscountPct: fp(5)}
	tests := []struct {
		name     string
		line     *domain.ProductLine
		room     *domain.Room
		wantDisc float64
		wantWst  float64
	}{
		{"all unset inherits variant discount", &domain.ProductLine{}, &domain.Room{}, 5, 0},
		{"room overrides variant", &domain.ProductLine{}, &domain.Room{DiscountPct: fp(10)}, 10, 0},
		{"line overrides room and variant", &domain.ProductLine{DiscountPct: fp(2)}, &domain.Room{DiscountPct: fp(10)}, 2, 0},
		{"room waste inherited", &domain.ProductLine{}, &domain.Room{WastePct: fp(15)}, 5, 15},
		{"line waste overrides room", &domain.ProductLine{WastePct: fp(8)}, &domain.Room{WastePct: fp(15)}, 5, 8},
		{"discount and waste resolve independently", &domain.ProductLine{DiscountPct: fp(3)}, &domain.Room{DiscountPct: fp(10), WastePct: fp(15)}, 3, 15},
		{"explicit zero is an override", &domain.ProductLine{DiscountPct: fp(0)}, &domain.Room{DiscountPct: fp(10)}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveOverrides(tt.line, tt.room, variant)
			if got.DiscountPct != tt.wantDisc {
				t.Errorf("DiscountPct = %v, want %v", got.DiscountPct, tt.wantDisc)
			}
			if got.WastePct != tt.wantWst {
				t.Errorf("WastePct = %v, want %v", got.WastePct, tt.wantWst)
			}
		})
	}
}

func TestResolveQuantity(t *testing.T) {
	room := &domain.Room{Area: 25.5}
	tests := []struct {
		name string
		line *domain.ProductLine
		want float64
	}{
		{"area priced defaults to room area", &domain.ProductLine{AreaPriced: true}, 25.5},
		{"non area priced defaults to zero", &domain.ProductLine{}, 0},
		{"explicit quantity wins over area", &domain.ProductLine{AreaPriced: true, Quantity: fp(12)}, 12},
		{"explicit quantity on unit product", &domain.ProductLine{Quantity: fp(4)}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveQuantity(tt.line, room); got != tt.want {
				t.Errorf("ResolveQuantity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeRoomTotal(t *testing.T) {
	variant := &domain.Variant{}
	room := &domain.Room{
		Area: 20,
		Lines: []domain.ProductLine{
			{Quantity: fp(2), CatalogUnitPrice: 100},
			{Quantity: fp(3), CatalogUnitPrice: 10},
		},
	}
	if got := ComputeRoomTotal(room, variant); got != 230 {
		t.Errorf("ComputeRoomTotal = %v, want 230", got)
	}

	empty := &domain.Room{Area: 50}
	if got := ComputeRoomTotal(empty, variant); got != 0 {
		t.Errorf("room with no lines = %v, want 0", got)
	}
}

func TestComputeVariantTotalInheritsDiscount(t *testing.T) {
	variant := &domain.Variant{
		DiscountPct: fp(10),
		Rooms: []domain.Room{
			{Lines: []domain.ProductLine{{Quantity: fp(10), CatalogUnitPrice: 10}}},
		},
	}
	// 10 × (10 × 0.9) = 90
	if got := ComputeVariantTotal(variant); got != 90 {
		t.Errorf("ComputeVariantTotal = %v, want 90", got)
	}
}

func TestComputeOfferTotalIsNaiveSum(t *testing.T) {
	variants := []domain.Variant{
		{Rooms: []domain.Room{{Lines: []domain.ProductLine{{Quantity: fp(1), CatalogUnitPrice: 100}}}}},
		// The calculator sums whatever it is handed; includeInOffer
		// filtering happens at the assembly boundary.
		{IncludeInOffer: false, Rooms: []domain.Room{{Lines: []domain.ProductLine{{Quantity: fp(1), CatalogUnitPrice: 50}}}}},
	}
	if got := ComputeOfferTotal(variants); got != 150 {
		t.Errorf("ComputeOfferTotal = %v, want 150", got)
	}
}

func TestComputeCommission(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		pct   float64
		want  float64
	}{
		{"12.5 percent of 10000", 10000, 12.5, 1250},
		{"zero percent is an explicit zero", 10000, 0, 0},
		{"rounds to cents", 999.99, 10, 100},
		{"zero total", 0, 15, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeCommission(tt.total, tt.pct); got != tt.want {
				t.Errorf("ComputeCommission(%v, %v) = %v, want %v", tt.total, tt.pct, got, tt.want)
			}
		})
	}
}

func TestComputeLineInResolvesWholeChain(t *testing.T) {
	variant := &domain.Variant{DiscountPct: fp(10)}
	room := &domain.Room{Area: 25.5, WastePct: fp(15)}
	line := &domain.ProductLine{
		ID:               uuid.New(),
		AreaPriced:       true,
		CatalogUnitPrice: 45.50,
		DiscountPct:      fp(0), // explicit 0 overrides the variant's 10
	}
	got := ComputeLineIn(line, room, variant)
	if !almostEqual(got.EffectiveQuantity, 29.325) {
		t.Errorf("EffectiveQuantity = %v, want 29.325", got.EffectiveQuantity)
	}
	if !almostEqual(got.FinalUnitPrice, 45.50) {
		t.Errorf("FinalUnitPrice = %v, want 45.50", got.FinalUnitPrice)
	}
	if got.LineTotal != 1334.29 {
		t.Errorf("LineTotal = %v, want 1334.29", got.LineTotal)
	}
}
