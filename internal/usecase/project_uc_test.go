package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/nlescano/floordesk/internal/domain"
)

func TestAddVariantPersistsExclusionFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	puc := f.projectUC()

	// Created excluded, not toggled off later: the insert path must
	// store the false flag as-is.
	v := &domain.Variant{Name: "Internal draft option", IncludeInOffer: false}
	if err := puc.AddVariant(ctx, f.phase.ID, v); err != nil {
		t.Fatalf("add variant: %v", err)
	}

	got, err := f.projects.FindVariant(ctx, v.ID)
	if err != nil {
		t.Fatalf("reload variant: %v", err)
	}
	if got.IncludeInOffer {
		t.Fatal("variant created with IncludeInOffer=false read back as true")
	}

	room := &domain.Room{Name: "Study", Area: 5}
	if err := puc.AddRoom(ctx, v.ID, room); err != nil {
		t.Fatalf("add room: %v", err)
	}
	if _, err := puc.AddLine(ctx, AddLineInput{RoomID: room.ID, CatalogProductID: f.vinyl.ID}); err != nil {
		t.Fatalf("add line: %v", err)
	}

	snap, err := f.offerUC().Assemble(ctx, AssembleInput{
		ProjectID:  f.project.ID,
		VariantIDs: []uuid.UUID{f.oakVariant.ID, v.ID},
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	for _, vs := range snap.Variants {
		if vs.VariantID == v.ID {
			t.Fatal("variant created excluded leaked into the offer")
		}
	}
	if snap.GrandTotal != 1334.29 {
		t.Errorf("grand total = %v, want 1334.29 without the excluded variant", snap.GrandTotal)
	}
}

func TestCatalogSavePersistsInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := &domain.CatalogProduct{Name: "Discontinued cork tile", Category: "flooring", Unit: "m2", UnitPrice: 31.00, AreaPriced: true, Active: false}
	if err := f.catalog.Save(ctx, p); err != nil {
		t.Fatalf("save product: %v", err)
	}

	got, err := f.catalog.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if got.Active {
		t.Fatal("product created with Active=false read back as true")
	}

	list, err := f.catalog.List(ctx, "flooring")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, item := range list {
		if item.ID == p.ID {
			t.Fatal("inactive product listed")
		}
	}
}
