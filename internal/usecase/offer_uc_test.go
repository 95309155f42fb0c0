package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/nlescano/floordesk/internal/domain"
)

func TestOfferAssembleSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.offerUC()

	both := []uuid.UUID{f.oakVariant.ID, f.vinylVariant.ID}

	snap, err := uc.Assemble(ctx, AssembleInput{ProjectID: f.project.ID, OfferNumber: "OF-1001", VariantIDs: both})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(snap.Variants) != 2 {
		t.Fatalf("variants in snapshot = %d, want 2", len(snap.Variants))
	}
	if snap.GrandTotal != 1563.29 {
		t.Errorf("grand total = %v, want 1563.29", snap.GrandTotal)
	}

	snap, err = uc.Assemble(ctx, AssembleInput{ProjectID: f.project.ID, OfferNumber: "OF-1001", VariantIDs: []uuid.UUID{f.oakVariant.ID}})
	if err != nil {
		t.Fatalf("assemble single: %v", err)
	}
	if len(snap.Variants) != 1 || snap.GrandTotal != 1334.29 {
		t.Errorf("single-variant snapshot = %d variants, total %v; want 1 and 1334.29", len(snap.Variants), snap.GrandTotal)
	}
	if snap.Commission != nil {
		t.Error("project without architect must carry no commission figure")
	}
}

func TestOfferAssembleHonorsIncludeInOffer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.offerUC()

	f.vinylVariant.IncludeInOffer = false
	if err := f.projectUC().UpdateVariant(ctx, f.vinylVariant); err != nil {
		t.Fatalf("update variant: %v", err)
	}

	// Selecting both must still drop the excluded variant.
	snap, err := uc.Assemble(ctx, AssembleInput{
		ProjectID:  f.project.ID,
		VariantIDs: []uuid.UUID{f.oakVariant.ID, f.vinylVariant.ID},
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(snap.Variants) != 1 {
		t.Fatalf("variants in snapshot = %d, want 1", len(snap.Variants))
	}
	if snap.Variants[0].VariantID != f.oakVariant.ID {
		t.Error("excluded variant leaked into the snapshot")
	}
	if snap.GrandTotal != 1334.29 {
		t.Errorf("grand total = %v, want 1334.29 after exclusion", snap.GrandTotal)
	}
}

func TestOfferCreateRejectsDuplicateNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.offerUC()

	in := AssembleInput{ProjectID: f.project.ID, OfferNumber: "OF-2026-001", VariantIDs: []uuid.UUID{f.oakVariant.ID}}
	first, err := uc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = uc.Create(ctx, in)
	var ce *domain.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("duplicate number: want ConflictError, got %v", err)
	}

	// The existing offer is untouched by the failed create.
	got, err := uc.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.OfferStatusDraft || got.GrandTotal != first.GrandTotal {
		t.Errorf("existing offer changed after conflict: status=%s total=%v", got.Status, got.GrandTotal)
	}
}

func TestOfferCommissionModes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.offerUC()
	puc := f.projectUC()
	sel := AssembleInput{ProjectID: f.project.ID, VariantIDs: []uuid.UUID{f.oakVariant.ID}}

	// No architect: no commission block at all.
	snap, err := uc.Assemble(ctx, sel)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if snap.Commission != nil {
		t.Fatal("mode none must not produce a commission figure")
	}

	// External architect at 0% is an explicit zero, not absence.
	if err := puc.SetArchitect(ctx, f.project.ID, domain.ExternalArchitect("Ana Ruiz", "", "ana@studio.example", 0)); err != nil {
		t.Fatalf("set architect: %v", err)
	}
	snap, err = uc.Assemble(ctx, sel)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if snap.Commission == nil {
		t.Fatal("external architect at 0% must still produce a commission figure")
	}
	if snap.Commission.Pct != 0 || snap.Commission.Amount != 0 {
		t.Errorf("commission = %v%% / %v, want explicit 0 / 0", snap.Commission.Pct, snap.Commission.Amount)
	}

	if err := puc.SetArchitect(ctx, f.project.ID, domain.ExternalArchitect("Ana Ruiz", "", "ana@studio.example", 10)); err != nil {
		t.Fatalf("set architect: %v", err)
	}
	snap, err = uc.Assemble(ctx, sel)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if snap.Commission == nil || snap.Commission.Amount != 133.43 {
		t.Errorf("commission on 1334.29 at 10%% = %+v, want 133.43", snap.Commission)
	}
}

func TestOfferSendBumpsSentCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.offerUC() // no mailer configured: send skips the email

	o, err := uc.Create(ctx, AssembleInput{ProjectID: f.project.ID, OfferNumber: "OF-42", VariantIDs: []uuid.UUID{f.oakVariant.ID}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.SentCount != 0 || o.Status != domain.OfferStatusDraft {
		t.Fatalf("new offer: status=%s sentCount=%d", o.Status, o.SentCount)
	}

	o, err = uc.Send(ctx, o.ID, "")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if o.Status != domain.OfferStatusSent || o.SentCount != 1 {
		t.Errorf("after send: status=%s sentCount=%d, want sent/1", o.Status, o.SentCount)
	}

	// Resend from sent is allowed and bumps the counter again.
	o, err = uc.Send(ctx, o.ID, "")
	if err != nil {
		t.Fatalf("resend: %v", err)
	}
	if o.SentCount != 2 {
		t.Errorf("after resend: sentCount=%d, want 2", o.SentCount)
	}

	o, err = uc.Transition(ctx, o.ID, domain.OfferStatusViewed)
	if err != nil {
		t.Fatalf("viewed: %v", err)
	}
	if o.SentCount != 2 {
		t.Errorf("viewed must not change sentCount, got %d", o.SentCount)
	}

	if _, err := uc.Transition(ctx, o.ID, domain.OfferStatusAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}
	_, err = uc.Send(ctx, o.ID, "")
	var ce *domain.ConflictError
	if !errors.As(err, &ce) {
		t.Errorf("send from accepted: want ConflictError, got %v", err)
	}
	got, err := uc.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SentCount != 2 {
		t.Errorf("failed send must not change sentCount, got %d", got.SentCount)
	}
}

func TestOfferSendRecomputesTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.offerUC()

	o, err := uc.Create(ctx, AssembleInput{ProjectID: f.project.ID, OfferNumber: "OF-7", VariantIDs: []uuid.UUID{f.vinylVariant.ID}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.GrandTotal != 229.00 {
		t.Fatalf("draft total = %v, want 229.00", o.GrandTotal)
	}

	// The underlying data changes between draft and send; send works off
	// current data, not the stale draft figure. A catalog price change
	// alone must not matter, the line froze its price when it was added.
	f.vinyl.UnitPrice = 99
	if err := f.catalog.Save(ctx, f.vinyl); err != nil {
		t.Fatalf("save catalog product: %v", err)
	}
	v, err := f.projects.FindVariant(ctx, f.vinylVariant.ID)
	if err != nil {
		t.Fatalf("find variant: %v", err)
	}
	v.Rooms[0].Area = 20
	if err := f.projects.SaveRoom(ctx, &v.Rooms[0]); err != nil {
		t.Fatalf("save room: %v", err)
	}

	o, err = uc.Send(ctx, o.ID, "")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if o.GrandTotal != 458.00 {
		t.Errorf("sent total = %v, want 458.00 recomputed from the doubled area", o.GrandTotal)
	}
}

func TestDeleteVariantGuardedByLiveOffer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	puc := f.projectUC()
	ouc := f.offerUC()

	o, err := ouc.Create(ctx, AssembleInput{ProjectID: f.project.ID, OfferNumber: "OF-9", VariantIDs: []uuid.UUID{f.oakVariant.ID}})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	err = puc.DeleteVariant(ctx, f.oakVariant.ID)
	var ce *domain.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("delete referenced variant: want ConflictError, got %v", err)
	}

	// Once the offer reaches a terminal state the variant is free again.
	for _, next := range []domain.OfferStatus{domain.OfferStatusSent, domain.OfferStatusViewed, domain.OfferStatusRejected} {
		if _, err := ouc.Transition(ctx, o.ID, next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	if err := puc.DeleteVariant(ctx, f.oakVariant.ID); err != nil {
		t.Fatalf("delete after rejection: %v", err)
	}

	// The other variant never referenced an offer and deletes freely.
	if err := puc.DeleteVariant(ctx, f.vinylVariant.ID); err != nil {
		t.Fatalf("delete unreferenced variant: %v", err)
	}
}
