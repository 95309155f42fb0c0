package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nlescano/floordesk/internal/adapters/repo/postgres"
	"github.com/nlescano/floordesk/internal/domain"
)

func fp(v float64) *float64 { return &v }

// fixture is one project with a single phase holding two variants, each
// with one room and one product line:
//
//	oak variant:   room 25.5 m², 15% waste, oak plank 45.50/m² -> 1334.29
//	vinyl variant: room 10 m², vinyl plank 22.90/m²            ->  229.00
type fixture struct {
	db *gorm.DB

	clients  *postgres.ClientRepo
	catalog  *postgres.CatalogRepo
	projects *postgres.ProjectRepo
	offers   *postgres.OfferRepo

	client       *domain.Client
	oak, vinyl   *domain.CatalogProduct
	project      *domain.Project
	phase        *domain.Phase
	oakVariant   *domain.Variant
	vinylVariant *domain.Variant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Client{}, &domain.CatalogProduct{},
		&domain.Project{}, &domain.Phase{}, &domain.Variant{},
		&domain.Room{}, &domain.RoomImage{}, &domain.ProductLine{},
		&domain.Offer{}, &domain.OfferVariant{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &fixture{
		db:       db,
		clients:  postgres.NewClientRepo(db),
		catalog:  postgres.NewCatalogRepo(db),
		projects: postgres.NewProjectRepo(db),
		offers:   postgres.NewOfferRepo(db),
	}
	ctx := context.Background()

	f.client = &domain.Client{ID: uuid.New(), Name: "Marta Vilas", Email: "marta@example.com", IsActive: true}
	if err := f.clients.Save(ctx, f.client); err != nil {
		t.Fatalf("save client: %v", err)
	}

	f.oak = &domain.CatalogProduct{ID: uuid.New(), Name: "Oak engineered plank 190mm", Category: "wood", Unit: "m2", UnitPrice: 45.50, AreaPriced: true, Active: true}
	f.vinyl = &domain.CatalogProduct{ID: uuid.New(), Name: "Vinyl click plank", Category: "vinyl", Unit: "m2", UnitPrice: 22.90, AreaPriced: true, Active: true}
	for _, p := range []*domain.CatalogProduct{f.oak, f.vinyl} {
		if err := f.catalog.Save(ctx, p); err != nil {
			t.Fatalf("save catalog product: %v", err)
		}
	}

	puc := &ProjectUC{Projects: f.projects, Clients: f.clients, Catalog: f.catalog, Offers: f.offers}

	f.project = &domain.Project{ClientID: f.client.ID, Name: "Vilas apartment"}
	if err := puc.Create(ctx, f.project); err != nil {
		t.Fatalf("create project: %v", err)
	}
	f.phase, err = puc.AddPhase(ctx, f.project.ID, "Ground floor")
	if err != nil {
		t.Fatalf("add phase: %v", err)
	}

	f.oakVariant = &domain.Variant{Name: "Oak option", IncludeInOffer: true}
	if err := puc.AddVariant(ctx, f.phase.ID, f.oakVariant); err != nil {
		t.Fatalf("add oak variant: %v", err)
	}
	oakRoom := &domain.Room{Name: "Living room", Area: 25.5, WastePct: fp(15)}
	if err := puc.AddRoom(ctx, f.oakVariant.ID, oakRoom); err != nil {
		t.Fatalf("add oak room: %v", err)
	}
	if _, err := puc.AddLine(ctx, AddLineInput{RoomID: oakRoom.ID, CatalogProductID: f.oak.ID}); err != nil {
		t.Fatalf("add oak line: %v", err)
	}

	f.vinylVariant = &domain.Variant{Name: "Vinyl option", IncludeInOffer: true}
	if err := puc.AddVariant(ctx, f.phase.ID, f.vinylVariant); err != nil {
		t.Fatalf("add vinyl variant: %v", err)
	}
	vinylRoom := &domain.Room{Name: "Hall", Area: 10}
	if err := puc.AddRoom(ctx, f.vinylVariant.ID, vinylRoom); err != nil {
		t.Fatalf("add vinyl room: %v", err)
	}
	if _, err := puc.AddLine(ctx, AddLineInput{RoomID: vinylRoom.ID, CatalogProductID: f.vinyl.ID}); err != nil {
		t.Fatalf("add vinyl line: %v", err)
	}

	return f
}

func (f *fixture) projectUC() *ProjectUC {
	return &ProjectUC{Projects: f.projects, Clients: f.clients, Catalog: f.catalog, Offers: f.offers}
}

func (f *fixture) offerUC() *OfferUC {
	return &OfferUC{Projects: f.projects, Offers: f.offers, Clients: f.clients}
}

func (f *fixture) cloneUC() *CloneUC {
	return &CloneUC{Projects: f.projects}
}
