package app

import (
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nlescano/floordesk/internal/adapters/export"
	"github.com/nlescano/floordesk/internal/adapters/httpserver"
	"github.com/nlescano/floordesk/internal/adapters/mailer"
	"github.com/nlescano/floordesk/internal/adapters/repo/postgres"
	"github.com/nlescano/floordesk/internal/domain"
	"github.com/nlescano/floordesk/internal/usecase"
)

type App struct {
	DB        *gorm.DB
	ClientUC  *usecase.ClientUC
	ProjectUC *usecase.ProjectUC
	CloneUC   *usecase.CloneUC
	OfferUC   *usecase.OfferUC
	Catalog   domain.CatalogRepo
	Renderer  *export.ExcelRenderer
}

func NewApp(db *gorm.DB) (*App, error) {
	clientRepo := postgres.NewClientRepo(db)
	projectRepo := postgres.NewProjectRepo(db)
	offerRepo := postgres.NewOfferRepo(db)
	catalogRepo := postgres.NewCatalogRepo(db)

	renderer := export.NewExcelRenderer()

	var offerMailer domain.OfferMailer
	if m := mailer.NewFromEnv(); m != nil {
		offerMailer = m
	}

	app := &App{DB: db, Catalog: catalogRepo, Renderer: renderer}
	app.ClientUC = &usecase.ClientUC{Clients: clientRepo}
	app.ProjectUC = &usecase.ProjectUC{Projects: projectRepo, Clients: clientRepo, Catalog: catalogRepo, Offers: offerRepo}
	app.CloneUC = &usecase.CloneUC{Projects: projectRepo}
	app.OfferUC = &usecase.OfferUC{
		Projects: projectRepo,
		Offers:   offerRepo,
		Clients:  clientRepo,
		Mailer:   offerMailer,
		Renderer: renderer,
	}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.ClientUC, a.ProjectUC, a.CloneUC, a.OfferUC, a.Catalog, a.Renderer)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Client{}, &domain.CatalogProduct{},
		&domain.Project{}, &domain.Phase{}, &domain.Variant{},
		&domain.Room{}, &domain.RoomImage{}, &domain.ProductLine{},
		&domain.Offer{}, &domain.OfferVariant{},
	); err != nil {
		return err
	}

	// Offer number uniqueness is the serialization point for offer
	// creation; back the read-then-write check with a real constraint.
	_ = a.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_offers_number_unique ON offers (offer_number)").Error
	_ = a.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_variants_phase_order ON variants (phase_id, sort_order)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_offer_variants_variant_id ON offer_variants (variant_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_rooms_variant_id ON rooms (variant_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_product_lines_room_id ON product_lines (room_id)").Error

	seedCatalog(a.DB)
	return nil
}

func seedCatalog(db *gorm.DB) {
	var count int64
	if err := db.Model(&domain.CatalogProduct{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	prods := []domain.CatalogProduct{
		{ID: uuid.New(), Name: "Oak engineered plank 190mm", Category: "flooring", Unit: "m2", UnitPrice: 45.50, AreaPriced: true, Active: true},
		{ID: uuid.New(), Name: "Walnut herringbone 120mm", Category: "flooring", Unit: "m2", UnitPrice: 68.00, AreaPriced: true, Active: true},
		{ID: uuid.New(), Name: "Vinyl click 4.5mm", Category: "flooring", Unit: "m2", UnitPrice: 22.90, AreaPriced: true, Active: true},
		{ID: uuid.New(), Name: "Acoustic underlay", Category: "underlay", Unit: "m2", UnitPrice: 4.80, AreaPriced: true, Active: true},
		{ID: uuid.New(), Name: "Oak skirting 80mm", Category: "trim", Unit: "lm", UnitPrice: 9.60, Active: true},
		{ID: uuid.New(), Name: "Transition profile", Category: "trim", Unit: "unit", UnitPrice: 14.00, Active: true},
	}
	for _, p := range prods {
		db.Create(&p)
	}
}
