package router

import (
	"bazaar-backend/internal/application/escrow"
	"bazaar-backend/internal/application/events"
	listsvc "bazaar-backend/internal/application/listings"
	mktsvc "bazaar-backend/internal/application/marketplace"
	"bazaar-backend/internal/application/purchases"
	"bazaar-backend/internal/config"
	"bazaar-backend/internal/infrastructure/database"
	healthh "bazaar-backend/internal/interfaces/handlers/health"
	listingsh "bazaar-backend/internal/interfaces/handlers/listings"
	markth "bazaar-backend/internal/interfaces/handlers/marketplace"
	"bazaar-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration, and wires the ledger services onto one DB handle.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		AllowDev:      cfg.AllowCrossSiteDev || cfg.Env != "production",
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.Identity())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	}

	recorder := &events.Recorder{DB: db, Rdb: rdb, Stream: cfg.EventStream}
	store := &listsvc.Service{DB: db, Events: recorder}
	agent := &escrow.Agent{DB: db, Events: recorder}
	coordinator := &purchases.Coordinator{Store: store, Escrow: agent}
	facade := &mktsvc.Service{Store: store, Coordinator: coordinator}

	healthHandlers := &healthh.Handlers{DB: db, Rdb: rdb}
	queryHandlers := &listingsh.Handlers{Facade: facade, Events: recorder}
	marketHandlers := &markth.Handlers{Facade: facade}

	api := app.Group("/api/v1")
	api.Get("/health", healthHandlers.Status)

	// Query surface (no identity required)
	api.Get("/listings/count", queryHandlers.Count)
	api.Get("/listings/at/:index", queryHandlers.AtGlobalIndex)
	api.Get("/listings/:id/exists", queryHandlers.Exists)
	api.Get("/listings/:id/events", queryHandlers.EventsForListing)
	api.Get("/listings/:id", queryHandlers.GetListing)
	api.Get("/sellers/:seller/listings/count", queryHandlers.SellerCount)
	api.Get("/sellers/:seller/listings/:index", queryHandlers.SellerAtLocalIndex)

	// State-changing surface (caller identity required)
	api.Post("/listings", middleware.RequireIdentity(), marketHandlers.AddListing)
	api.Post("/listings/:id/purchase", middleware.RequireIdentity(), marketHandlers.Purchase)

	return app, db, rdb, nil
}
