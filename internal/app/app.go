package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mfreitas/tradejournal/config"
	"github.com/mfreitas/tradejournal/internal/api"
	"github.com/mfreitas/tradejournal/internal/relay"
	"github.com/mfreitas/tradejournal/internal/service"
	"github.com/mfreitas/tradejournal/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Initializes the repository layer (TradesRepository).
//   - Initializes the service layer and the upstream price relay.
//   - Creates the HTTP handler layer to handle requests.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// Connect to PostgreSQL
	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	// Initialize repository layer (responsible for DB access)
	repo := storage.NewTradesRepository(db)

	// Initialize service layer (business logic)
	svc := service.NewTradeService(repo)

	// Upstream price relay for the ticker stream. The relay tolerates a
	// missing token: it refuses subscriptions at request time instead of
	// blocking startup, so the journal works without vendor credentials.
	priceRelay := relay.New(cfg.Oanda, nil)

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc, priceRelay)

	// Setup Gin router with routes
	router := api.NewRouter(handler, cfg.Server.CORSOrigin)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(db.Ping)
	healthHandler.Register(router)

	// Cleanup resources on shutdown
	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
