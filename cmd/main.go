package main

//
//  @title           Trading Journal API
//  @version         1.0
//  @description     Personal trading journal with a live ticker relay.
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        trades
//  @tag.description Journal entry CRUD
//
//  @tag.name        tickers
//  @tag.description Live price stream relay
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mfreitas/tradejournal/config"
	_ "github.com/mfreitas/tradejournal/docs" // swagger docs
	"github.com/mfreitas/tradejournal/internal/app"
	"github.com/mfreitas/tradejournal/internal/ingest"
	"github.com/mfreitas/tradejournal/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// WriteTimeout stays unset: the ticker relay holds its response
		// open for as long as the client watches.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the trading journal application.
//
// Modes (selected via --mode flag):
//   - api:    Starts the REST API and ticker relay (default).
//   - import: Bulk-loads journal CSV files into the store.
//   - export: Writes the whole journal to a CSV file.
//
// Flags:
//   - --mode: Execution mode ("api", "import" or "export"). Default: "api".
//   - --file: CSV file to import from or export to. Default: "./journal.csv".
//   - --dir:  When set in import mode, imports every *.csv in the directory instead of --file.
//   - --port: Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "api", "Mode: api, import or export")
	file := flag.String("file", "./journal.csv", "CSV file to import from or export to")
	dir := flag.String("dir", "", "Directory of CSV files to import (import mode only)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	case "import":
		logger.L().Info().Msg("running import")

		// Direct DB connection; the HTTP layer is not involved in bulk load
		db, err := app.InitPostgres(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		var n int
		if *dir != "" {
			n, err = ingest.ImportDirectory(ctx, *dir, db)
		} else {
			n, err = ingest.ImportFile(ctx, *file, db)
		}
		if err != nil {
			logger.L().Fatal().Err(err).Msg("import failed")
		}
		logger.L().Info().Int("trades", n).Msg("import completed successfully")

	case "export":
		logger.L().Info().Msg("running export")

		db, err := app.InitPostgres(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		n, err := ingest.ExportFile(ctx, *file, db)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("export failed")
		}
		logger.L().Info().Int("trades", n).Str("file", *file).Msg("export completed successfully")

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
