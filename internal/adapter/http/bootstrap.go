// Package http assembles the API server: database, dependency container,
// middleware chain and the gin router.
package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"taskvault/internal/adapter/database"
	"taskvault/internal/adapter/database/postgres"
	"taskvault/internal/adapter/database/sqlite"
	"taskvault/internal/adapter/http/routes"
	"taskvault/internal/shared"
)

// openDatabase picks postgres when DATABASE_URL is set, sqlite otherwise.
func openDatabase() (*database.DB, error) {
	if os.Getenv("DATABASE_URL") != "" {
		return postgres.Open()
	}

	return sqlite.Open()
}

func StartServer(metrics *shared.AppMetrics, logger *shared.LokiLogger) {
	StartServerWithConfig(metrics, logger, shared.GetDefaultConfig())
}

func StartServerWithConfig(metrics *shared.AppMetrics, logger *shared.LokiLogger, config *shared.AppConfig) {
	db, err := openDatabase()

	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}

	defer db.Close()

	var cache *shared.ResponseCache

	if config.CacheEnabled {
		cache = shared.NewResponseCache(logger.Logger.Logger, metrics)
	}

	container := NewContainer(db, cache, logger)

	router := routes.SetupRouterWithConfig(container.HandlersConfig(), metrics, logger, cache, config)

	port := os.Getenv("PORT")

	if port == "" {
		port = "8080"
	}

	slog.Info("Server starting",
		"port", port,
		"environment", config.Environment,
		"rate_limit_enabled", config.RateLimitEnabled,
		"cache_enabled", config.CacheEnabled,
		"https_enforced", config.EnforceHTTPS)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed to start", "error", err)
	}
}
