package api

import (
	"log/slog"
	"net/http"

	"github.com/randytsao24/gotolondon/internal/api/handlers"
	"github.com/randytsao24/gotolondon/internal/config"
)

// Version is reported by the root and health endpoints
const Version = "1.0.0"

// NewRouter creates and configures the HTTP router with all routes and middleware
func NewRouter(cfg *config.Config, ranker handlers.RankingProvider, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(Version)
	rootHandler := handlers.NewRootHandler(Version)
	gotoHandler := handlers.NewGotoHandler(ranker, logger)

	// Core routes
	mux.HandleFunc("GET /{$}", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("/", rootHandler.NotFound)

	// Ranking routes
	mux.HandleFunc("GET /goto", gotoHandler.ListDestinations)
	mux.HandleFunc("GET /goto/{destination}", gotoHandler.GetOptions)

	// Apply middleware stack
	handler := Chain(mux,
		Recovery(logger),
		RequestID,
		Logging(logger),
		CORS,
		// A ranking makes several sequential TfL calls
		Timeout(3*cfg.HTTPTimeout),
	)

	return handler
}
