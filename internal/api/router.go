package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/puzzleboard/internal/api/handler"
	"github.com/mcoot/puzzleboard/internal/api/middleware"
	"github.com/mcoot/puzzleboard/internal/api/response"
	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/metrics"
	sharedmiddleware "github.com/mcoot/puzzleboard/internal/middleware"
	"github.com/mcoot/puzzleboard/internal/services/auth"
	"github.com/mcoot/puzzleboard/internal/services/ingest"
	"github.com/mcoot/puzzleboard/internal/services/leaderboard"
	"github.com/mcoot/puzzleboard/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	Storage            storage.Storage
	StorageName        string
	Catalogue          *games.Catalogue
	LeaderboardService *leaderboard.Service
	IngestService      ingest.ServiceInterface
	AuthService        auth.ServiceInterface
	Metrics            *metrics.Metrics
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService, cfg.Catalogue)
	importHandler := handler.NewImportHandler(cfg.IngestService, cfg.Storage, cfg.AuthService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(sharedmiddleware.Logging(cfg.Logger, cfg.Metrics))

	api.HandleFunc("/health", healthHandler(cfg.Storage, cfg.StorageName)).Methods(http.MethodGet)

	api.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/days", leaderboardHandler.Days).Methods(http.MethodGet)
	api.HandleFunc("/records", leaderboardHandler.Records).Methods(http.MethodGet)
	api.HandleFunc("/games", leaderboardHandler.Games).Methods(http.MethodGet)

	api.HandleFunc("/imports", importHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/imports", importHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/imports/{id}", importHandler.Get).Methods(http.MethodGet)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(store storage.Storage, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			response.JSON(w, http.StatusServiceUnavailable, response.Health{Status: "unavailable", Storage: name})
			return
		}
		response.JSON(w, http.StatusOK, response.Health{Status: "ok", Storage: name})
	}
}
