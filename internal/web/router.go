package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/puzzleboard/internal/metrics"
	"github.com/mcoot/puzzleboard/internal/services/auth"
	"github.com/mcoot/puzzleboard/internal/services/ingest"
	"github.com/mcoot/puzzleboard/internal/services/leaderboard"
	"github.com/mcoot/puzzleboard/internal/storage"
	"github.com/mcoot/puzzleboard/internal/web/handler"
	"github.com/mcoot/puzzleboard/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger             *slog.Logger
	Storage            storage.Storage
	LeaderboardService *leaderboard.Service
	IngestService      ingest.ServiceInterface
	AuthService        auth.ServiceInterface
	Metrics            *metrics.Metrics
	StaticDir          string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger, cfg.Metrics))

	dashboardHandler := handler.NewDashboardHandler(
		cfg.LeaderboardService,
		cfg.IngestService,
		cfg.Storage,
		cfg.AuthService,
		cfg.Logger,
	)

	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.Flash())
	pages.HandleFunc("/", dashboardHandler.Dashboard).Methods(http.MethodGet)
	pages.HandleFunc("/upload", dashboardHandler.Upload).Methods(http.MethodPost)

	r.HandleFunc("/chart.png", dashboardHandler.Chart).Methods(http.MethodGet)
	r.HandleFunc("/export.xlsx", dashboardHandler.Export).Methods(http.MethodGet)

	return r
}
