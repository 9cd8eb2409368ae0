package factory

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/puzzleboard/internal/config"
	"github.com/mcoot/puzzleboard/internal/dates"
	"github.com/mcoot/puzzleboard/internal/dependencies/clock"
	"github.com/mcoot/puzzleboard/internal/dependencies/ids"
	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/metrics"
	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/services/auth"
	"github.com/mcoot/puzzleboard/internal/services/extractor"
	"github.com/mcoot/puzzleboard/internal/services/ingest"
	"github.com/mcoot/puzzleboard/internal/services/leaderboard"
	"github.com/mcoot/puzzleboard/internal/services/ranking"
	"github.com/mcoot/puzzleboard/internal/storage"
	"github.com/mcoot/puzzleboard/internal/storage/memory"
	postgresstorage "github.com/mcoot/puzzleboard/internal/storage/postgres"
	redisstorage "github.com/mcoot/puzzleboard/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	Config config.Config
	Logger *slog.Logger

	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Services
	Catalogue          *games.Catalogue
	Dates              *dates.Parser
	Extractor          *extractor.Service
	RankingService     *ranking.Service
	LeaderboardService *leaderboard.Service
	IngestService      *ingest.Service
	AuthService        *auth.Service
	Metrics            *metrics.Metrics
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	// Use no-op logger if not provided
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := NewStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	loc, _ := cfg.Location()
	app, err := newWithDependencies(cfg, store, clock.New(loc), ids.New(), logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return app, nil
}

// NewStorage creates the storage backend selected by the configuration
func NewStorage(ctx context.Context, cfg config.Config) (storage.Storage, error) {
	switch cfg.Storage {
	case config.StorageMemory, "":
		return memory.New(), nil
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		return redisstorage.New(redisCfg)
	case config.StoragePostgres:
		pgCfg := postgresstorage.DefaultConfig()
		pgCfg.DSN = cfg.PostgresDSN
		return postgresstorage.New(ctx, pgCfg)
	default:
		return nil, fmt.Errorf("invalid storage %q: must be memory, redis or postgres", cfg.Storage)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(cfg config.Config, store storage.Storage, clk clock.Clock, gen ids.Generator, logger *slog.Logger) (*App, error) {
	order, err := extractor.ParseDateOrder(cfg.DateOrder)
	if err != nil {
		return nil, err
	}
	policy, err := ranking.ParseTiePolicy(cfg.TiePolicy)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	authService, err := auth.New(cfg.UploadKeyHash)
	if err != nil {
		return nil, err
	}

	excluded := make([]model.PlayerName, len(cfg.ExcludeSenders))
	for i, sender := range cfg.ExcludeSenders {
		excluded[i] = model.PlayerName(sender)
	}

	catalogue := games.Default()
	dateParser := dates.NewParser(clk)
	ext := extractor.New(catalogue, extractor.Options{
		DateOrder:      order,
		Location:       loc,
		ExcludeSenders: excluded,
	}, logger)
	rankingService := ranking.New(catalogue, policy)
	m := metrics.New()

	return &App{
		Config:             cfg,
		Logger:             logger,
		Storage:            store,
		Clock:              clk,
		IDs:                gen,
		Catalogue:          catalogue,
		Dates:              dateParser,
		Extractor:          ext,
		RankingService:     rankingService,
		LeaderboardService: leaderboard.New(store, rankingService, catalogue, dateParser),
		IngestService:      ingest.New(ext, store, clk, gen, m, logger),
		AuthService:        authService,
		Metrics:            m,
	}, nil
}

// Close releases the storage connection
func (a *App) Close() error {
	return a.Storage.Close()
}
