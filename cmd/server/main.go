package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/mcoot/puzzleboard/internal/api"
	"github.com/mcoot/puzzleboard/internal/config"
	"github.com/mcoot/puzzleboard/internal/factory"
	"github.com/mcoot/puzzleboard/internal/web"
)

func main() {
	fs := pflag.NewFlagSet("server", pflag.ExitOnError)
	config.RegisterFlags(fs)
	config.RegisterServerFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	level, _ := cfg.Level()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := factory.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.Close()

	// Preload a chat export so the dashboard starts populated
	if cfg.Input != "" {
		if _, err := app.IngestService.ImportFile(ctx, cfg.Input); err != nil {
			logger.Warn("could not import input", slog.String("input", cfg.Input), slog.String("error", err.Error()))
		}
	}

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		Storage:            app.Storage,
		StorageName:        cfg.Storage,
		Catalogue:          app.Catalogue,
		LeaderboardService: app.LeaderboardService,
		IngestService:      app.IngestService,
		AuthService:        app.AuthService,
		Metrics:            app.Metrics,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:             logger,
		Storage:            app.Storage,
		LeaderboardService: app.LeaderboardService,
		IngestService:      app.IngestService,
		AuthService:        app.AuthService,
		Metrics:            app.Metrics,
		StaticDir:          findStaticDir(cfg.StaticDir),
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/metrics", apiRouter)
	mux.Handle("/", webRouter)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(mux, serverConfig, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage),
		slog.Bool("upload_key_required", app.AuthService.Required()),
	)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// findStaticDir returns the configured static directory, falling back to the
// copy in the source tree when running from the repository root
func findStaticDir(configured string) string {
	candidates := []string{
		configured,
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
