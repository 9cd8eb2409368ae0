package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/puzzleboard/internal/metrics"
	"github.com/mcoot/puzzleboard/internal/middleware"
)

// Logging creates logging middleware for the dashboard
func Logging(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return middleware.Logging(logger, m)
}
