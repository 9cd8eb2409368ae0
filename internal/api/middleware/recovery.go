package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/puzzleboard/internal/api/apierr"
	"github.com/mcoot/puzzleboard/internal/middleware"
)

// Recovery turns API handler panics into a JSON INTERNAL_ERROR response
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
