package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mcoot/puzzleboard/internal/api/apierr"
	"github.com/mcoot/puzzleboard/internal/api/request"
	"github.com/mcoot/puzzleboard/internal/export"
	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/services/auth"
	"github.com/mcoot/puzzleboard/internal/services/ingest"
	"github.com/mcoot/puzzleboard/internal/services/leaderboard"
	"github.com/mcoot/puzzleboard/internal/storage"
	"github.com/mcoot/puzzleboard/internal/web/middleware"
	"github.com/mcoot/puzzleboard/internal/web/templates/layout"
	"github.com/mcoot/puzzleboard/internal/web/templates/pages"
)

const recentImports = 5

// DashboardHandler serves the leaderboard pages and downloads
type DashboardHandler struct {
	leaderboard *leaderboard.Service
	ingest      ingest.ServiceInterface
	storage     storage.Storage
	auth        auth.ServiceInterface
	logger      *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	leaderboard *leaderboard.Service,
	ingest ingest.ServiceInterface,
	storage storage.Storage,
	auth auth.ServiceInterface,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		leaderboard: leaderboard,
		ingest:      ingest,
		storage:     storage,
		auth:        auth,
		logger:      logger,
	}
}

// Dashboard renders GET /?day=
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scope, err := h.leaderboard.ResolveScope(r.URL.Query().Get("day"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	report, err := h.leaderboard.Report(ctx, scope)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	days, err := h.leaderboard.Days(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	imports, err := h.storage.ListImports(ctx, recentImports)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := pages.DashboardData{
		PageData: layout.PageData{
			Title: "Leaderboard",
			Flash: middleware.GetFlash(ctx),
		},
		Report:            report,
		Days:              days,
		Imports:           imports,
		UploadKeyRequired: h.auth.Required(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Dashboard(data).Render(ctx, w); err != nil {
		h.logger.Error("render dashboard", slog.String("error", err.Error()))
	}
}

// Upload handles POST /upload and redirects back to the dashboard
func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	upload, err := request.ReadUpload(w, r)
	if err != nil {
		msg := "Choose a chat export to upload"
		if apierr.Status(err) == http.StatusRequestEntityTooLarge {
			msg = flashMessage(err)
		}
		middleware.SetFlash(w, "error", msg)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	defer upload.Body.Close()

	if err := h.auth.Verify(upload.Key); err != nil {
		middleware.SetFlash(w, "error", flashMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	result, err := h.ingest.Import(r.Context(), upload.Source, upload.Body)
	if err != nil {
		middleware.SetFlash(w, "error", flashMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	imp := result.Import
	middleware.SetFlash(w, "success", fmt.Sprintf("Imported %s: %d new of %d results", imp.Source, imp.RecordsStored, imp.RecordsExtracted))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Chart serves GET /chart.png?day=
func (h *DashboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	png, err := export.LeaderboardChart(chartTitle(report.Scope), report.Leaderboard)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(png)
}

// Export serves GET /export.xlsx?day=
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, report); err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="puzzleboard-%s.xlsx"`, report.Scope))
	_, _ = w.Write(buf.Bytes())
}

func (h *DashboardHandler) report(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	scope, err := h.leaderboard.ResolveScope(r.URL.Query().Get("day"))
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	report, err := h.leaderboard.Report(r.Context(), scope)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return report, true
}

func (h *DashboardHandler) writeError(w http.ResponseWriter, err error) {
	status := apierr.Status(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("dashboard request failed", slog.String("error", err.Error()))
	}
	http.Error(w, http.StatusText(status), status)
}

func (h *DashboardHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := apierr.Status(err)
	message := flashMessage(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("dashboard request failed", slog.String("error", err.Error()))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: http.StatusText(status)},
		Status:   status,
		Message:  message,
	}).Render(r.Context(), w)
}

// flashMessage turns an error into text safe to show a visitor
func flashMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidDay):
		return err.Error()
	case errors.Is(err, model.ErrEmptyInput):
		return "The uploaded file was empty"
	case errors.Is(err, model.ErrUploadKeyRequired):
		return "An upload key is required"
	case errors.Is(err, model.ErrInvalidUploadKey):
		return "That upload key is not valid"
	case apierr.Status(err) == http.StatusRequestEntityTooLarge:
		return fmt.Sprintf("Chat exports are limited to %d MiB", request.MaxUploadBytes>>20)
	default:
		return "Something went wrong. Please try again later."
	}
}

func chartTitle(scope model.Scope) string {
	if scope.IsAllTime() {
		return "Leaderboard"
	}
	return "Leaderboard " + string(scope.Day)
}
