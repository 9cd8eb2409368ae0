package handler

import (
	"net/http"

	"github.com/mcoot/puzzleboard/internal/api/response"
	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/services/leaderboard"
)

// LeaderboardHandler serves the read-only ranking endpoints
type LeaderboardHandler struct {
	leaderboard *leaderboard.Service
	catalogue   *games.Catalogue
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboard *leaderboard.Service, catalogue *games.Catalogue) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: leaderboard,
		catalogue:   catalogue,
	}
}

// Get handles GET /api/v1/leaderboard?day=&placements=
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, err := h.leaderboard.ResolveScope(r.URL.Query().Get("day"))
	if err != nil {
		WriteError(w, err)
		return
	}

	report, err := h.leaderboard.Report(r.Context(), scope)
	if err != nil {
		WriteError(w, err)
		return
	}

	withPlacements := r.URL.Query().Get("placements") == "true"
	response.JSON(w, http.StatusOK, response.ReportFromModel(report, withPlacements))
}

// Days handles GET /api/v1/days
func (h *LeaderboardHandler) Days(w http.ResponseWriter, r *http.Request) {
	days, err := h.leaderboard.Days(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.DaysFromModel(days))
}

// Records handles GET /api/v1/records?day=&game=
func (h *LeaderboardHandler) Records(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := h.leaderboard.Records(r.Context(), q.Get("day"), q.Get("game"))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RecordsFromModel(records))
}

// Games handles GET /api/v1/games
func (h *LeaderboardHandler) Games(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.GamesFromCatalogue(h.catalogue))
}
