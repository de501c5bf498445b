// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// TotalsDependencies defines the interface for the weighted tally.
type TotalsDependencies interface {
	Totals(ctx context.Context, id string) (map[string]float64, error)
}

// TotalsHandler handles totals requests.
type TotalsHandler struct {
	deps TotalsDependencies
}

// NewTotalsHandler creates a new totals handler.
func NewTotalsHandler(deps TotalsDependencies) *TotalsHandler {
	return &TotalsHandler{deps: deps}
}

// HandleGetTotals handles GET /totals requests.
func (h *TotalsHandler) HandleGetTotals(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_totals"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, ok := sessionID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_session", NewKind(op, ErrMissingSession))
		return
	}
	totals, err := h.deps.Totals(r.Context(), id)
	if err != nil {
		writeDepError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, id string, n int) ([]Entry, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?limit=N requests. N is
// capped at the configured maximum, which is also used when limit is absent.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	n = min(n, h.maxLimit)
	id, ok := sessionID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_session", NewKind(op, ErrMissingSession))
		return
	}
	entries, err := h.deps.Leaderboard(r.Context(), id, n)
	if err != nil {
		writeDepError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
