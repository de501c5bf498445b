// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	repository "github.com/okian/contest/internal/adapters/repository"
	service "github.com/okian/contest/internal/app"
	"github.com/okian/contest/internal/domain/model"
	"github.com/okian/contest/internal/domain/types"
)

// SessionHeader names the request header that selects a session.
const SessionHeader = "X-Session-ID"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	OpenSession(ctx context.Context) (string, error)
	CloseSession(ctx context.Context, id string) error

	// Roster returns the tables of one session.
	Roster(ctx context.Context, id string) (repository.Roster, error)

	// SubmitScore appends a score unless submissionID was already seen.
	SubmitScore(ctx context.Context, id, submissionID string, entry model.ScoreEntry) (bool, error)

	// Read operations expose aggregated results.
	Totals(ctx context.Context, id string) (map[string]float64, error)
	Leaderboard(ctx context.Context, id string, n int) ([]Entry, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	sessionsHandler    *SessionsHandler
	contestantsHandler *MembersHandler
	judgesHandler      *MembersHandler
	weightsHandler     *WeightsHandler
	scoresHandler      *ScoresHandler
	totalsHandler      *TotalsHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		sessionsHandler:    NewSessionsHandler(deps),
		contestantsHandler: NewContestantsHandler(deps),
		judgesHandler:      NewJudgesHandler(deps),
		weightsHandler:     NewWeightsHandler(deps),
		scoresHandler:      NewScoresHandler(deps),
		totalsHandler:      NewTotalsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandleOpen, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionsHandler.HandleClose, "sessions"))
	mux.HandleFunc("/contestants", MetricsMiddleware(s.contestantsHandler.HandleCollection, "contestants"))
	mux.HandleFunc("/contestants/", MetricsMiddleware(s.contestantsHandler.HandleItem, "contestants"))
	mux.HandleFunc("/judges", MetricsMiddleware(s.judgesHandler.HandleCollection, "judges"))
	mux.HandleFunc("/judges/", MetricsMiddleware(s.judgesHandler.HandleItem, "judges"))
	mux.HandleFunc("/weights", MetricsMiddleware(s.weightsHandler.HandleGet, "weights"))
	mux.HandleFunc("/weights/", MetricsMiddleware(s.weightsHandler.HandleSet, "weights"))
	mux.HandleFunc("/scores", MetricsMiddleware(s.scoresHandler.HandleScores, "scores"))
	mux.HandleFunc("/totals", MetricsMiddleware(s.totalsHandler.HandleGetTotals, "totals"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type affectedResponse struct {
	Affected int `json:"affected"`
}

var validate = newValidator()

// newValidator registers "segment" and its comma separated form
// "segments": the value must be usable as a single
// URL path segment, so rows added by name can later be edited by name.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("segment", func(fl validator.FieldLevel) bool {
		return isSegment(fl.Field().String())
	})
	_ = v.RegisterValidation("segments", func(fl validator.FieldLevel) bool {
		for _, skill := range model.ParseSkills(fl.Field().String()) {
			if !isSegment(skill) {
				return false
			}
		}
		return true
	})
	return v
}

func isSegment(s string) bool {
	return s != "." && s != ".." && !strings.Contains(s, "/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDepError maps an error from Dependencies to a response.
func writeDepError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session_not_found", Wrap(op, err))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
}

// decodeBody reads a JSON body into dst and checks its validate tags.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

// sessionID returns the X-Session-ID header value.
func sessionID(r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.Header.Get(SessionHeader))
	return id, id != ""
}

// roster resolves the request's session. On failure the response has
// already been written and ok is false.
func roster(w http.ResponseWriter, r *http.Request, deps Dependencies, op string) (repository.Roster, bool) {
	id, ok := sessionID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_session", NewKind(op, ErrMissingSession))
		return nil, false
	}
	rs, err := deps.Roster(r.Context(), id)
	if err != nil {
		writeDepError(w, op, err)
		return nil, false
	}
	return rs, true
}

// pathParam returns the single path segment after prefix.
func pathParam(r *http.Request, prefix string) (string, bool) {
	p := strings.TrimPrefix(r.URL.Path, prefix)
	if p == "" || !isSegment(p) {
		return "", false
	}
	return p, true
}
