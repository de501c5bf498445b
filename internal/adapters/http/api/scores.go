package api

import (
	"net/http"

	"github.com/okian/contest/internal/domain/model"
)

// scoreRequest mirrors the OpenAPI schema for POST /scores.
type scoreRequest struct {
	Judge        string `json:"judge" validate:"required,max=50,segment"`
	Contestant   string `json:"contestant" validate:"required,max=50,segment"`
	Skill        string `json:"skill" validate:"required,max=50,segment"`
	Score        int    `json:"score" validate:"required,min=1,max=100"`
	SubmissionID string `json:"submission_id" validate:"max=100"`
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// ScoresHandler handles score log requests.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandleScores handles GET and POST /scores requests.
func (h *ScoresHandler) HandleScores(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.submit(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ScoresHandler) list(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scores"
	rs, ok := roster(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rs.Scores(r.Context()))
}

func (h *ScoresHandler) submit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_score"
	var req scoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	id, ok := sessionID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_session", NewKind(op, ErrMissingSession))
		return
	}
	entry := model.ScoreEntry{
		Judge:      req.Judge,
		Contestant: req.Contestant,
		Skill:      req.Skill,
		Score:      req.Score,
	}
	dup, err := h.deps.SubmitScore(r.Context(), id, req.SubmissionID, entry)
	if err != nil {
		writeDepError(w, op, err)
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusCreated, ackResponse{Status: "accepted"})
}
