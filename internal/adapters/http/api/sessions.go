package api

import (
	"context"
	"net/http"
)

// SessionDependencies defines the interface for session lifecycle operations.
type SessionDependencies interface {
	OpenSession(ctx context.Context) (string, error)
	CloseSession(ctx context.Context, id string) error
}

// SessionsHandler handles session requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

// HandleOpen handles POST /sessions requests.
func (h *SessionsHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	const op = "api.open_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	id, err := h.deps.OpenSession(r.Context())
	if err != nil {
		writeDepError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id})
}

// HandleClose handles DELETE /sessions/{id} requests.
func (h *SessionsHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	const op = "api.close_session"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id, ok := pathParam(r, "/sessions/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.CloseSession(r.Context(), id); err != nil {
		writeDepError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
