package api

import (
	"net/http"
)

type weightRequest struct {
	Weight int `json:"weight" validate:"required,min=1,max=100"`
}

// WeightsHandler handles skill weight requests.
type WeightsHandler struct {
	deps Dependencies
}

// NewWeightsHandler creates a new weights handler.
func NewWeightsHandler(deps Dependencies) *WeightsHandler {
	return &WeightsHandler{deps: deps}
}

// HandleGet handles GET /weights requests.
func (h *WeightsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_weights"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rs, ok := roster(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rs.SkillWeights(r.Context()))
}

// HandleSet handles PUT /weights/{skill} requests.
func (h *WeightsHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_weight"
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	skill, ok := pathParam(r, "/weights/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	var req weightRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	rs, ok := roster(w, r, h.deps, op)
	if !ok {
		return
	}
	rs.SetSkillWeight(r.Context(), skill, req.Weight)
	writeJSON(w, http.StatusOK, rs.SkillWeights(r.Context()))
}
