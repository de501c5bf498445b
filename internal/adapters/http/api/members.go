package api

import (
	"context"
	"net/http"

	repository "github.com/okian/contest/internal/adapters/repository"
	"github.com/okian/contest/internal/domain/model"
)

// memberRequest is the body for adding or editing a contestant or judge.
// Skills travel as comma separated text, e.g. "Dance, Music".
type memberRequest struct {
	Name   string `json:"name" validate:"required,max=50,segment"`
	Skills string `json:"skills" validate:"max=100,segments"`
}

// memberTable binds the roster methods of one table.
type memberTable struct {
	name   string
	list   func(ctx context.Context, rs repository.Roster) any
	add    func(ctx context.Context, rs repository.Roster, name string, skills []string) any
	update func(ctx context.Context, rs repository.Roster, name, newName string, skills []string) int
	remove func(ctx context.Context, rs repository.Roster, name string) int
}

// MembersHandler serves one roster table (contestants or judges).
type MembersHandler struct {
	deps   Dependencies
	table  memberTable
	prefix string
}

// NewContestantsHandler creates a handler for /contestants.
func NewContestantsHandler(deps Dependencies) *MembersHandler {
	return &MembersHandler{
		deps:   deps,
		prefix: "/contestants/",
		table: memberTable{
			name: "contestant",
			list: func(ctx context.Context, rs repository.Roster) any { return rs.Contestants(ctx) },
			add: func(ctx context.Context, rs repository.Roster, name string, skills []string) any {
				return rs.AddContestant(ctx, name, skills)
			},
			update: func(ctx context.Context, rs repository.Roster, name, newName string, skills []string) int {
				return rs.UpdateContestant(ctx, name, newName, skills)
			},
			remove: func(ctx context.Context, rs repository.Roster, name string) int {
				return rs.RemoveContestant(ctx, name)
			},
		},
	}
}

// NewJudgesHandler creates a handler for /judges.
func NewJudgesHandler(deps Dependencies) *MembersHandler {
	return &MembersHandler{
		deps:   deps,
		prefix: "/judges/",
		table: memberTable{
			name: "judge",
			list: func(ctx context.Context, rs repository.Roster) any { return rs.Judges(ctx) },
			add: func(ctx context.Context, rs repository.Roster, name string, skills []string) any {
				return rs.AddJudge(ctx, name, skills)
			},
			update: func(ctx context.Context, rs repository.Roster, name, newName string, skills []string) int {
				return rs.UpdateJudge(ctx, name, newName, skills)
			},
			remove: func(ctx context.Context, rs repository.Roster, name string) int {
				return rs.RemoveJudge(ctx, name)
			},
		},
	}
}

// HandleCollection handles GET and POST on the table root.
func (h *MembersHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	op := "api." + h.table.name + "s"
	switch r.Method {
	case http.MethodGet:
		rs, ok := roster(w, r, h.deps, op)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, h.table.list(r.Context(), rs))
	case http.MethodPost:
		var req memberRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		rs, ok := roster(w, r, h.deps, op)
		if !ok {
			return
		}
		row := h.table.add(r.Context(), rs, req.Name, model.ParseSkills(req.Skills))
		writeJSON(w, http.StatusCreated, row)
	default:
		http.NotFound(w, r)
	}
}

// HandleItem handles PUT and DELETE on /{table}/{name}.
func (h *MembersHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	op := "api." + h.table.name
	if r.Method != http.MethodPut && r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	name, ok := pathParam(r, h.prefix)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	if r.Method == http.MethodDelete {
		rs, ok := roster(w, r, h.deps, op)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, affectedResponse{Affected: h.table.remove(r.Context(), rs, name)})
		return
	}

	var req memberRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	rs, ok := roster(w, r, h.deps, op)
	if !ok {
		return
	}
	n := h.table.update(r.Context(), rs, name, req.Name, model.ParseSkills(req.Skills))
	writeJSON(w, http.StatusOK, affectedResponse{Affected: n})
}
