// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/growthdash/internal/domain/skills"
	"github.com/okian/growthdash/internal/domain/types"
)

// SkillsDependencies defines the interface for skill recommendations.
type SkillsDependencies interface {
	Recommend(ctx context.Context, industry, field string) (skills.Recommendation, error)
}

// SkillsHandler handles skill recommendation requests.
type SkillsHandler struct {
	deps SkillsDependencies
}

// NewSkillsHandler creates a new skills handler.
func NewSkillsHandler(deps SkillsDependencies) *SkillsHandler {
	return &SkillsHandler{deps: deps}
}

// HandleGetSkills handles GET /skills?industry=...&field=... requests. An
// empty result is a 200 with the reason in "empty" and "message".
func (h *SkillsHandler) HandleGetSkills(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_skills"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	rec, err := h.deps.Recommend(r.Context(), q.Get("industry"), q.Get("field"))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewSkillsResponse(rec))
}
