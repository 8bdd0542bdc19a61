// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/growthdash/internal/domain/types"
)

// IndustriesDependencies defines the interface for listing industries.
type IndustriesDependencies interface {
	Industries(ctx context.Context) ([]string, error)
}

// IndustriesHandler handles industry listing requests.
type IndustriesHandler struct {
	deps IndustriesDependencies
}

// NewIndustriesHandler creates a new industries handler.
func NewIndustriesHandler(deps IndustriesDependencies) *IndustriesHandler {
	return &IndustriesHandler{deps: deps}
}

// HandleGetIndustries handles GET /industries requests.
func (h *IndustriesHandler) HandleGetIndustries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_industries"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	inds, err := h.deps.Industries(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	if inds == nil {
		inds = []string{}
	}
	writeJSON(w, http.StatusOK, types.IndustriesResponse{Industries: inds})
}
