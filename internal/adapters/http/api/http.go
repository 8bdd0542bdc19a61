// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/growthdash/internal/domain/feature"
	"github.com/okian/growthdash/internal/domain/forecast"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PredictDependencies
	SkillsDependencies
	IndustriesDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	predictHandler    *PredictHandler
	skillsHandler     *SkillsHandler
	industriesHandler *IndustriesHandler
	dashboardHandler  *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		predictHandler:    NewPredictHandler(deps),
		skillsHandler:     NewSkillsHandler(deps),
		industriesHandler: NewIndustriesHandler(deps),
		dashboardHandler:  newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/skills", MetricsMiddleware(s.skillsHandler.HandleGetSkills, "skills"))
	mux.HandleFunc("/industries", MetricsMiddleware(s.industriesHandler.HandleGetIndustries, "industries"))
}

type errorResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Issues  []feature.Issue `json:"issues,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	resp := errorResponse{Code: code, Message: msg}
	if err != nil {
		resp.Message = err.Error()
		var verr *feature.ValidationError
		if errors.As(err, &verr) {
			resp.Issues = verr.Issues
		}
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps a service error onto a status and error code.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, feature.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, forecast.ErrPredictionFailed):
		writeError(w, http.StatusBadGateway, "prediction_failed", WrapKind(op, ErrUpstream, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}
