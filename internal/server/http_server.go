package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sdcanvas/simulation-core/internal/document"
	"github.com/sdcanvas/simulation-core/pkg/config"
	"github.com/sdcanvas/simulation-core/pkg/logger"
	"github.com/sdcanvas/simulation-core/pkg/models"
)

type HTTPServer struct {
	mux      *http.ServeMux
	store    *RunStore
	Executor *RunExecutor
	metrics  *Metrics
}

func NewHTTPServer(store *RunStore, executor *RunExecutor, metrics *Metrics) *HTTPServer {
	s := &HTTPServer{
		mux:      http.NewServeMux(),
		store:    store,
		Executor: executor,
		metrics:  metrics,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.Handle("/metrics", metrics.Handler())
	s.mux.HandleFunc("/v1/simulations", s.handleSimulations)
	s.mux.HandleFunc("/v1/simulations/", s.handleSimulationByID)

	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleSimulations handles /v1/simulations
func (s *HTTPServer) handleSimulations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSimulation(w, r)
	case http.MethodGet:
		s.handleListSimulations(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSimulationByID handles /v1/simulations/{id} and {id}:cancel
func (s *HTTPServer) handleSimulationByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/simulations/")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "run ID is required")
		return
	}

	if strings.HasSuffix(path, ":cancel") {
		runID := strings.TrimSuffix(path, ":cancel")
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleCancelSimulation(w, r, runID)
		return
	}

	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.handleGetSimulation(w, r, path)
}

// createSimulationRequest carries either a persisted document (which is
// validated and migrated by the document package) or an already-parsed
// graph, plus the traffic configuration as YAML or structured JSON.
type createSimulationRequest struct {
	RunID      string                   `json:"run_id,omitempty"`
	Document   json.RawMessage          `json:"document,omitempty"`
	Graph      *models.Graph            `json:"graph,omitempty"`
	ConfigYAML string                   `json:"config_yaml,omitempty"`
	Config     *config.SimulationConfig `json:"config,omitempty"`
}

func (s *HTTPServer) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	var req createSimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var g *models.Graph
	switch {
	case len(req.Document) > 0:
		parsed, err := document.ParseContent(req.Document)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		g = parsed
	case req.Graph != nil:
		g = req.Graph
	default:
		s.writeError(w, http.StatusBadRequest, "document or graph is required")
		return
	}

	var cfg *config.SimulationConfig
	switch {
	case req.ConfigYAML != "":
		parsed, err := config.ParseSimulationYAMLString(req.ConfigYAML)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cfg = parsed
	case req.Config != nil:
		cfg = req.Config
	default:
		s.writeError(w, http.StatusBadRequest, "config or config_yaml is required")
		return
	}

	rec, err := s.store.Create(req.RunID, g, cfg)
	if err != nil {
		if errors.Is(err, ErrRunExists) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := s.Executor.Start(rec.ID); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": err.Error(),
			"run":   s.failRun(rec.ID, err),
		})
		return
	}

	logger.Info("simulation created", "run_id", rec.ID)
	s.writeJSON(w, http.StatusCreated, map[string]any{"run": rec})
}

// failRun marks a run that could not be started as failed, so no run
// lingers in pending after a create error. Runs that already reached a
// terminal state keep it.
func (s *HTTPServer) failRun(runID string, cause error) *RunRecord {
	rec, ok := s.store.Get(runID)
	if !ok {
		return nil
	}
	if IsTerminal(rec.Status) {
		return rec
	}
	updated, err := s.store.SetStatus(runID, models.RunStatusFailed, cause.Error())
	if err != nil {
		return rec
	}
	return updated
}

func (s *HTTPServer) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
			if limit > 1000 {
				limit = 1000
			}
		}
	}

	runs := s.store.List(limit)

	statusFilter := r.URL.Query().Get("status")
	if statusFilter != "" {
		filtered := runs[:0:0]
		for _, rec := range runs {
			if string(rec.Status) == statusFilter {
				filtered = append(filtered, rec)
			}
		}
		runs = filtered
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

func (s *HTTPServer) handleGetSimulation(w http.ResponseWriter, r *http.Request, runID string) {
	rec, ok := s.store.Get(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not found: "+runID)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"run": rec})
}

func (s *HTTPServer) handleCancelSimulation(w http.ResponseWriter, r *http.Request, runID string) {
	rec, err := s.Executor.Cancel(runID)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"run": rec})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]any{"error": msg})
}
