// Package server exposes the simulation engine over HTTP: an in-memory
// run store, an executor for asynchronous runs, and the JSON API the
// editor talks to.
package server

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sdcanvas/simulation-core/pkg/config"
	"github.com/sdcanvas/simulation-core/pkg/models"
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrRunExists    = errors.New("run already exists")
	ErrRunTerminal  = errors.New("run is terminal")
	ErrRunIDMissing = errors.New("run_id is required")
)

// RunRecord is one stored simulation run. Graph and Config are the
// immutable inputs; Result appears once the run completes.
type RunRecord struct {
	ID         string                   `json:"id"`
	Status     models.RunStatus         `json:"status"`
	CreatedAt  time.Time                `json:"created_at"`
	StartedAt  *time.Time               `json:"started_at,omitempty"`
	FinishedAt *time.Time               `json:"finished_at,omitempty"`
	Error      string                   `json:"error,omitempty"`
	Graph      *models.Graph            `json:"-"`
	Config     *config.SimulationConfig `json:"-"`
	Result     *models.SimulationResult `json:"result,omitempty"`
}

// RunStore is an in-memory, mutex-guarded record of runs. Accessors
// return snapshots taken under the lock; the live records never leave
// the store, so callers may read and encode them freely while the
// executor transitions the run.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*RunRecord
}

// snapshot copies the record. Graph, Config and Result are set once and
// never mutated afterwards, so sharing the pointers is safe.
func (r *RunRecord) snapshot() *RunRecord {
	cp := *r
	return &cp
}

func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*RunRecord),
	}
}

// Create registers a new pending run. An empty run ID gets a generated
// one.
func (s *RunStore) Create(runID string, g *models.Graph, cfg *config.SimulationConfig) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID == "" {
		runID = uuid.NewString()
	}
	if _, exists := s.runs[runID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrRunExists, runID)
	}

	rec := &RunRecord{
		ID:        runID,
		Status:    models.RunStatusPending,
		CreatedAt: time.Now().UTC(),
		Graph:     g,
		Config:    cfg,
	}
	s.runs[runID] = rec
	return rec.snapshot(), nil
}

// Get returns a snapshot of the record for a run ID.
func (s *RunStore) Get(runID string) (*RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[runID]
	if !ok {
		return nil, false
	}
	return rec.snapshot(), true
}

// List returns snapshots of up to limit records, newest first.
func (s *RunStore) List(limit int) []*RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	out := make([]*RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		out = append(out, rec.snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SetStatus transitions a run's status, stamping start/finish times.
func (s *RunStore) SetStatus(runID string, status models.RunStatus, errMsg string) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	now := time.Now().UTC()
	rec.Status = status
	rec.Error = errMsg
	switch status {
	case models.RunStatusRunning:
		rec.StartedAt = &now
	case models.RunStatusCompleted, models.RunStatusFailed, models.RunStatusCanceled:
		rec.FinishedAt = &now
	}
	return rec.snapshot(), nil
}

// SetResult attaches a completed result to a run.
func (s *RunStore) SetResult(runID string, result *models.SimulationResult) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	rec.Result = result
	return rec.snapshot(), nil
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(status models.RunStatus) bool {
	switch status {
	case models.RunStatusCompleted, models.RunStatusFailed, models.RunStatusCanceled:
		return true
	}
	return false
}
