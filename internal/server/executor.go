package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sdcanvas/simulation-core/internal/engine"
	"github.com/sdcanvas/simulation-core/pkg/logger"
	"github.com/sdcanvas/simulation-core/pkg/models"
)

// RunExecutor manages asynchronous run execution and per-run
// cancellation. The engine itself is synchronous and uninterruptible;
// cancellation discards the result of a superseded run rather than
// aborting the computation.
type RunExecutor struct {
	store   *RunStore
	engine  *engine.Engine
	metrics *Metrics

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func NewRunExecutor(store *RunStore, eng *engine.Engine, metrics *Metrics) *RunExecutor {
	return &RunExecutor{
		store:   store,
		engine:  eng,
		metrics: metrics,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Start begins executing a run asynchronously. Returns the updated run
// state (running) or an error.
func (e *RunExecutor) Start(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}

	rec, ok := e.store.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	switch {
	case rec.Status == models.RunStatusRunning:
		return rec, nil
	case IsTerminal(rec.Status):
		return nil, fmt.Errorf("%w: %s", ErrRunTerminal, runID)
	}

	updated, err := e.store.SetStatus(runID, models.RunStatusRunning, "")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	if old, exists := e.cancels[runID]; exists {
		old()
	}
	e.cancels[runID] = cancel
	e.mu.Unlock()

	go e.runSimulation(ctx, runID)
	return updated, nil
}

// Cancel requests cancellation for a run and marks it canceled. A
// still-running computation's result is discarded when it lands.
func (e *RunExecutor) Cancel(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}

	e.mu.Lock()
	cancel, ok := e.cancels[runID]
	e.mu.Unlock()
	if ok {
		cancel()
	}

	rec, found := e.store.Get(runID)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if IsTerminal(rec.Status) {
		return rec, nil
	}
	return e.store.SetStatus(runID, models.RunStatusCanceled, "")
}

func (e *RunExecutor) cleanup(runID string) {
	e.mu.Lock()
	if cancel, ok := e.cancels[runID]; ok {
		cancel()
		delete(e.cancels, runID)
	}
	e.mu.Unlock()
}

func (e *RunExecutor) runSimulation(ctx context.Context, runID string) {
	defer e.cleanup(runID)

	rec, ok := e.store.Get(runID)
	if !ok {
		logger.Error("run not found", "run_id", runID)
		return
	}

	started := time.Now()
	result, err := e.engine.Run(rec.Graph, rec.Config)
	elapsed := time.Since(started)

	// A cancellation that raced the computation wins: the result is
	// discarded, per the engine's caller-cancels contract.
	if ctx.Err() != nil {
		logger.Info("run canceled; discarding result", "run_id", runID)
		e.metrics.ObserveRun(models.RunStatusCanceled, elapsed)
		return
	}

	if err != nil {
		logger.Error("simulation failed", "run_id", runID, "error", err)
		if _, setErr := e.store.SetStatus(runID, models.RunStatusFailed, err.Error()); setErr != nil {
			logger.Error("failed to record failure", "run_id", runID, "error", setErr)
		}
		e.metrics.ObserveRun(models.RunStatusFailed, elapsed)
		return
	}

	if _, err := e.store.SetResult(runID, result); err != nil {
		logger.Error("failed to store result", "run_id", runID, "error", err)
		return
	}
	if _, err := e.store.SetStatus(runID, models.RunStatusCompleted, ""); err != nil {
		logger.Error("failed to record completion", "run_id", runID, "error", err)
		return
	}

	e.metrics.ObserveRun(models.RunStatusCompleted, elapsed)
	logger.Info("simulation completed",
		"run_id", runID,
		"elapsed", elapsed,
		"bottlenecks", len(result.Bottlenecks),
		"warnings", len(result.Warnings))
}
