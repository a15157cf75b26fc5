package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/utafrali/catalog-datagen/pkg/httputil"
)

// Checker is a function that checks the health of a dependency.
type Checker func(ctx context.Context) error

// Status represents the health status of a component.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Phase is the lifecycle stage of a generation run.
type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseRunning   Phase = "running"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// Response is the JSON response returned by the probe endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the result of a single health check.
type CheckResult struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RunReport is the JSON body of the run status endpoint.
type RunReport struct {
	RunID     string         `json:"run_id,omitempty"`
	Phase     Phase          `json:"phase"`
	Generator string         `json:"generator,omitempty"`
	Generated map[string]int `json:"generated"`
	Error     string         `json:"error,omitempty"`
	StartedAt *time.Time     `json:"started_at,omitempty"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
}

// Handler serves liveness, readiness and run status for the generator's
// side-car HTTP server.
type Handler struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	run      RunReport
}

// NewHandler creates a new health check handler.
func NewHandler() *Handler {
	return &Handler{
		checkers: make(map[string]Checker),
		run:      RunReport{Phase: PhasePending, Generated: make(map[string]int)},
	}
}

// Register adds a named dependency checker used by readiness.
func (h *Handler) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// Start marks the run as running.
func (h *Handler) Start(runID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now().UTC()
	h.run.RunID = runID
	h.run.Phase = PhaseRunning
	h.run.StartedAt = &now
}

// SetGenerator records which generator is currently producing records.
func (h *Handler) SetGenerator(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.run.Generator = name
}

// Generated records that n more records of entity were produced.
func (h *Handler) Generated(entity string, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.run.Generated[entity] += n
}

// Finish marks the run as succeeded, or failed when err is non-nil.
func (h *Handler) Finish(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now().UTC()
	h.run.EndedAt = &now
	h.run.Generator = ""
	if err != nil {
		h.run.Phase = PhaseFailed
		h.run.Error = err.Error()
		return
	}
	h.run.Phase = PhaseSucceeded
}

// Report returns a copy of the current run report.
func (h *Handler) Report() RunReport {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r := h.run
	r.Generated = make(map[string]int, len(h.run.Generated))
	for k, v := range h.run.Generated {
		r.Generated[k] = v
	}
	return r
}

// LivenessHandler returns a simple liveness check (always 200 if the process is running).
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, Response{Status: StatusUp, Timestamp: time.Now().UTC()})
	}
}

// ReadinessHandler checks all registered dependencies and returns 200/503.
// A failed run also reports not ready.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		h.mu.RLock()
		names := make([]string, 0, len(h.checkers))
		checkers := make(map[string]Checker, len(h.checkers))
		for k, v := range h.checkers {
			names = append(names, k)
			checkers[k] = v
		}
		phase := h.run.Phase
		h.mu.RUnlock()
		sort.Strings(names)

		checks := make(map[string]CheckResult, len(checkers)+1)
		overall := StatusUp
		for _, name := range names {
			if err := checkers[name](ctx); err != nil {
				checks[name] = CheckResult{Status: StatusDown, Error: err.Error()}
				overall = StatusDown
				continue
			}
			checks[name] = CheckResult{Status: StatusUp}
		}
		if phase == PhaseFailed {
			checks["run"] = CheckResult{Status: StatusDown, Error: "generation run failed"}
			overall = StatusDown
		}

		code := http.StatusOK
		if overall == StatusDown {
			code = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, code, Response{Status: overall, Timestamp: time.Now().UTC(), Checks: checks})
	}
}

// RunHandler reports the progress of the current generation run.
func (h *Handler) RunHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, h.Report())
	}
}
