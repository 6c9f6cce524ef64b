// Package health serves the liveness, readiness and status probes.
package health

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"mrzgate/pkg/mrz"
	"mrzgate/pkg/platform/httputil"
)

// CheckFunc reports whether a dependency is usable. Checks run concurrently
// under a shared CheckTimeout.
type CheckFunc func(ctx context.Context) error

// CheckTimeout bounds each readiness round.
const CheckTimeout = 2 * time.Second

type Option func(*Handler)

// WithVersion sets the build version reported by /health.
func WithVersion(v string) Option {
	return func(h *Handler) {
		if v != "" {
			h.version = v
		}
	}
}

// WithRegulatedMode reports whether decoded records are minimized.
func WithRegulatedMode(on bool) Option {
	return func(h *Handler) {
		h.regulated = on
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

type Handler struct {
	environment string
	version     string
	regulated   bool
	now         func() time.Time
	startTime   time.Time

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

func New(environment string, opts ...Option) *Handler {
	h := &Handler{
		environment: environment,
		version:     "dev",
		now:         time.Now,
		checks:      make(map[string]CheckFunc),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.startTime = h.now()
	return h
}

// RegisterCheck adds a named dependency to the readiness probe. Registering
// the same name twice replaces the first check.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

type LivenessResponse struct {
	Status string `json:"status"`
}

// HandleLiveness answers 200 as long as the process serves HTTP.
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleReadiness runs every registered check and answers 503 when any of
// them fails.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	results := h.runChecks(r.Context())

	response := ReadinessResponse{Status: "ready", Checks: make(map[string]string, len(results))}
	for _, name := range slices.Sorted(maps.Keys(results)) {
		if err := results[name]; err != nil {
			response.Checks[name] = "down: " + err.Error()
			response.Status = "not_ready"
			continue
		}
		response.Checks[name] = "up"
	}

	status := http.StatusOK
	if response.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, response)
}

func (h *Handler) runChecks(ctx context.Context) map[string]error {
	h.mu.RLock()
	checks := maps.Clone(h.checks)
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]error, len(checks))
		g       errgroup.Group
	)
	for name, check := range checks {
		g.Go(func() error {
			err := check(ctx)
			mu.Lock()
			results[name] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // goroutines report through results
	return results
}

type StatusResponse struct {
	Status        string   `json:"status"`
	Version       string   `json:"version"`
	Environment   string   `json:"environment"`
	RegulatedMode bool     `json:"regulated_mode"`
	Formats       []string `json:"formats"`
	UptimeSeconds int64    `json:"uptime_seconds"`
	Timestamp     string   `json:"timestamp"`
}

// HandleStatus reports build and runtime details, including the MRZ
// formats this build decodes.
func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	formats := mrz.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}

	now := h.now()
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       h.version,
		Environment:   h.environment,
		RegulatedMode: h.regulated,
		Formats:       names,
		UptimeSeconds: int64(now.Sub(h.startTime).Seconds()),
		Timestamp:     now.UTC().Format(time.RFC3339),
	})
}
