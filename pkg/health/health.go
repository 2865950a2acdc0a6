package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/tair/alcohol-tracker/pkg/logger"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc returns nil when the dependency is usable
type CheckFunc func(ctx context.Context) error

// ComponentHealth represents the health status of one dependency
type ComponentHealth struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	LatencyMS int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Report is the rolled up service health
type Report struct {
	Service       string                     `json:"service"`
	Status        string                     `json:"status"`
	Components    map[string]ComponentHealth `json:"components"`
	UptimeSeconds float64                    `json:"uptime_seconds"`
}

// Checker runs named dependency checks concurrently
type Checker struct {
	service   string
	timeout   time.Duration
	startTime time.Time

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

func NewChecker(service string, timeout time.Duration) *Checker {
	return &Checker{
		service:   service,
		timeout:   timeout,
		startTime: time.Now(),
		checks:    make(map[string]CheckFunc),
	}
}

// Register adds or replaces a named check
func (c *Checker) Register(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = fn
}

func (c *Checker) checkOne(ctx context.Context, name string, fn CheckFunc) ComponentHealth {
	start := time.Now()
	result := ComponentHealth{Name: name, Timestamp: start.UTC(), Status: StatusHealthy}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}
	result.LatencyMS = time.Since(start).Milliseconds()
	return result
}

// CheckAll runs every registered check
func (c *Checker) CheckAll(ctx context.Context) Report {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, fn := range c.checks {
		checks[name] = fn
	}
	c.mu.RUnlock()

	components := make(map[string]ComponentHealth, len(checks))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, fn := range checks {
		wg.Add(1)
		go func(n string, f CheckFunc) {
			defer wg.Done()
			h := c.checkOne(ctx, n, f)

			mu.Lock()
			components[n] = h
			mu.Unlock()

			if h.Status == StatusHealthy {
				logger.Logger.Debug().
					Str("component", n).
					Int64("latency_ms", h.LatencyMS).
					Msg("Health check")
			} else {
				logger.Logger.Warn().
					Str("component", n).
					Str("error", h.Error).
					Msg("Health check failed")
			}
		}(name, fn)
	}
	wg.Wait()

	return Report{
		Service:       c.service,
		Status:        overallStatus(components),
		Components:    components,
		UptimeSeconds: time.Since(c.startTime).Seconds(),
	}
}

func overallStatus(components map[string]ComponentHealth) string {
	healthy := 0
	for _, comp := range components {
		if comp.Status == StatusHealthy {
			healthy++
		}
	}

	switch {
	case healthy == len(components):
		return StatusHealthy
	case healthy > 0:
		return StatusDegraded
	default:
		return StatusUnhealthy
	}
}

// Handler serves the report. Only a fully unhealthy service answers 503.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := c.CheckAll(r.Context())

		status := http.StatusOK
		if report.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(report)
	}
}
