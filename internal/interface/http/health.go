package http

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH CHECK INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// HealthChecker defines the interface for health checking.
type HealthChecker interface {
	// Check performs a health check and returns the status.
	Check(ctx context.Context) HealthStatus

	// AddCheck adds a named health check function.
	AddCheck(name string, check HealthCheckFunc)
}

// HealthCheckFunc is a function that performs a single health check.
// It returns an error if the check fails.
type HealthCheckFunc func(ctx context.Context) error

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	// Healthy indicates if the service is healthy overall.
	Healthy bool `json:"healthy"`

	// Ready indicates if the service is ready to accept requests.
	Ready bool `json:"ready"`

	// Message provides additional context about the health status.
	Message string `json:"message,omitempty"`

	// Checks contains individual health check results.
	Checks map[string]CheckResult `json:"checks,omitempty"`

	// Uptime is how long the service has been running.
	Uptime string `json:"uptime,omitempty"`

	// Timestamp is when the check was performed.
	Timestamp time.Time `json:"timestamp"`

	// Version is the service version.
	Version string `json:"version,omitempty"`
}

// CheckResult represents the result of a single health check.
type CheckResult struct {
	// Healthy indicates if this specific check passed.
	Healthy bool `json:"healthy"`

	// Message provides details about the check result.
	Message string `json:"message,omitempty"`

	// Duration is how long the check took.
	Duration string `json:"duration,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPOSITE HEALTH CHECKER
// ══════════════════════════════════════════════════════════════════════════════

// CompositeHealthChecker aggregates multiple health checks. Checks are run in
// parallel, each bounded by a per-check timeout.
type CompositeHealthChecker struct {
	mu        sync.RWMutex
	checks    map[string]HealthCheckFunc
	startTime time.Time
	version   string
	timeout   time.Duration
}

// NewCompositeHealthChecker creates a new composite health checker.
func NewCompositeHealthChecker(version string) *CompositeHealthChecker {
	return &CompositeHealthChecker{
		checks:    make(map[string]HealthCheckFunc),
		startTime: time.Now(),
		version:   version,
		timeout:   5 * time.Second,
	}
}

// SetTimeout sets the timeout for individual health checks.
func (c *CompositeHealthChecker) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// AddCheck adds a named health check function.
func (c *CompositeHealthChecker) AddCheck(name string, check HealthCheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Check performs all health checks and returns the aggregated status.
func (c *CompositeHealthChecker) Check(ctx context.Context) HealthStatus {
	c.mu.RLock()
	checks := make(map[string]HealthCheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	status := HealthStatus{
		Healthy:   true,
		Ready:     true,
		Checks:    make(map[string]CheckResult),
		Uptime:    time.Since(c.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Version:   c.version,
	}

	if len(checks) == 0 {
		status.Message = "No health checks registered"
		return status
	}

	var wg sync.WaitGroup
	results := make(chan struct {
		name   string
		result CheckResult
	}, len(checks))

	for name, check := range checks {
		wg.Add(1)
		go func(name string, check HealthCheckFunc) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			start := time.Now()
			err := check(checkCtx)
			duration := time.Since(start)

			result := CheckResult{
				Healthy:  err == nil,
				Duration: duration.Round(time.Millisecond).String(),
			}

			if err != nil {
				result.Message = err.Error()
			} else {
				result.Message = "OK"
			}

			results <- struct {
				name   string
				result CheckResult
			}{name, result}
		}(name, check)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var unhealthyChecks []string
	for r := range results {
		status.Checks[r.name] = r.result
		if !r.result.Healthy {
			status.Healthy = false
			status.Ready = false
			unhealthyChecks = append(unhealthyChecks, r.name)
		}
	}

	if status.Healthy {
		status.Message = "All checks passed"
	} else {
		sort.Strings(unhealthyChecks)
		status.Message = "Some checks failed: " + strings.Join(unhealthyChecks, ", ")
	}

	return status
}

// ══════════════════════════════════════════════════════════════════════════════
// PREDEFINED HEALTH CHECKS
// ══════════════════════════════════════════════════════════════════════════════

// Pinger is anything that can report connectivity, such as the Postgres
// connection pool or the Redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewPingCheck creates a health check function from a Pinger.
func NewPingCheck(p Pinger) HealthCheckFunc {
	return func(ctx context.Context) error {
		return p.Ping(ctx)
	}
}
