package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Metrics struct {
	mu             sync.RWMutex
	RequestCount   int64            `json:"request_count"`
	ActiveRequests int64            `json:"active_requests"`
	ErrorCount     int64            `json:"error_count"`
	StatusCodes    map[string]int64 `json:"status_codes"`
	Endpoints      map[string]int64 `json:"endpoint_calls"`
	StartTime      time.Time        `json:"start_time"`
	LastRequest    time.Time        `json:"last_request"`
	totalDuration  time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{
		StatusCodes: make(map[string]int64),
		Endpoints:   make(map[string]int64),
		StartTime:   time.Now(),
	}
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.mu.Lock()
		m.ActiveRequests++
		m.mu.Unlock()

		c.Next()

		duration := time.Since(start)
		status := fmt.Sprintf("%d", c.Writer.Status())
		endpoint := c.Request.Method + " " + c.FullPath()

		m.mu.Lock()
		m.ActiveRequests--
		m.RequestCount++
		m.totalDuration += duration
		m.LastRequest = time.Now()
		m.StatusCodes[status]++
		m.Endpoints[endpoint]++
		if c.Writer.Status() >= http.StatusInternalServerError {
			m.ErrorCount++
		}
		m.mu.Unlock()
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		m.mu.RLock()
		var avgDuration time.Duration
		if m.RequestCount > 0 {
			avgDuration = m.totalDuration / time.Duration(m.RequestCount)
		}
		// Copy the maps so serialization after unlock never touches the
		// live ones the middleware keeps writing to.
		statusCodes := make(map[string]int64, len(m.StatusCodes))
		for k, v := range m.StatusCodes {
			statusCodes[k] = v
		}
		endpoints := make(map[string]int64, len(m.Endpoints))
		for k, v := range m.Endpoints {
			endpoints[k] = v
		}
		snapshot := gin.H{
			"request_count":           m.RequestCount,
			"active_requests":         m.ActiveRequests,
			"error_count":             m.ErrorCount,
			"status_codes":            statusCodes,
			"endpoint_calls":          endpoints,
			"avg_request_duration_ms": avgDuration.Milliseconds(),
			"uptime_seconds":          int64(time.Since(m.StartTime).Seconds()),
			"goroutines":              runtime.NumGoroutine(),
			"heap_alloc_bytes":        memStats.HeapAlloc,
		}
		m.mu.RUnlock()

		c.JSON(http.StatusOK, snapshot)
	}
}

type HealthCheckFunc func(ctx context.Context) error

type HealthCheck struct {
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	LastRun time.Time `json:"last_run"`
}

type HealthChecker struct {
	mu     sync.RWMutex
	checks map[string]HealthCheckFunc
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{checks: make(map[string]HealthCheckFunc)}
}

func (h *HealthChecker) Register(name string, check HealthCheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

func (h *HealthChecker) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		h.mu.RLock()
		names := make([]string, 0, len(h.checks))
		funcs := make([]HealthCheckFunc, 0, len(h.checks))
		for name, fn := range h.checks {
			names = append(names, name)
			funcs = append(funcs, fn)
		}
		h.mu.RUnlock()

		overall := http.StatusOK
		results := make([]HealthCheck, 0, len(names))
		for i, fn := range funcs {
			result := HealthCheck{Name: names[i], Status: "ok", LastRun: time.Now()}
			if err := fn(ctx); err != nil {
				result.Status = "failing"
				result.Message = err.Error()
				overall = http.StatusServiceUnavailable
			}
			results = append(results, result)
		}

		c.JSON(overall, gin.H{
			"status": http.StatusText(overall),
			"checks": results,
		})
	}
}
