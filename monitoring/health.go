package monitoring

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"time"
)

type HealthStatus struct {
	Status          string            `json:"status"`
	Uptime          string            `json:"uptime"`
	StartTime       time.Time         `json:"start_time"`
	MemoryUsage     uint64            `json:"memory_usage"`
	GoroutineCount  int               `json:"goroutine_count"`
	ComponentStatus map[string]string `json:"component_status"`
}

var (
	startTime = time.Now()

	mu           sync.RWMutex
	healthChecks = make(map[string]func() bool)
)

// RegisterHealthCheck adds a named component liveness probe.
func RegisterHealthCheck(name string, check func() bool) {
	mu.Lock()
	defer mu.Unlock()
	healthChecks[name] = check
}

// HealthCheckHandler serves GET /health; everything else is a 404.
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/health" {
		http.NotFound(w, r)
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status := HealthStatus{
		Status:          "ok",
		Uptime:          time.Since(startTime).String(),
		StartTime:       startTime,
		MemoryUsage:     m.Alloc,
		GoroutineCount:  runtime.NumGoroutine(),
		ComponentStatus: make(map[string]string),
	}

	mu.RLock()
	for name, check := range healthChecks {
		if check() {
			status.ComponentStatus[name] = "healthy"
		} else {
			status.ComponentStatus[name] = "unhealthy"
			status.Status = "degraded"
		}
	}
	mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
