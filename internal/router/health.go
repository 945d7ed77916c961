package router

import (
	"net/http"
	"runtime"
	"time"

	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/pkg/utilities"
)

// HealthResponse reports process liveness plus coarse runtime stats.
type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
	Uptime    float64      `json:"uptime"`
	Memory    MemoryReport `json:"memory"`
}

// MemoryReport holds runtime memory figures in MiB.
type MemoryReport struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"totalAlloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"numGC"`
}

const mib = 1024 * 1024

// HealthHandler returns the /health handler. Uptime counts from handler
// construction, which coincides with process start.
func HealthHandler() http.HandlerFunc {
	start := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		utilities.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:    "OK",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Uptime:    time.Since(start).Seconds(),
			Memory: MemoryReport{
				Alloc:      m.Alloc / mib,
				TotalAlloc: m.TotalAlloc / mib,
				Sys:        m.Sys / mib,
				NumGC:      m.NumGC,
			},
		})
	}
}

// IndexHandler describes the API surface at the root path.
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	utilities.WriteJSON(w, http.StatusOK, map[string]any{
		"message":   "Todo API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": map[string]any{
			"auth": map[string]string{
				"register": "POST /api/auth/register",
				"login":    "POST /api/auth/login",
				"profile":  "GET /api/auth/profile",
			},
			"todos": map[string]string{
				"getAll": "GET /api/todos",
				"getOne": "GET /api/todos/{id}",
				"create": "POST /api/todos",
				"update": "PUT /api/todos/{id}",
				"delete": "DELETE /api/todos/{id}",
			},
		},
	})
}
