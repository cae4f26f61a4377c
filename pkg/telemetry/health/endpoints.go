package health

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"
)

// Endpoint paths mounted by Mount.
const (
	LivenessPath  = "/health"
	ReadinessPath = "/ready"
	VersionPath   = "/version"
)

// VersionInfo contains build and version information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

type liveness struct {
	Status string    `json:"status"`
	Uptime string    `json:"uptime"`
	Since  time.Time `json:"since"`
}

// LivenessHandler answers 200 for as long as the process serves HTTP.
func LivenessHandler() http.HandlerFunc {
	started := time.Now()
	return getOnly(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, liveness{
			Status: "ok",
			Uptime: time.Since(started).Truncate(time.Second).String(),
			Since:  started,
		})
	})
}

// ReadinessHandler answers 503 when the database is unreachable or the last
// scheduled run failed:
//
//	{
//	    "status": "degraded",
//	    "source": {"reachable": true, "latency_ns": 1200000},
//	    "last_run": {"run_id": "...", "fetched": 4, "emitted": 3, "skipped": 0,
//	                 "filtered": 0, "error": "record 3: invalid record"},
//	    "timestamp": "2025-11-20T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return getOnly(func(w http.ResponseWriter, r *http.Request) {
		report := c.Readiness(r.Context())
		code := http.StatusOK
		if !report.Ready() {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, r, code, report)
	})
}

// VersionHandler returns an HTTP handler reporting build information.
func VersionHandler(info VersionInfo) http.HandlerFunc {
	if info.GoVersion == "" {
		info.GoVersion = runtime.Version()
	}
	return getOnly(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, info)
	})
}

// Mount registers the liveness, readiness and version endpoints on mux.
func Mount(mux *http.ServeMux, checker *Checker, info VersionInfo) {
	mux.HandleFunc(LivenessPath, LivenessHandler())
	mux.HandleFunc(ReadinessPath, checker.ReadinessHandler())
	mux.HandleFunc(VersionPath, VersionHandler(info))
}

func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(v)
	}
}
