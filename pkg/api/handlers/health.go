package handlers

import (
	"net/http"
	"os"

	"github.com/ginot/kriptofs/pkg/passthrough"
)

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated and provide:
//   - Liveness probe: Is the server process running?
//   - Readiness probe: Is the filesystem mounted and the source reachable?
type HealthHandler struct {
	svc     *passthrough.Service
	mounted func() bool
}

// NewHealthHandler creates a new health handler.
//
// The service parameter may be nil, in which case readiness checks
// return unhealthy status. mounted reports whether the FUSE mount is
// up; pass nil when no mount is managed (e.g. tests).
func NewHealthHandler(svc *passthrough.Service, mounted func() bool) *HealthHandler {
	return &HealthHandler{svc: svc, mounted: mounted}
}

// Liveness handles GET /health - simple liveness probe.
//
// Returns 200 OK if the server process is running. Designed for
// Kubernetes liveness probes; succeeds as long as the HTTP server is
// responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "kriptofs",
	}))
}

// Readiness handles GET /health/ready - readiness probe.
//
// Returns 200 OK if the server is ready to serve reads. This checks:
//   - Passthrough service is initialized
//   - Source directory is still reachable
//   - FUSE filesystem is mounted (when a mount is managed)
//
// Returns 503 Service Unavailable otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("service not initialized"))
		return
	}

	if info, err := os.Stat(h.svc.Source()); err != nil || !info.IsDir() {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("source directory not reachable"))
		return
	}

	if h.mounted != nil && !h.mounted() {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("filesystem not mounted"))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]interface{}{
		"source": h.svc.Source(),
		"inodes": h.svc.InodeCount(),
	}))
}
