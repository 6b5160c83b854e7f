package handlers

import (
	"net/http"

	"github.com/ginot/kriptofs/pkg/passthrough"
)

// StatsHandler exposes runtime statistics about the passthrough layer.
type StatsHandler struct {
	svc *passthrough.Service
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(svc *passthrough.Service) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// InodeStats is the payload of GET /stats/inodes.
type InodeStats struct {
	// Count is the number of paths the inode table currently maps.
	Count int `json:"count"`

	// Next is the inode number the next unseen path will receive.
	// Inodes are never reclaimed, so this only grows.
	Next uint64 `json:"next"`
}

// Inodes handles GET /stats/inodes - inode table statistics.
func (h *StatsHandler) Inodes(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("service not initialized"))
		return
	}

	writeJSON(w, http.StatusOK, okResponse(InodeStats{
		Count: h.svc.InodeCount(),
		Next:  h.svc.NextInode(),
	}))
}

// Info handles GET /stats - general service information.
func (h *StatsHandler) Info(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("service not initialized"))
		return
	}

	writeJSON(w, http.StatusOK, okResponse(map[string]interface{}{
		"source":     h.svc.Source(),
		"inodes":     h.svc.InodeCount(),
		"next_inode": h.svc.NextInode(),
	}))
}
