package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/uispec/internal/server/response"
)

// HandleHealth handles GET /health (liveness probe).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "uispec",
		"version": h.app.Version(),
	})
}

// HandleReady handles GET /api/v1/ready. The host is ready when it can
// build a pipeline and the session hub is running.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	select {
	case <-h.wsHub.Done():
		response.ServiceUnavailable(w, "Session hub stopped")
		return
	default:
	}

	if _, err := h.app.Pipeline(); err != nil {
		h.logger.Error().Err(err).Msg("Pipeline not available")
		response.ServiceUnavailable(w, "Pipeline not available")
		return
	}

	response.OK(w, map[string]any{
		"status":   "ready",
		"sessions": h.wsHub.ClientCount(),
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
	})
}
