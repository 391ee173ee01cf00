package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus is the payload of the health check.
type HealthStatus struct {
	Message  string   `json:"message"`
	Database string   `json:"database"`
	Uptime   string   `json:"uptime"`
	Routes   []string `json:"routes"`
}

var routeGroups = []string{"products", "marketing", "upload", "uploads", "auth", "users"}

// Health reports liveness and the available route groups
// @Summary Health check
// @Description Liveness probe listing the API route groups
// @Tags health
// @Produce json
// @Success 200 {object} Response{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Message:  "API routes are working",
		Database: "ok",
		Uptime:   time.Since(h.StartedAt).Round(time.Second).String(),
		Routes:   routeGroups,
	}
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.Ping(ctx); err != nil {
			status.Database = "unavailable"
		}
	}
	SuccessResponse(w, status)
}
