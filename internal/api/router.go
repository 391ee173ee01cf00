package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"retail-insights/internal/api/handler"
	"retail-insights/internal/metrics"
	"retail-insights/pkg/router"

	_ "retail-insights/docs"
)

// RegisterRoutes mounts the API, metrics and Swagger UI on r.
func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/api/health", h.Health)

	r.GET("/api/products", h.GetProducts)
	r.GET("/api/products/export", h.ExportProducts)
	r.GET("/api/products/pricing", h.GetPricing)
	r.GET("/api/products/trending", h.GetTrending)
	r.GET("/api/marketing", h.GetMarketing)

	r.POST("/api/upload/csv", h.UploadCSV)
	r.GET("/api/uploads", h.RequireAuth(h.ListUploads))

	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/users/me", h.RequireAuth(h.Me))

	r.Handle(http.MethodGet, "/metrics", promhttp.Handler())
	r.GET("/swagger/*", httpSwagger.WrapHandler.ServeHTTP)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)
}

// ObserveRequest feeds the router's request observer into Prometheus.
func ObserveRequest(method, route string, status int, duration time.Duration) {
	metrics.RecordRequest(method, route, strconv.Itoa(status), duration.Seconds())
}
