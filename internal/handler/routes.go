package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"frontdoor/internal/config"
	"frontdoor/internal/metrics"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
func RegisterRoutes(e *echo.Echo, home *HomeHandler, proxy *ProxyHandler, health *HealthHandler) {
	e.GET("/", home.Index)
	e.GET("/healthz", health.Healthz)
	e.GET("/frontdoor/status", health.Status)

	e.GET("/connect/:service", proxy.Connect)
	e.GET("/getdata/:service", proxy.GetData)
}

// RegisterMetrics exposes the Prometheus registry when metrics are enabled.
func RegisterMetrics(e *echo.Echo, cfg *config.Config, m *metrics.Metrics) {
	if !cfg.Metrics.Enabled {
		return
	}
	e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
}
