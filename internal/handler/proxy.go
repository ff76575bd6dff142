package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"frontdoor/internal/metrics"
	"frontdoor/internal/model"
	"frontdoor/internal/service"
)

// ProxyHandler forwards /connect and /getdata requests to the selected backend.
type ProxyHandler struct {
	service *service.ProxyService
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewProxyHandler creates a ProxyHandler. The metrics parameter is optional.
func NewProxyHandler(svc *service.ProxyService, logger *slog.Logger, m *metrics.Metrics) *ProxyHandler {
	return &ProxyHandler{
		service: svc,
		logger:  logger.With("component", "proxy_handler"),
		metrics: m,
	}
}

// Connect handles GET /connect/:service.
func (h *ProxyHandler) Connect(c echo.Context) error {
	return h.handle(c, model.ActionConnect)
}

// GetData handles GET /getdata/:service.
func (h *ProxyHandler) GetData(c echo.Context) error {
	return h.handle(c, model.ActionGetData)
}

func (h *ProxyHandler) handle(c echo.Context, act model.Action) error {
	req := c.Request()

	svc, err := model.ParseService(c.Param("service"))
	if err != nil {
		if h.metrics != nil {
			h.metrics.UnknownServices.Inc()
		}
		h.logger.Warn("rejected request",
			"err", err,
			"path", req.URL.Path,
		)
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": err.Error(),
		})
	}

	resp, err := h.service.Forward(&model.ProxyRequest{
		Ctx:     req.Context(),
		Service: svc,
		Action:  act,
		Header:  req.Header,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	defer func() { _ = resp.Body.Close() }()

	for key, vals := range resp.Header {
		c.Response().Header()[key] = vals
	}

	c.Response().WriteHeader(resp.StatusCode)

	// The status line is already sent, so a copy failure (caller gone,
	// backend reset) can only truncate the body; log it.
	if _, err := io.Copy(c.Response(), resp.Body); err != nil {
		h.logger.Error("streaming response body",
			"err", err,
			"service", svc.String(),
			"path", req.URL.Path,
		)
	}

	return nil
}

func (h *ProxyHandler) mapError(c echo.Context, err error) error {
	h.logger.Error("proxy error",
		"err", err,
		"path", c.Request().URL.Path,
	)

	if errors.Is(err, model.ErrUnknownService) {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "unknown service",
		})
	}

	if errors.Is(err, service.ErrUpstreamTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return c.JSON(http.StatusGatewayTimeout, map[string]string{
			"error": "backend request timed out",
		})
	}

	if errors.Is(err, context.Canceled) {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "client disconnected",
		})
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "backend host unreachable",
		})
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "backend connection failed",
		})
	}

	return c.JSON(http.StatusBadGateway, map[string]string{
		"error": "backend request failed",
	})
}
