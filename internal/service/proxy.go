// Package service implements the front door's dispatch and forwarding logic.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"frontdoor/internal/client"
	"frontdoor/internal/config"
	"frontdoor/internal/model"
)

// ErrUpstreamTimeout is returned when a backend does not answer within the configured timeout.
var ErrUpstreamTimeout = errors.New("backend request timed out")

// droppedRequestHeaders are never forwarded: hop-by-hop headers plus the ones
// the outbound client computes for its own connection.
var droppedRequestHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Proxy-Connection":    true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
	"Host":                true,
	"Content-Length":      true,
}

// forwardableResponseHeaders are the only response headers passed back to the caller.
var forwardableResponseHeaders = map[string]bool{
	"Content-Type":     true,
	"Content-Length":   true,
	"Content-Encoding": true,
	"Cache-Control":    true,
	"Expires":          true,
	"Date":             true,
	"X-Request-Id":     true,
}

// ProxyService resolves a service name to its backend and forwards the call.
type ProxyService struct {
	client   *client.BackendClient
	logger   *slog.Logger
	backends map[model.Service]*url.URL
}

// NewProxyService creates a ProxyService. The backend mapping is built once
// from cfg and never changes afterwards.
func NewProxyService(c *client.BackendClient, cfg *config.Config, logger *slog.Logger) (*ProxyService, error) {
	backends := make(map[model.Service]*url.URL, len(model.Services))
	for _, s := range model.Services {
		raw, ok := cfg.Backends.URL(s)
		if !ok || raw == "" {
			return nil, fmt.Errorf("no backend URL configured for %s", s)
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse backend URL for %s: %w", s, err)
		}
		backends[s] = u
	}

	return &ProxyService{
		client:   c,
		logger:   logger.With("component", "proxy_service"),
		backends: backends,
	}, nil
}

// Resolve returns the backend URL for the given service and action.
// It returns model.ErrUnknownService for services outside the routable set.
func (s *ProxyService) Resolve(svc model.Service, act model.Action) (string, error) {
	base, ok := s.backends[svc]
	if !ok {
		return "", fmt.Errorf("%w %q", model.ErrUnknownService, svc.String())
	}

	u := *base
	u.Path = strings.TrimSuffix(base.Path, "/") + act.Path()
	u.RawPath = ""
	return u.String(), nil
}

// Forward sends a ProxyRequest to its backend and returns the response.
// The caller is responsible for closing the response body.
//
// The backend status code and body are returned untouched, including 4xx/5xx.
// A timeout is reported as ErrUpstreamTimeout.
func (s *ProxyService) Forward(pr *model.ProxyRequest) (*model.ProxyResponse, error) {
	target, err := s.Resolve(pr.Service, pr.Action)
	if err != nil {
		return nil, err
	}

	header := filterRequestHeaders(pr.Header)

	s.logger.Debug("forwarding request",
		"service", pr.Service.String(),
		"action", pr.Action.String(),
		"target", target,
	)

	resp, err := s.client.Get(pr.Ctx, pr.Service, pr.Action, target, header)
	if err != nil {
		if client.IsTimeout(err) {
			return nil, fmt.Errorf("forward to %s: %w: %w", pr.Service, ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("forward to %s: %w", pr.Service, err)
	}

	resp.Header = filterResponseHeaders(resp.Header)
	return resp, nil
}

// Backends returns a copy of the service to base URL mapping for display.
func (s *ProxyService) Backends() map[string]string {
	out := make(map[string]string, len(s.backends))
	for svc, u := range s.backends {
		out[svc.String()] = u.String()
	}
	return out
}

// filterRequestHeaders copies src, dropping hop-by-hop and connection-managed
// headers as well as any header named by the Connection header.
func filterRequestHeaders(src http.Header) http.Header {
	named := make(map[string]bool)
	for _, v := range src.Values("Connection") {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				named[http.CanonicalHeaderKey(f)] = true
			}
		}
	}

	dst := make(http.Header, len(src))
	for key, vals := range src {
		ck := http.CanonicalHeaderKey(key)
		if droppedRequestHeaders[ck] || named[ck] {
			continue
		}
		dst[ck] = append([]string(nil), vals...)
	}
	return dst
}

func filterResponseHeaders(src http.Header) http.Header {
	dst := make(http.Header)
	for key, vals := range src {
		if forwardableResponseHeaders[http.CanonicalHeaderKey(key)] {
			dst[key] = vals
		}
	}
	return dst
}
