// Package model defines shared types for the front door.
package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUnknownService is returned when a service name is not one of the known backends.
var ErrUnknownService = errors.New("unknown service")

// Service identifies one of the demo backends.
type Service int

const (
	ServiceUnknown Service = iota
	ServicePrivileged
	ServiceRestricted
	ServiceExternal
)

// Services lists every routable backend in display order.
var Services = []Service{ServicePrivileged, ServiceRestricted, ServiceExternal}

// ParseService maps a path segment to a Service. Matching is exact and case-sensitive.
func ParseService(name string) (Service, error) {
	switch name {
	case "privileged":
		return ServicePrivileged, nil
	case "restricted":
		return ServiceRestricted, nil
	case "external":
		return ServiceExternal, nil
	default:
		return ServiceUnknown, fmt.Errorf("%w %q", ErrUnknownService, name)
	}
}

func (s Service) String() string {
	switch s {
	case ServicePrivileged:
		return "privileged"
	case ServiceRestricted:
		return "restricted"
	case ServiceExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Action is the backend operation requested by the caller.
type Action int

const (
	ActionConnect Action = iota
	ActionGetData
)

// Path returns the fixed backend path suffix for the action.
func (a Action) Path() string {
	switch a {
	case ActionGetData:
		return "/getdata"
	default:
		return "/connect"
	}
}

func (a Action) String() string {
	switch a {
	case ActionGetData:
		return "getdata"
	default:
		return "connect"
	}
}

// ProxyRequest represents a caller request to be forwarded to a backend.
type ProxyRequest struct {
	Ctx     context.Context
	Service Service
	Action  Action
	Header  http.Header
}

// ProxyResponse represents the backend response to be streamed back.
type ProxyResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}
