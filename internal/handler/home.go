package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"frontdoor/internal/model"
)

// WelcomeMessage is the greeting shown on the landing page.
const WelcomeMessage = "Welcome to the OPA-SPIRE Demo"

// HomeHandler serves the landing page. It never contacts a backend.
type HomeHandler struct {
	services []string
}

// NewHomeHandler creates a HomeHandler.
func NewHomeHandler() *HomeHandler {
	names := make([]string, 0, len(model.Services))
	for _, s := range model.Services {
		names = append(names, s.String())
	}
	return &HomeHandler{services: names}
}

// Index renders the welcome page.
func (h *HomeHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", map[string]any{
		"Message":  WelcomeMessage,
		"Services": h.services,
	})
}
