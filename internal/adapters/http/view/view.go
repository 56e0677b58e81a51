package view

import (
	"context"
	"errors"
	"net/http"

	"github.com/a-h/templ"

	service "github.com/okian/peloton/internal/app"
	"github.com/okian/peloton/internal/domain/league"
	"github.com/okian/peloton/pkg/logger"
)

// Dependencies are the board views the pages render.
type Dependencies interface {
	Rider(id string) (league.RiderDetail, error)
	Nations() ([]league.NationStrength, error)
}

// Handler serves the HTML pages.
type Handler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewHandler creates a page handler.
func NewHandler(deps Dependencies, l logger.Logger) *Handler {
	return &Handler{deps: deps, logger: l}
}

// Register attaches the page routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /riders/{id}", h.HandleRider)
	mux.HandleFunc("GET /nations", h.HandleNations)
}

// HandleRider handles GET /riders/{id}.
func (h *Handler) HandleRider(w http.ResponseWriter, r *http.Request) {
	d, err := h.deps.Rider(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	templ.Handler(RiderCard(d)).ServeHTTP(w, r)
}

// HandleNations handles GET /nations.
func (h *Handler) HandleNations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.deps.Nations()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	templ.Handler(NationsPage(rows)).ServeHTTP(w, r)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, league.ErrRiderNotFound):
		http.Error(w, "rider not found", http.StatusNotFound)
	case errors.Is(err, service.ErrNotLoaded):
		http.Error(w, "league not loaded", http.StatusServiceUnavailable)
	default:
		if h.logger != nil {
			h.logger.Error(r.Context(), "page failed", logger.String("path", r.URL.Path), logger.Error(err))
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
