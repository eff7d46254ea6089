package sitedir

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"emanifest/internal/transport/httpjson"
	"emanifest/pkg/domain"
	pkgerrors "emanifest/pkg/errors"
)

// Handler serves the site directory endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a site directory Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the site directory routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/sites", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleRegister)
		r.Get("/{epaSiteID}", h.handleGet)
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	site, err := h.service.Get(r.Context(), domain.EPASiteID(chi.URLParam(r, "epaSiteID")))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, site)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var site Site
	if err := json.NewDecoder(r.Body).Decode(&site); err != nil {
		httpjson.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid request body"))
		return
	}
	registered, err := h.service.Register(r.Context(), &site)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, registered)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sites, err := h.service.List(r.Context())
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, sites)
}
