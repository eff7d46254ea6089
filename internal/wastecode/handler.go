package wastecode

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"emanifest/internal/transport/httpjson"
)

// Handler serves the waste code endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a waste code Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the waste code routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/codes/waste/{listType}", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.List(r.Context(), ListType(chi.URLParam(r, "listType")))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, codes)
}
