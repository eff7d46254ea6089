// Package handler is the thin HTTP layer over the manifest service. It
// decodes requests, delegates, and translates outcomes; no business rules
// live here.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"emanifest/internal/manifest"
	"emanifest/internal/transport/httpjson"
	"emanifest/pkg/domain"
	pkgerrors "emanifest/pkg/errors"
	"emanifest/pkg/requestcontext"
)

// Service defines the manifest operations the transport needs.
type Service interface {
	Create(ctx context.Context, draft *manifest.Manifest) (*manifest.Manifest, error)
	Get(ctx context.Context, id domain.ManifestID) (*manifest.Manifest, error)
	List(ctx context.Context) ([]manifest.MtnDetails, error)
	Update(ctx context.Context, id domain.ManifestID, draft *manifest.Manifest) (*manifest.Manifest, error)
	Validate(ctx context.Context, id domain.ManifestID) (manifest.ValidationResult, error)
	Submit(ctx context.Context, id domain.ManifestID) (*manifest.SubmittableManifest, manifest.ValidationResult, error)
	Transition(ctx context.Context, id domain.ManifestID, to manifest.Status) (*manifest.Manifest, error)
	AssignTrackingNumber(ctx context.Context, id domain.ManifestID, trackingNumber string) (*manifest.Manifest, error)
	Certify(ctx context.Context, id domain.ManifestID, signer manifest.Signer) (*manifest.Manifest, error)
	OpenCorrection(ctx context.Context, id domain.ManifestID, req manifest.CorrectionRequest) (*manifest.Manifest, error)
	ResolveCorrection(ctx context.Context, id domain.ManifestID, requestID string) (*manifest.Manifest, error)
	SetLock(ctx context.Context, id domain.ManifestID, locked bool, reason manifest.LockReason) (*manifest.Manifest, error)
}

// Handler serves the manifest endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a manifest Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the manifest routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/manifests", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Route("/{manifestID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Post("/validate", h.handleValidate)
			r.Post("/submit", h.handleSubmit)
			r.Post("/transition", h.handleTransition)
			r.Post("/tracking-number", h.handleAssignTrackingNumber)
			r.Post("/certify", h.handleCertify)
			r.Post("/corrections", h.handleOpenCorrection)
			r.Post("/corrections/{requestID}/resolve", h.handleResolveCorrection)
			r.Post("/lock", h.handleSetLock)
		})
	})
}

func (h *Handler) manifestID(w http.ResponseWriter, r *http.Request) (domain.ManifestID, bool) {
	id, err := domain.ParseManifestID(chi.URLParam(r, "manifestID"))
	if err != nil {
		httpjson.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid manifest ID"))
		return domain.ManifestID{}, false
	}
	return id, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var draft manifest.Manifest
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		httpjson.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid request body"))
		return
	}
	created, err := h.service.Create(r.Context(), &draft)
	if err != nil {
		h.logError(r, "create manifest failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.List(r.Context())
	if err != nil {
		h.logError(r, "list manifests failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, details)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}
	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}
	var draft manifest.Manifest
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		httpjson.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid request body"))
		return
	}
	updated, err := h.service.Update(r.Context(), id, &draft)
	if err != nil {
		h.logError(r, "update manifest failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}
	res, err := h.service.Validate(r.Context(), id)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, res)
}

// handleSubmit returns the assembled document on success, or 422 with the
// accumulated failures. Both are normal outcomes of the same contract.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}
	doc, res, err := h.service.Submit(r.Context(), id)
	if err != nil {
		h.logError(r, "submit manifest failed", err)
		httpjson.WriteError(w, err)
		return
	}
	if doc == nil {
		httpjson.Write(w, http.StatusUnprocessableEntity, res)
		return
	}
	httpjson.Write(w, http.StatusOK, doc)
}

type transitionRequest struct {
	Status manifest.Status `json:"status"`
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		httpjson.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "target status is required"))
		return
	}
	m, err := h.service.Transition(r.Context(), id, req.Status)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

type assignTrackingRequest struct {
	TrackingNumber string `json:"manifestTrackingNumber"`
}

func (h *Handler) handleAssignTrackingNumber(w http.ResponseWriter, r *http.Request) {
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}
	var req assignTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TrackingNumber == "" {
		httpjson.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "tracking number is required"))
		return
	}
	m, err := h.service.AssignTrackingNumber(r.Context(), id, req.TrackingNumber)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

func (h *Handler) handleCertify(w http.ResponseWriter, r *http.Request) {
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}
	var signer manifest.Signer
	if err := json.NewDecoder(r.Body).Decode(&signer); err != nil {
		httpjson.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid request body"))
		return
	}
	m, err := h.service.Certify(r.Context(), id, signer)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

func (h *Handler) handleOpenCorrection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}
	var req manifest.CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid request body"))
		return
	}
	m, err := h.service.OpenCorrection(r.Context(), id, req)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

func (h *Handler) handleResolveCorrection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}
	m, err := h.service.ResolveCorrection(r.Context(), id, chi.URLParam(r, "requestID"))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

type lockRequest struct {
	Locked     bool                `json:"locked"`
	LockReason manifest.LockReason `json:"lockReason,omitempty"`
}

func (h *Handler) handleSetLock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.manifestID(w, r)
	if !ok {
		return
	}
	var req lockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid request body"))
		return
	}
	m, err := h.service.SetLock(r.Context(), id, req.Locked, req.LockReason)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		"request_id", requestcontext.RequestID(r.Context()),
		"error", err.Error(),
	)
}
