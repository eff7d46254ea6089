// Package service orchestrates manifest operations: it loads documents,
// enforces the lock and post-signature freeze policies, runs the core
// validation and lifecycle rules, and persists the result. Domain logic stays
// in the manifest package; this layer owns I/O, audit, and metrics.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"emanifest/internal/manifest"
	"emanifest/internal/manifest/metrics"
	"emanifest/internal/manifest/store"
	"emanifest/pkg/domain"
	pkgerrors "emanifest/pkg/errors"
	"emanifest/pkg/platform/audit"
	"emanifest/pkg/platform/sentinel"
	"emanifest/pkg/requestcontext"
)

// Service coordinates manifest lifecycle operations against a Store.
type Service struct {
	store    store.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
	recorder *audit.Recorder
	tracer   trace.Tracer
}

// New creates a manifest Service. Metrics and recorder may be nil in tests.
func New(st store.Store, logger *slog.Logger, m *metrics.Metrics, recorder *audit.Recorder) (*Service, error) {
	if st == nil {
		return nil, errors.New("manifest store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    st,
		logger:   logger,
		metrics:  m,
		recorder: recorder,
		tracer:   otel.Tracer("emanifest/manifest"),
	}, nil
}

// Create registers a new draft. The service assigns the internal ID and
// timestamps; status defaults to NotAssigned. The tracking number is never
// accepted here: assignment belongs to the external authority and arrives
// through AssignTrackingNumber.
func (s *Service) Create(ctx context.Context, draft *manifest.Manifest) (*manifest.Manifest, error) {
	if draft == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvariant, "create called with nil draft")
	}
	now := requestcontext.Now(ctx)

	m := draft.Clone()
	m.ID = domain.NewManifestID()
	m.TrackingNumber = ""
	if m.Status == "" {
		m.Status = manifest.StatusNotAssigned
	}
	m.CreatedDate = now
	m.UpdatedDate = now
	m.Revision = 0
	applyAddressPolicy(m)
	m.ContainsPreviousRejectOrResidue = m.DeriveCarryOver()

	if err := s.store.Create(ctx, m); err != nil {
		return nil, translateStoreErr(err)
	}
	s.emit(ctx, m, audit.ActionManifestCreated, "")
	s.logger.InfoContext(ctx, "manifest created",
		"manifest_id", m.ID.String(),
		"status", string(m.Status),
	)
	return m, nil
}

// Get loads one manifest.
func (s *Service) Get(ctx context.Context, id domain.ManifestID) (*manifest.Manifest, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return m, nil
}

// List returns the display projection of all manifests.
func (s *Service) List(ctx context.Context) ([]manifest.MtnDetails, error) {
	return s.store.List(ctx)
}

// Validate runs the field rules against the stored document using the
// request-scoped date as "today".
func (s *Service) Validate(ctx context.Context, id domain.ManifestID) (manifest.ValidationResult, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return manifest.ValidationResult{}, translateStoreErr(err)
	}
	res := manifest.Validate(m, requestcontext.Now(ctx))
	s.metrics.ObserveValidation(failedFields(res))
	return res, nil
}

// Update replaces the editable fields of a draft. The incoming document's
// Revision is the revision the caller last saw; a mismatch surfaces as a
// conflict rather than a silent overwrite.
//
// Three policies gate every update:
//   - a locked manifest only accepts edits from the process named in the
//     lock reason,
//   - the tracking number is immutable through this path,
//   - once signed, only status, correction requests, and the lock fields may
//     change.
func (s *Service) Update(ctx context.Context, id domain.ManifestID, draft *manifest.Manifest) (*manifest.Manifest, error) {
	if draft == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvariant, "update called with nil draft")
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if err := s.checkLock(ctx, current); err != nil {
		return nil, err
	}
	if draft.TrackingNumber != current.TrackingNumber {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			"tracking number is assigned by the external authority and cannot be edited")
	}

	next := draft.Clone()
	next.ID = current.ID
	next.Status = current.Status
	next.CreatedDate = current.CreatedDate
	next.UpdatedDate = requestcontext.Now(ctx)
	next.Revision = draft.Revision
	applyAddressPolicy(next)
	next.ContainsPreviousRejectOrResidue = next.DeriveCarryOver()

	if signedOrLater(current.Status) && frozenFieldsChanged(current, next) {
		return nil, pkgerrors.New(pkgerrors.CodeInvariant,
			"a signed manifest only accepts changes to status, correction requests, and the lock fields")
	}

	if err := s.store.Update(ctx, next); err != nil {
		return nil, translateStoreErr(err)
	}
	s.emit(ctx, next, audit.ActionManifestUpdated, "")
	return next, nil
}

// Transition moves the manifest to the requested status when the lifecycle
// table and the target's guard allow it.
func (s *Service) Transition(ctx context.Context, id domain.ManifestID, to manifest.Status) (*manifest.Manifest, error) {
	ctx, span := s.tracer.Start(ctx, "manifest.transition",
		trace.WithAttributes(attribute.String("manifest.target_status", string(to))))
	defer span.End()

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if err := s.checkLock(ctx, current); err != nil {
		return nil, err
	}

	next, err := manifest.Transition(current, to, requestcontext.Now(ctx))
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeTransitionDenied) {
			s.metrics.IncrementTransitionDenied(string(current.Status), string(to))
		}
		return nil, err
	}
	next.UpdatedDate = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, next); err != nil {
		return nil, translateStoreErr(err)
	}

	s.metrics.IncrementTransition(string(current.Status), string(to))
	event := audit.ActionStatusChanged
	if to == manifest.StatusSigned {
		event = audit.ActionManifestSigned
	}
	s.emitTransition(ctx, next, event, current.Status, to)
	s.logger.InfoContext(ctx, "manifest status changed",
		"manifest_id", id.String(),
		"from", string(current.Status),
		"to", string(to),
	)
	return next, nil
}

// Submit runs the full assembly contract and persists the assembled document
// on success. A failed validation is an expected outcome: the failure set
// comes back as a value and the stored draft is untouched.
func (s *Service) Submit(ctx context.Context, id domain.ManifestID) (*manifest.SubmittableManifest, manifest.ValidationResult, error) {
	ctx, span := s.tracer.Start(ctx, "manifest.submit")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveSubmitLatency(time.Since(start)) }()

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, manifest.ValidationResult{}, translateStoreErr(err)
	}
	if err := s.checkLock(ctx, current); err != nil {
		return nil, manifest.ValidationResult{}, err
	}

	doc, res, err := manifest.Assemble(current, current.Status, requestcontext.Now(ctx))
	if err != nil {
		return nil, manifest.ValidationResult{}, err
	}
	s.metrics.ObserveValidation(failedFields(res))
	if doc == nil {
		s.emit(ctx, current, audit.ActionSubmitRejected, "validation failed")
		return nil, res, nil
	}

	stored := doc.Manifest.Clone()
	stored.UpdatedDate = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, stored); err != nil {
		return nil, manifest.ValidationResult{}, translateStoreErr(err)
	}
	doc.Manifest = *stored
	return doc, manifest.ValidationResult{}, nil
}

// AssignTrackingNumber records the number issued by the external authority.
// A malformed number, or one already taken, pushes the manifest onto the
// MtnValidationFailed branch; re-entry requires reassigning a valid number.
func (s *Service) AssignTrackingNumber(ctx context.Context, id domain.ManifestID, trackingNumber string) (*manifest.Manifest, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if err := s.checkLock(ctx, current); err != nil {
		return nil, err
	}
	if current.TrackingNumber != "" && current.Status != manifest.StatusMtnValidationFailed {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "tracking number already assigned")
	}

	if _, err := domain.NewTrackingNumber(trackingNumber); err != nil {
		s.failMtn(ctx, current, err.Error())
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, err.Error())
	}

	next := current.Clone()
	next.TrackingNumber = trackingNumber
	next.UpdatedDate = requestcontext.Now(ctx)
	if next.Status == "" || next.Status == manifest.StatusNotAssigned || next.Status == manifest.StatusMtnValidationFailed {
		applied, terr := manifest.Transition(next, manifest.StatusPending, requestcontext.Now(ctx))
		if terr != nil {
			return nil, terr
		}
		next = applied
	}
	if err := s.store.Update(ctx, next); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Uniqueness check failed: the number belongs to another document.
			s.failMtn(ctx, current, "tracking number already in use")
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "tracking number already in use")
		}
		return nil, translateStoreErr(err)
	}
	s.metrics.IncrementTransition(string(current.Status), string(next.Status))
	s.emitTransition(ctx, next, audit.ActionTrackingAssigned, current.Status, next.Status)
	return next, nil
}

// Certify captures the signer and certification date, then moves the
// manifest to Signed. Only a document awaiting signature can be certified;
// once set, signer and date are frozen.
func (s *Service) Certify(ctx context.Context, id domain.ManifestID, signer manifest.Signer) (*manifest.Manifest, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if err := s.checkLock(ctx, current); err != nil {
		return nil, err
	}
	if current.Status != manifest.StatusReadyForSignature {
		return nil, pkgerrors.New(pkgerrors.CodeTransitionDenied,
			"only a manifest awaiting signature can be certified")
	}
	if current.CertifiedDate != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "manifest is already certified")
	}

	now := requestcontext.Now(ctx)
	next := current.Clone()
	next.CertifiedBy = &signer
	next.CertifiedDate = &now
	next.SignatureStatus = true

	applied, err := manifest.Transition(next, manifest.StatusSigned, now)
	if err != nil {
		return nil, err
	}
	applied.UpdatedDate = now
	if err := s.store.Update(ctx, applied); err != nil {
		return nil, translateStoreErr(err)
	}
	s.metrics.IncrementTransition(string(current.Status), string(manifest.StatusSigned))
	s.emitTransition(ctx, applied, audit.ActionManifestSigned, current.Status, manifest.StatusSigned)
	return applied, nil
}

// OpenCorrection appends a correction request and, when the manifest is
// Signed, moves it to UnderCorrection.
func (s *Service) OpenCorrection(ctx context.Context, id domain.ManifestID, req manifest.CorrectionRequest) (*manifest.Manifest, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if err := s.checkLock(ctx, current); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	next := current.Clone()
	req.RequestedAt = now
	req.Resolved = false
	req.ResolvedAt = nil
	next.CorrectionRequests = append(next.CorrectionRequests, req)

	if next.Status == manifest.StatusSigned {
		applied, terr := manifest.Transition(next, manifest.StatusUnderCorrection, now)
		if terr != nil {
			return nil, terr
		}
		next = applied
		s.metrics.IncrementTransition(string(manifest.StatusSigned), string(manifest.StatusUnderCorrection))
	}
	next.UpdatedDate = now
	if err := s.store.Update(ctx, next); err != nil {
		return nil, translateStoreErr(err)
	}
	s.emit(ctx, next, audit.ActionCorrectionOpened, req.Reason)
	return next, nil
}

// ResolveCorrection marks one correction request resolved and, when none
// remain open, moves the manifest from UnderCorrection to Corrected.
func (s *Service) ResolveCorrection(ctx context.Context, id domain.ManifestID, requestID string) (*manifest.Manifest, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if err := s.checkLock(ctx, current); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	next := current.Clone()
	found := false
	for i := range next.CorrectionRequests {
		if next.CorrectionRequests[i].ID == requestID {
			next.CorrectionRequests[i].Resolved = true
			next.CorrectionRequests[i].ResolvedAt = &now
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "correction request not found")
	}

	if next.Status == manifest.StatusUnderCorrection && !next.OpenCorrectionRequests() {
		applied, terr := manifest.Transition(next, manifest.StatusCorrected, now)
		if terr != nil {
			return nil, terr
		}
		next = applied
		s.metrics.IncrementTransition(string(manifest.StatusUnderCorrection), string(manifest.StatusCorrected))
	}
	next.UpdatedDate = now
	if err := s.store.Update(ctx, next); err != nil {
		return nil, translateStoreErr(err)
	}
	s.emit(ctx, next, audit.ActionCorrectionResolved, requestID)
	return next, nil
}

// SetLock engages or releases a manifest lock on behalf of an external
// process. Releasing requires the same actor that holds the lock.
func (s *Service) SetLock(ctx context.Context, id domain.ManifestID, locked bool, reason manifest.LockReason) (*manifest.Manifest, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if locked && reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "locking requires a lock reason")
	}
	if current.Locked && requestcontext.Actor(ctx) != string(current.LockReason) {
		s.metrics.IncrementLockedEdit(string(current.LockReason))
		return nil, pkgerrors.New(pkgerrors.CodeLocked,
			"manifest is locked by "+string(current.LockReason))
	}

	next := current.Clone()
	next.Locked = locked
	if locked {
		next.LockReason = reason
	} else {
		next.LockReason = ""
	}
	next.UpdatedDate = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, next); err != nil {
		return nil, translateStoreErr(err)
	}
	return next, nil
}

// checkLock rejects mutations on a locked manifest unless the request acts
// as the process named in the lock reason. The rejection is explicit, never
// a silent drop.
func (s *Service) checkLock(ctx context.Context, m *manifest.Manifest) error {
	if !m.Locked {
		return nil
	}
	if requestcontext.Actor(ctx) == string(m.LockReason) {
		return nil
	}
	s.metrics.IncrementLockedEdit(string(m.LockReason))
	s.emit(ctx, m, audit.ActionEditBlocked, string(m.LockReason))
	return pkgerrors.New(pkgerrors.CodeLocked, "manifest is locked by "+string(m.LockReason))
}

// signedOrLater reports whether the field freeze is in force.
func signedOrLater(s manifest.Status) bool {
	switch s {
	case manifest.StatusSigned, manifest.StatusUnderCorrection, manifest.StatusCorrected:
		return true
	}
	return false
}

// frozenFieldsChanged compares the two documents with the mutable-after-
// signature fields blanked out. Anything else differing means the caller
// tried to edit frozen content. CorrectionInfo stays mutable because it is
// the record the correction workflow itself produces.
func frozenFieldsChanged(current, next *manifest.Manifest) bool {
	return !bytes.Equal(frozenView(current), frozenView(next))
}

func frozenView(m *manifest.Manifest) []byte {
	v := m.Clone()
	v.Status = ""
	v.CorrectionRequests = nil
	v.CorrectionInfo = nil
	v.Locked = false
	v.LockReason = ""
	v.UpdatedDate = time.Time{}
	v.Revision = 0
	b, _ := json.Marshal(v)
	return b
}

func applyAddressPolicy(m *manifest.Manifest) {
	manifest.ApplyAddressPolicy(m.Generator)
	manifest.ApplyAddressPolicy(m.DesignatedFacility)
	manifest.ApplyAddressPolicy(m.Broker)
	for i := range m.Transporters {
		manifest.ApplyAddressPolicy(&m.Transporters[i])
	}
}

func failedFields(res manifest.ValidationResult) []string {
	if res.Valid() {
		return nil
	}
	fields := make([]string, 0, len(res.Failures))
	for _, f := range res.Failures {
		fields = append(fields, f.Field)
	}
	return fields
}

// failMtn parks the manifest on the validation-failed branch. Best effort:
// if the park itself conflicts, the original error still reaches the caller.
func (s *Service) failMtn(ctx context.Context, current *manifest.Manifest, reason string) {
	next, err := manifest.Transition(current, manifest.StatusMtnValidationFailed, requestcontext.Now(ctx))
	if err != nil {
		return
	}
	next.UpdatedDate = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, next); err != nil {
		s.logger.WarnContext(ctx, "could not record MTN validation failure",
			"manifest_id", current.ID.String(),
			"error", err.Error(),
		)
		return
	}
	if s.recorder != nil {
		s.recorder.Emit(ctx, audit.Event{
			Category:   audit.CategoryCompliance,
			Timestamp:  requestcontext.Now(ctx),
			ManifestID: next.ID.String(),
			Action:     audit.ActionStatusChanged,
			FromStatus: string(current.Status),
			ToStatus:   string(manifest.StatusMtnValidationFailed),
			Reason:     reason,
			RequestID:  requestcontext.RequestID(ctx),
		})
	}
}

func (s *Service) emit(ctx context.Context, m *manifest.Manifest, action audit.Action, reason string) {
	if s.recorder == nil {
		return
	}
	s.recorder.Emit(ctx, audit.Event{
		Category:       audit.CategoryCompliance,
		Timestamp:      requestcontext.Now(ctx),
		ManifestID:     m.ID.String(),
		TrackingNumber: m.TrackingNumber,
		Action:         action,
		Actor:          requestcontext.Actor(ctx),
		Reason:         reason,
		RequestID:      requestcontext.RequestID(ctx),
	})
}

func (s *Service) emitTransition(ctx context.Context, m *manifest.Manifest, action audit.Action, from, to manifest.Status) {
	if s.recorder == nil {
		return
	}
	s.recorder.Emit(ctx, audit.Event{
		Category:       audit.CategoryCompliance,
		Timestamp:      requestcontext.Now(ctx),
		ManifestID:     m.ID.String(),
		TrackingNumber: m.TrackingNumber,
		Action:         action,
		FromStatus:     string(from),
		ToStatus:       string(to),
		Actor:          requestcontext.Actor(ctx),
		RequestID:      requestcontext.RequestID(ctx),
	})
}

func translateStoreErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, "manifest not found")
	case errors.Is(err, sentinel.ErrConflict):
		return pkgerrors.New(pkgerrors.CodeConflict, "manifest was modified concurrently")
	default:
		return err
	}
}
