package manifest

import (
	"time"

	pkgerrors "emanifest/pkg/errors"
)

// SubmittableManifest wraps a manifest that passed a full assembly pass. It
// is the only manifest shape the persistence and document-generation
// collaborators accept, so an unvalidated draft cannot cross that boundary
// by accident.
type SubmittableManifest struct {
	Manifest
}

// Assemble is the single seam between draft editing and the outside world.
// It runs the structural checks, then the full field rule set, then the
// submission-level requirements, and finally (when the draft requests a
// status) confirms that transition is legal from the stored status.
//
// Outcomes follow the error taxonomy: field and transition problems come back
// as the ValidationResult value with a nil document; only a broken structural
// invariant (a malformed draft the surrounding application should never have
// produced) is a hard error.
func Assemble(m *Manifest, currentStatus Status, today time.Time) (*SubmittableManifest, ValidationResult, error) {
	if m == nil {
		return nil, ValidationResult{}, pkgerrors.New(pkgerrors.CodeInvariant, "assemble called with nil draft")
	}

	res := Validate(m, today)

	// Submission-level requirements, beyond what interactive validation asks
	// of a half-built draft.
	if len(m.Wastes) == 0 {
		res.add("wastes", "a submittable manifest needs at least one waste line")
	}
	if len(m.Transporters) == 0 && shipped(m.Status) {
		res.add("transporters", "a shipped manifest needs at least one transporter")
	}

	if m.Status != "" && m.Status != currentStatus {
		if !CanTransition(normalize(currentStatus), m.Status, m, today) {
			res.addf("status", "transition from %s to %s is not allowed", normalize(currentStatus), m.Status)
		}
	}

	if !res.Valid() {
		return nil, res, nil
	}

	doc := m.Clone()
	ApplyAddressPolicy(doc.Generator)
	ApplyAddressPolicy(doc.DesignatedFacility)
	ApplyAddressPolicy(doc.Broker)
	for i := range doc.Transporters {
		ApplyAddressPolicy(&doc.Transporters[i])
	}
	doc.ContainsPreviousRejectOrResidue = doc.DeriveCarryOver()
	if doc.Status == "" {
		doc.Status = StatusNotAssigned
	}
	return &SubmittableManifest{Manifest: *doc}, ValidationResult{}, nil
}

// shipped reports whether the status implies the waste has left the
// generating site, which is when custody requires a transporter on record.
func shipped(s Status) bool {
	switch s {
	case StatusInTransit, StatusReadyForSignature, StatusSigned,
		StatusUnderCorrection, StatusCorrected:
		return true
	}
	return false
}

func normalize(s Status) Status {
	if s == "" {
		return StatusNotAssigned
	}
	return s
}
