package manifest

import (
	"time"

	"emanifest/pkg/domain"
	pkgerrors "emanifest/pkg/errors"
)

// The lifecycle machine is advisory: it decides whether a requested status
// change is legal given the document's current fields. Side effects
// (signature capture, registry submission) belong to external collaborators.
//
// Edges and guards:
//
//	NotAssigned       -> Pending            tracking number assigned and well-formed
//	Pending           -> Scheduled          all required parties present, validation passes
//	Scheduled         -> InTransit          at least one transporter signature recorded
//	InTransit         -> ReadyForSignature  designated facility has received the shipment
//	ReadyForSignature -> Signed             certifiedBy and certifiedDate both set
//	Signed            -> UnderCorrection    a correction request is open
//	UnderCorrection   -> Corrected          all correction requests resolved
//	any               -> MtnValidationFailed  tracking number format or uniqueness failed
//	MtnValidationFailed -> Pending          number reassigned and well-formed
var transitions = map[Status][]Status{
	StatusNotAssigned:         {StatusPending},
	StatusPending:             {StatusScheduled},
	StatusScheduled:           {StatusInTransit},
	StatusInTransit:           {StatusReadyForSignature},
	StatusReadyForSignature:   {StatusSigned},
	StatusSigned:              {StatusUnderCorrection},
	StatusUnderCorrection:     {StatusCorrected},
	StatusMtnValidationFailed: {StatusPending},
}

// CanTransition reports whether moving from one status to another is legal
// for the given document. It consults the edge table first, then the target
// state's guard. today feeds the validation pass required by the Scheduled
// guard.
func CanTransition(from, to Status, m *Manifest, today time.Time) bool {
	if to == StatusMtnValidationFailed {
		// Terminal failure branch, reachable from anywhere. Re-entry into the
		// normal flow requires reassigning the number.
		return true
	}
	allowed := false
	for _, t := range transitions[from] {
		if t == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	return guardSatisfied(to, m, today)
}

// guardSatisfied checks the side constraint the target state imposes on the
// document's fields.
func guardSatisfied(to Status, m *Manifest, today time.Time) bool {
	switch to {
	case StatusPending:
		return domain.ValidTrackingNumber(m.TrackingNumber)
	case StatusScheduled:
		if m.Generator == nil || m.DesignatedFacility == nil || len(m.Transporters) == 0 {
			return false
		}
		return Validate(m, today).Valid()
	case StatusInTransit:
		for _, t := range m.Transporters {
			if len(t.Signatures) > 0 {
				return true
			}
		}
		return false
	case StatusReadyForSignature:
		return m.ReceivedDate != nil
	case StatusSigned:
		return m.CertifiedBy != nil && m.CertifiedDate != nil
	case StatusUnderCorrection:
		return len(m.CorrectionRequests) > 0
	case StatusCorrected:
		return len(m.CorrectionRequests) > 0 && !m.OpenCorrectionRequests()
	default:
		return true
	}
}

// Transition applies a status change to a copy of the document, or explains
// why it is denied. Denials are expected outcomes returned as values; the
// caller picks a different action.
func Transition(m *Manifest, to Status, today time.Time) (*Manifest, error) {
	if m == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvariant, "transition on nil manifest")
	}
	if !to.Known() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "unknown target status "+string(to))
	}
	from := m.Status
	if from == "" {
		// Drafts held client-side before first persistence have no status.
		from = StatusNotAssigned
	}
	if !CanTransition(from, to, m, today) {
		return nil, pkgerrors.New(pkgerrors.CodeTransitionDenied,
			"cannot move manifest from "+string(from)+" to "+string(to))
	}
	next := m.Clone()
	next.Status = to
	return next, nil
}
