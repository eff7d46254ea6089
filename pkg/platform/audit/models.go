// Package audit captures the compliance trail for manifest operations.
// Regulated documents need an answer to "who changed what, when": every
// status transition, signature, and correction emits an event here.
package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose, enabling
// different retention policies and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance: status
	// transitions, certifications, corrections. Long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. These can be sampled with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event records one action taken against a manifest. Transport-agnostic so
// stores and sinks can fan out.
type Event struct {
	Category       EventCategory `json:"category"`
	Timestamp      time.Time     `json:"timestamp"`
	ManifestID     string        `json:"manifestId"`
	TrackingNumber string        `json:"trackingNumber,omitempty"`
	Action         Action        `json:"action"`
	FromStatus     string        `json:"fromStatus,omitempty"`
	ToStatus       string        `json:"toStatus,omitempty"`
	Actor          string        `json:"actor,omitempty"`
	Reason         string        `json:"reason,omitempty"`
	RequestID      string        `json:"requestId,omitempty"`
}

// Action names what happened.
type Action string

const (
	ActionManifestCreated    Action = "manifest_created"
	ActionManifestUpdated    Action = "manifest_updated"
	ActionTrackingAssigned   Action = "tracking_number_assigned"
	ActionStatusChanged      Action = "status_changed"
	ActionManifestSigned     Action = "manifest_signed"
	ActionCorrectionOpened   Action = "correction_opened"
	ActionCorrectionResolved Action = "correction_resolved"
	ActionSubmitRejected     Action = "submit_rejected"
	ActionEditBlocked        Action = "edit_blocked"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Recorder is the write side handed to services. Emit never blocks domain
// work on a slow sink; when the buffer is full the event is dropped and the
// drop is observable through Dropped.
type Recorder struct {
	ch      chan Event
	dropped chan struct{}
}

// NewRecorder creates a Recorder with the given buffer size.
func NewRecorder(buffer int) *Recorder {
	return &Recorder{
		ch:      make(chan Event, buffer),
		dropped: make(chan struct{}, 1),
	}
}

// Emit queues an event for the worker.
func (r *Recorder) Emit(_ context.Context, event Event) {
	select {
	case r.ch <- event:
	default:
		select {
		case r.dropped <- struct{}{}:
		default:
		}
	}
}

// Events exposes the read side for the worker.
func (r *Recorder) Events() <-chan Event {
	return r.ch
}

// Dropped signals that at least one event was lost since the last receive.
func (r *Recorder) Dropped() <-chan struct{} {
	return r.dropped
}
