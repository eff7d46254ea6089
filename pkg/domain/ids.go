// Package domain holds the typed identifiers shared across bounded contexts.
//
// Identifier types are deliberately thin wrappers: they exist so a tracking
// number can never be passed where a site ID is expected, and so format
// validation happens once, at the edge, instead of in every consumer.
package domain

import (
	"errors"
	"regexp"

	"github.com/google/uuid"
)

// ManifestID identifies a manifest draft inside this service. It is assigned
// at creation time and is unrelated to the EPA tracking number, which only an
// external authority may assign.
type ManifestID uuid.UUID

// NewManifestID returns a fresh random manifest ID.
func NewManifestID() ManifestID {
	return ManifestID(uuid.New())
}

// ParseManifestID parses the string form of a manifest ID.
func ParseManifestID(s string) (ManifestID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ManifestID{}, err
	}
	return ManifestID(u), nil
}

func (m ManifestID) String() string {
	return uuid.UUID(m).String()
}

// IsZero reports whether the ID is unset.
func (m ManifestID) IsZero() bool {
	return uuid.UUID(m) == uuid.Nil
}

// MarshalText renders the canonical UUID form. Defined types do not inherit
// marshalling from uuid.UUID, and a raw byte-array encoding would leak into
// stored documents.
func (m ManifestID) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses the canonical UUID form.
func (m *ManifestID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*m = ManifestID(u)
	return nil
}

// TrackingNumber is the manifest tracking number (MTN) assigned by EPA or an
// authorized paper manifest printer.
//
// Invariants:
//   - Nine digits followed by a three-letter uppercase suffix
//   - Immutable once assigned to a manifest
type TrackingNumber struct {
	value string
}

var trackingNumberPattern = regexp.MustCompile(`^[0-9]{9}[A-Z]{3}$`)

// ErrInvalidTrackingNumber indicates the MTN failed format validation.
var ErrInvalidTrackingNumber = errors.New("invalid tracking number: expected 9 digits followed by 3 uppercase letters")

// NewTrackingNumber creates a validated TrackingNumber.
func NewTrackingNumber(value string) (TrackingNumber, error) {
	if !trackingNumberPattern.MatchString(value) {
		return TrackingNumber{}, ErrInvalidTrackingNumber
	}
	return TrackingNumber{value: value}, nil
}

// MustTrackingNumber creates a TrackingNumber, panicking if invalid.
// Use only in tests or when the value is known to be valid.
func MustTrackingNumber(value string) TrackingNumber {
	tn, err := NewTrackingNumber(value)
	if err != nil {
		panic(err)
	}
	return tn
}

// ValidTrackingNumber reports whether value matches the MTN format.
func ValidTrackingNumber(value string) bool {
	return trackingNumberPattern.MatchString(value)
}

func (t TrackingNumber) String() string {
	return t.value
}

// IsZero returns true if this is the zero value (uninitialized).
func (t TrackingNumber) IsZero() bool {
	return t.value == ""
}

// EPASiteID is a handler's regulatory identifier: a two-letter locality
// prefix followed by up to ten alphanumeric characters.
type EPASiteID string

var epaSiteIDPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{1,10}$`)

// Valid reports whether the site ID matches the expected shape. The core
// treats this as advisory; the site directory is the authority on whether an
// ID actually exists.
func (e EPASiteID) Valid() bool {
	return epaSiteIDPattern.MatchString(string(e))
}

func (e EPASiteID) String() string {
	return string(e)
}
