// Package store persists manifest documents. The core never deletes: a
// manifest leaves the system only through external archival, so the interface
// offers create, read, update, and listing.
package store

import (
	"context"

	"emanifest/internal/manifest"
	"emanifest/pkg/domain"
)

// Store is the persistence sink for validated and draft manifests.
//
// Implementations report facts through sentinel errors: ErrNotFound for
// missing records, ErrConflict for revision mismatches and tracking-number
// collisions. Conflicts are never resolved silently; concurrent edits surface
// to the caller as distinct errors.
type Store interface {
	Create(ctx context.Context, m *manifest.Manifest) error
	Get(ctx context.Context, id domain.ManifestID) (*manifest.Manifest, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*manifest.Manifest, error)

	// Update replaces the stored document when the revision matches, then
	// bumps the revision on the passed document.
	Update(ctx context.Context, m *manifest.Manifest) error

	// List returns the display projection of every manifest, newest first.
	List(ctx context.Context) ([]manifest.MtnDetails, error)
}
