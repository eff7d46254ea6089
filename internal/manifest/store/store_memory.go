package store

import (
	"context"
	"sort"
	"sync"

	"emanifest/internal/manifest"
	"emanifest/pkg/domain"
	"emanifest/pkg/platform/sentinel"
)

// InMemory is the development and test store. It enforces the same contract
// as the Postgres store: revision-checked updates and tracking-number
// uniqueness. All reads and writes work on clones so callers cannot reach
// shared state through aliased slices.
type InMemory struct {
	mu        sync.RWMutex
	manifests map[domain.ManifestID]*manifest.Manifest
	byMTN     map[string]domain.ManifestID
}

func NewInMemory() *InMemory {
	return &InMemory{
		manifests: make(map[domain.ManifestID]*manifest.Manifest),
		byMTN:     make(map[string]domain.ManifestID),
	}
}

func (s *InMemory) Create(_ context.Context, m *manifest.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.manifests[m.ID]; ok {
		return sentinel.ErrConflict
	}
	if m.TrackingNumber != "" {
		if _, taken := s.byMTN[m.TrackingNumber]; taken {
			return sentinel.ErrConflict
		}
		s.byMTN[m.TrackingNumber] = m.ID
	}
	s.manifests[m.ID] = m.Clone()
	return nil
}

func (s *InMemory) Get(_ context.Context, id domain.ManifestID) (*manifest.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.manifests[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return m.Clone(), nil
}

func (s *InMemory) GetByTrackingNumber(_ context.Context, trackingNumber string) (*manifest.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byMTN[trackingNumber]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.manifests[id].Clone(), nil
}

func (s *InMemory) Update(_ context.Context, m *manifest.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.manifests[m.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Revision != m.Revision {
		return sentinel.ErrConflict
	}
	if m.TrackingNumber != "" {
		if owner, taken := s.byMTN[m.TrackingNumber]; taken && owner != m.ID {
			return sentinel.ErrConflict
		}
	}
	if current.TrackingNumber != "" && current.TrackingNumber != m.TrackingNumber {
		delete(s.byMTN, current.TrackingNumber)
	}
	if m.TrackingNumber != "" {
		s.byMTN[m.TrackingNumber] = m.ID
	}
	m.Revision++
	s.manifests[m.ID] = m.Clone()
	return nil
}

func (s *InMemory) List(_ context.Context) ([]manifest.MtnDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*manifest.Manifest, 0, len(s.manifests))
	for _, m := range s.manifests {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedDate.Equal(all[j].CreatedDate) {
			return all[i].CreatedDate.After(all[j].CreatedDate)
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	details := make([]manifest.MtnDetails, 0, len(all))
	for _, m := range all {
		details = append(details, m.Details())
	}
	return details, nil
}
