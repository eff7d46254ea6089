package sitedir

import (
	"context"
	"sort"
	"sync"

	"emanifest/pkg/domain"
	"emanifest/pkg/platform/sentinel"
)

// Store provides access to registered sites.
type Store interface {
	Get(ctx context.Context, id domain.EPASiteID) (*Site, error)
	Put(ctx context.Context, site *Site) error
	List(ctx context.Context) ([]Site, error)
}

// InMemoryStore is a map-backed Store for tests and single-node deployments.
type InMemoryStore struct {
	mu    sync.RWMutex
	sites map[domain.EPASiteID]Site
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sites: make(map[domain.EPASiteID]Site)}
}

// Get returns the site registered under the given EPA ID.
func (s *InMemoryStore) Get(_ context.Context, id domain.EPASiteID) (*Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	site, ok := s.sites[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := site
	return &out, nil
}

// Put registers or replaces a site.
func (s *InMemoryStore) Put(_ context.Context, site *Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sites[site.EPASiteID] = *site
	return nil
}

// List returns every registered site ordered by EPA ID.
func (s *InMemoryStore) List(_ context.Context) ([]Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Site, 0, len(s.sites))
	for _, site := range s.sites {
		out = append(out, site)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EPASiteID < out[j].EPASiteID })
	return out, nil
}
