package wastecode

import (
	"context"
	"sort"
	"sync"

	"emanifest/pkg/platform/sentinel"
)

// Store provides access to the published code lists.
type Store interface {
	List(ctx context.Context, t ListType) ([]Code, error)
}

// InMemoryStore holds the code lists in memory. The lists change only with
// rulemaking, so a seeded static store is the production default.
type InMemoryStore struct {
	mu    sync.RWMutex
	lists map[ListType][]Code
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{lists: make(map[ListType][]Code)}
}

// NewSeededStore creates a store preloaded with the bundled code lists.
func NewSeededStore() *InMemoryStore {
	s := NewInMemoryStore()
	s.Seed(ListFederal, federalCodes)
	s.Seed(ListState, stateCodes)
	s.Seed(ListForm, formCodes)
	s.Seed(ListDensity, densityCodes)
	return s
}

// Seed replaces the entries for one list, kept sorted by code.
func (s *InMemoryStore) Seed(t ListType, codes []Code) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Code, len(codes))
	copy(out, codes)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	s.lists[t] = out
}

// List returns a copy of the entries for the given list type.
func (s *InMemoryStore) List(_ context.Context, t ListType) ([]Code, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes, ok := s.lists[t]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := make([]Code, len(codes))
	copy(out, codes)
	return out, nil
}
