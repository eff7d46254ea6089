//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"emanifest/internal/manifest"
	"emanifest/pkg/domain"
	"emanifest/pkg/platform/sentinel"
	"emanifest/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	store *Postgres
	ctx   context.Context
}

func (s *PostgresStoreSuite) SetupSuite() {
	pg := containers.StartPostgres(s.T(), Schema)
	s.store = NewPostgres(pg.DB)
	s.ctx = context.Background()
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) newManifest(mtn string) *manifest.Manifest {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &manifest.Manifest{
		ID:             domain.NewManifestID(),
		TrackingNumber: mtn,
		Status:         manifest.StatusNotAssigned,
		CreatedDate:    now,
		UpdatedDate:    now,
		Wastes:         []manifest.WasteLine{{LineNumber: 1, WasteCodes: []string{"D001"}}},
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	m := s.newManifest("")
	s.Require().NoError(s.store.Create(s.ctx, m))

	found, err := s.store.Get(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(m.ID, found.ID)
	s.Equal(m.Wastes, found.Wastes)

	_, err = s.store.Get(s.ctx, domain.NewManifestID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestTrackingNumberUniqueness() {
	first := s.newManifest("012345678PGA")
	second := s.newManifest("012345678PGA")

	s.Require().NoError(s.store.Create(s.ctx, first))
	s.Require().ErrorIs(s.store.Create(s.ctx, second), sentinel.ErrConflict)

	found, err := s.store.GetByTrackingNumber(s.ctx, "012345678PGA")
	s.Require().NoError(err)
	s.Equal(first.ID, found.ID)
}

func (s *PostgresStoreSuite) TestMultipleUnassignedManifests() {
	// Empty tracking numbers map to NULL, which the unique index ignores.
	s.Require().NoError(s.store.Create(s.ctx, s.newManifest("")))
	s.Require().NoError(s.store.Create(s.ctx, s.newManifest("")))
}

func (s *PostgresStoreSuite) TestOptimisticConcurrency() {
	m := s.newManifest("")
	s.Require().NoError(s.store.Create(s.ctx, m))

	stale := m.Clone()

	m.Status = manifest.StatusPending
	s.Require().NoError(s.store.Update(s.ctx, m))
	s.Equal(1, m.Revision)

	stale.Status = manifest.StatusScheduled
	s.Require().ErrorIs(s.store.Update(s.ctx, stale), sentinel.ErrConflict)

	missing := s.newManifest("")
	s.Require().ErrorIs(s.store.Update(s.ctx, missing), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestList() {
	m := s.newManifest("999999999PGZ")
	s.Require().NoError(s.store.Create(s.ctx, m))

	details, err := s.store.List(s.ctx)
	s.Require().NoError(err)

	var found bool
	for _, d := range details {
		if d.ManifestTrackingNumber == "999999999PGZ" {
			found = true
			s.Equal(manifest.StatusNotAssigned, d.Status)
		}
	}
	s.True(found)
}
