package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"emanifest/internal/manifest"
	"emanifest/pkg/domain"
	"emanifest/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) newManifest(mtn string) *manifest.Manifest {
	return &manifest.Manifest{
		ID:             domain.NewManifestID(),
		TrackingNumber: mtn,
		Status:         manifest.StatusNotAssigned,
		CreatedDate:    time.Now(),
	}
}

func (s *MemoryStoreSuite) TestCreateAndGet() {
	s.Run("round-trips a manifest by ID", func() {
		m := s.newManifest("")
		s.Require().NoError(s.store.Create(s.ctx, m))

		found, err := s.store.Get(s.ctx, m.ID)
		s.Require().NoError(err)
		s.Equal(m.ID, found.ID)
	})

	s.Run("unknown ID returns ErrNotFound", func() {
		_, err := s.store.Get(s.ctx, domain.NewManifestID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("duplicate ID returns ErrConflict", func() {
		m := s.newManifest("")
		s.Require().NoError(s.store.Create(s.ctx, m))
		s.Require().ErrorIs(s.store.Create(s.ctx, m), sentinel.ErrConflict)
	})

	s.Run("reads are isolated from later caller mutations", func() {
		m := s.newManifest("")
		s.Require().NoError(s.store.Create(s.ctx, m))

		found, err := s.store.Get(s.ctx, m.ID)
		s.Require().NoError(err)
		found.Status = manifest.StatusSigned

		again, err := s.store.Get(s.ctx, m.ID)
		s.Require().NoError(err)
		s.Equal(manifest.StatusNotAssigned, again.Status)
	})
}

func (s *MemoryStoreSuite) TestTrackingNumberUniqueness() {
	s.Run("second manifest with the same number is rejected", func() {
		first := s.newManifest("012345678ELC")
		second := s.newManifest("012345678ELC")
		s.Require().NoError(s.store.Create(s.ctx, first))
		s.Require().ErrorIs(s.store.Create(s.ctx, second), sentinel.ErrConflict)
	})

	s.Run("lookup by tracking number", func() {
		m := s.newManifest("999999999ELC")
		s.Require().NoError(s.store.Create(s.ctx, m))

		found, err := s.store.GetByTrackingNumber(s.ctx, "999999999ELC")
		s.Require().NoError(err)
		s.Equal(m.ID, found.ID)

		_, err = s.store.GetByTrackingNumber(s.ctx, "000000000XXX")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("update claiming a taken number is rejected", func() {
		taken := s.newManifest("111111111AAA")
		claimer := s.newManifest("")
		s.Require().NoError(s.store.Create(s.ctx, taken))
		s.Require().NoError(s.store.Create(s.ctx, claimer))

		claimer.TrackingNumber = "111111111AAA"
		s.Require().ErrorIs(s.store.Update(s.ctx, claimer), sentinel.ErrConflict)
	})
}

func (s *MemoryStoreSuite) TestOptimisticConcurrency() {
	s.Run("update bumps the revision", func() {
		m := s.newManifest("")
		s.Require().NoError(s.store.Create(s.ctx, m))

		m.Status = manifest.StatusPending
		s.Require().NoError(s.store.Update(s.ctx, m))
		s.Equal(1, m.Revision)
	})

	s.Run("stale revision is rejected", func() {
		m := s.newManifest("")
		s.Require().NoError(s.store.Create(s.ctx, m))

		fresh, err := s.store.Get(s.ctx, m.ID)
		s.Require().NoError(err)
		s.Require().NoError(s.store.Update(s.ctx, fresh))

		// m still carries revision 0.
		s.Require().ErrorIs(s.store.Update(s.ctx, m), sentinel.ErrConflict)
	})

	s.Run("updating a missing manifest returns ErrNotFound", func() {
		s.Require().ErrorIs(s.store.Update(s.ctx, s.newManifest("")), sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestList() {
	older := s.newManifest("222222222BBB")
	older.CreatedDate = time.Now().Add(-time.Hour)
	newer := s.newManifest("333333333CCC")

	s.Require().NoError(s.store.Create(s.ctx, older))
	s.Require().NoError(s.store.Create(s.ctx, newer))

	details, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(details, 2)
	s.Equal("333333333CCC", details[0].ManifestTrackingNumber, "newest first")
	s.Equal("222222222BBB", details[1].ManifestTrackingNumber)
}
