//go:build integration

package wastecode

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"emanifest/internal/platform/redis"
	"emanifest/pkg/testutil/containers"
)

type CacheSuite struct {
	suite.Suite
	client *redis.Client
	ctx    context.Context
}

func (s *CacheSuite) SetupSuite() {
	rc := containers.StartRedis(s.T())
	client, err := redis.New(rc.URL)
	s.Require().NoError(err)
	s.client = client
	s.ctx = context.Background()
}

func (s *CacheSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(s.ctx).Err())
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) TestReadThrough() {
	backing := NewSeededStore()
	cached := NewCachedStore(backing, s.client, time.Minute, discardLogger())

	first, err := cached.List(s.ctx, ListFederal)
	s.Require().NoError(err)
	s.Require().NotEmpty(first)

	// A change in the backing store is invisible while the entry is fresh.
	backing.Seed(ListFederal, []Code{{Code: "X999", Description: "changed"}})

	second, err := cached.List(s.ctx, ListFederal)
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *CacheSuite) TestExpiryFallsBackToStore() {
	backing := NewSeededStore()
	cached := NewCachedStore(backing, s.client, 50*time.Millisecond, discardLogger())

	_, err := cached.List(s.ctx, ListState)
	s.Require().NoError(err)

	backing.Seed(ListState, []Code{{Code: "X999", State: "ZZ", Description: "changed"}})
	time.Sleep(100 * time.Millisecond)

	refreshed, err := cached.List(s.ctx, ListState)
	s.Require().NoError(err)
	s.Require().Len(refreshed, 1)
	s.Equal("X999", refreshed[0].Code)
}

func (s *CacheSuite) TestNilClientIsPassThrough() {
	backing := NewSeededStore()
	s.Equal(backing, NewCachedStore(backing, nil, time.Minute, discardLogger()))
}
