package bucket

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"rsu/internal/ratelimit/models"
)

const (
	testLimit  = 5
	testWindow = time.Minute
)

type allower interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
	Reset(ctx context.Context, key string) error
}

// BucketStoreSuite runs the same sliding-window behaviour against each backend.
type BucketStoreSuite struct {
	suite.Suite
	newStore func(now func() time.Time) allower
	ctx      context.Context
	clock    time.Time
	store    allower
}

func TestInMemoryBucketStore(t *testing.T) {
	suite.Run(t, &BucketStoreSuite{newStore: func(now func() time.Time) allower {
		s := NewInMemoryBucketStore()
		s.now = now
		return s
	}})
}

func TestRedisBucketStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	suite.Run(t, &BucketStoreSuite{newStore: func(now func() time.Time) allower {
		mr.FlushAll()
		s := NewRedisBucketStore(client)
		s.now = now
		return s
	}})
}

func (s *BucketStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	s.store = s.newStore(func() time.Time { return s.clock })
}

func (s *BucketStoreSuite) allow(key string) *models.RateLimitResult {
	res, err := s.store.Allow(s.ctx, key, testLimit, testWindow)
	s.Require().NoError(err)
	return res
}

func (s *BucketStoreSuite) TestAllowUpToLimit() {
	first := s.allow("k")
	s.True(first.Allowed)
	s.Equal(testLimit, first.Limit)
	s.Equal(testLimit-1, first.Remaining)
	s.WithinDuration(s.clock.Add(testWindow), first.ResetAt, 0)

	for range testLimit - 2 {
		s.clock = s.clock.Add(time.Second)
		s.True(s.allow("k").Allowed)
	}
	s.clock = s.clock.Add(time.Second)
	last := s.allow("k")
	s.True(last.Allowed)
	s.Zero(last.Remaining)

	denied := s.allow("k")
	s.False(denied.Allowed)
	s.Zero(denied.Remaining)
	s.Equal(56, denied.RetryAfter, "oldest request leaves the window after 56s")
}

func (s *BucketStoreSuite) TestWindowSlides() {
	for range testLimit {
		s.True(s.allow("k").Allowed)
	}
	s.False(s.allow("k").Allowed)

	s.clock = s.clock.Add(testWindow + time.Second)
	res := s.allow("k")
	s.True(res.Allowed)
	s.Equal(testLimit-1, res.Remaining, "denied requests are not counted")
}

func (s *BucketStoreSuite) TestKeysAreIsolated() {
	for range testLimit {
		s.allow("a")
	}
	s.False(s.allow("a").Allowed)
	s.True(s.allow("b").Allowed)
}

func (s *BucketStoreSuite) TestReset() {
	for range testLimit {
		s.allow("k")
	}
	s.Require().NoError(s.store.Reset(s.ctx, "k"))
	s.True(s.allow("k").Allowed)
}

func (s *BucketStoreSuite) TestConcurrentRequestsNeverExceedLimit() {
	var allowed atomic.Int32
	var wg sync.WaitGroup
	for range 4 * testLimit {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.store.Allow(s.ctx, "burst", testLimit, testWindow)
			if err == nil && res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(testLimit), allowed.Load())
}
