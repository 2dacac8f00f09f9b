package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter(n *int32, value string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		atomic.AddInt32(n, 1)
		return value, nil
	}
}

func TestQueryCachesUntilInvalidated(t *testing.T) {
	c := NewQueryCache(time.Minute)
	ctx := context.Background()
	var n int32

	v, err := Query(ctx, c, "skills/list", counter(&n, "a"))
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, _ = Query(ctx, c, "skills/list", counter(&n, "b"))
	assert.Equal(t, "a", v)
	assert.EqualValues(t, 1, n)

	c.Invalidate("skills")
	v, _ = Query(ctx, c, "skills/list", counter(&n, "b"))
	assert.Equal(t, "b", v)
	assert.EqualValues(t, 2, n)
}

func TestInvalidateMatchesWholeSegments(t *testing.T) {
	c := NewQueryCache(time.Minute)
	ctx := context.Background()
	var n int32
	for _, k := range []string{"sessions", "sessions/4", "sessions-learner", "reviews/session/4"} {
		_, err := Query(ctx, c, k, counter(&n, k))
		require.NoError(t, err)
	}

	c.Invalidate("sessions")

	assert.False(t, c.Has("sessions"))
	assert.False(t, c.Has("sessions/4"))
	assert.True(t, c.Has("sessions-learner"))
	assert.True(t, c.Has("reviews/session/4"))
}

func TestFailedFetchIsNotCached(t *testing.T) {
	c := NewQueryCache(time.Minute)
	boom := errors.New("boom")

	_, err := Query(context.Background(), c, "categories", func(context.Context) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Has("categories"))
}

func TestEntriesExpire(t *testing.T) {
	c := NewQueryCache(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }
	var n int32

	Query(context.Background(), c, "categories", counter(&n, "a"))
	now = now.Add(2 * time.Minute)
	Query(context.Background(), c, "categories", counter(&n, "a"))
	assert.EqualValues(t, 2, n)
}

func TestConcurrentQueriesShareOneFetch(t *testing.T) {
	c := NewQueryCache(time.Minute)
	release := make(chan struct{})
	var n int32
	fetch := func(context.Context) (string, error) {
		atomic.AddInt32(&n, 1)
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Query(context.Background(), c, "categories", fetch)
			assert.NoError(t, err)
			assert.Equal(t, "v", v)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.EqualValues(t, 1, n)
}

func TestCancelledCallerDoesNotFailOthers(t *testing.T) {
	c := NewQueryCache(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) ([]int, error) {
		close(started)
		select {
		case <-release:
			return []int{1, 2}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := Query(ctxA, c, "sessions", fetch)
		errA <- err
	}()
	<-started

	type result struct {
		v   []int
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, err := Query(context.Background(), c, "sessions", fetch)
		resB <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, []int{1, 2}, b.v)
	assert.True(t, c.Has("sessions"))
}

func TestCancelledCallerReturnsWhileFetchRuns(t *testing.T) {
	c := NewQueryCache(time.Minute)
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Query(ctx, c, "categories", func(context.Context) (string, error) {
		<-release
		return "v", nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResultsAreCopies(t *testing.T) {
	c := NewQueryCache(time.Minute)
	ctx := context.Background()
	fetch := func(context.Context) ([]int, error) { return []int{1, 2}, nil }

	v, err := Query(ctx, c, "skills/list", fetch)
	require.NoError(t, err)
	v[0] = 99

	v, err = Query(ctx, c, "skills/list", fetch)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, v)

	type item struct{ Title string }
	p, err := Query(ctx, c, "skills/detail/1", func(context.Context) (*item, error) { return &item{Title: "Guitar"}, nil })
	require.NoError(t, err)
	p.Title = "changed"

	p, err = Query(ctx, c, "skills/detail/1", func(context.Context) (*item, error) { return nil, nil })
	require.NoError(t, err)
	assert.Equal(t, "Guitar", p.Title)
}

func TestFetchRacingInvalidationDoesNotRepopulate(t *testing.T) {
	c := NewQueryCache(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		Query(context.Background(), c, "sessions", func(context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
	}()

	<-started
	c.Invalidate("sessions")
	close(release)
	<-done

	assert.False(t, c.Has("sessions"))
}

func TestRefetchBypassesCache(t *testing.T) {
	c := NewQueryCache(time.Minute)
	var n int32
	Query(context.Background(), c, "session-messages/1", counter(&n, "a"))
	v, err := Refetch(context.Background(), c, "session-messages/1", counter(&n, "b"))
	require.NoError(t, err)
	assert.Equal(t, "b", v)
	assert.EqualValues(t, 2, n)
}
