package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "marquee/internal/errors"
)

func TestAcquireRelease(t *testing.T) {
	locks := NewShowLocks()

	release, err := locks.Acquire(context.Background(), "show-1", 50*time.Millisecond)
	require.NoError(t, err)

	// Same show is contended until released.
	_, err = locks.Acquire(context.Background(), "show-1", 20*time.Millisecond)
	assert.ErrorIs(t, err, apperrors.ErrLockTimeout)

	release()

	release2, err := locks.Acquire(context.Background(), "show-1", 20*time.Millisecond)
	require.NoError(t, err)
	release2()
}

func TestIndependentShows(t *testing.T) {
	locks := NewShowLocks()

	r1, err := locks.Acquire(context.Background(), "show-1", 20*time.Millisecond)
	require.NoError(t, err)
	defer r1()

	r2, err := locks.Acquire(context.Background(), "show-2", 20*time.Millisecond)
	require.NoError(t, err)
	defer r2()
}

func TestReleaseIsIdempotent(t *testing.T) {
	locks := NewShowLocks()

	release, err := locks.Acquire(context.Background(), "show-1", 20*time.Millisecond)
	require.NoError(t, err)

	release()
	release() // second call must not unlock someone else's acquisition

	release2, err := locks.Acquire(context.Background(), "show-1", 20*time.Millisecond)
	require.NoError(t, err)
	defer release2()

	_, err = locks.Acquire(context.Background(), "show-1", 20*time.Millisecond)
	assert.ErrorIs(t, err, apperrors.ErrLockTimeout)
}

func TestCancelledContext(t *testing.T) {
	locks := NewShowLocks()

	release, err := locks.Acquire(context.Background(), "show-1", 20*time.Millisecond)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = locks.Acquire(ctx, "show-1", time.Second)
	assert.ErrorIs(t, err, apperrors.ErrLockTimeout)
}

func TestMutualExclusionUnderContention(t *testing.T) {
	locks := NewShowLocks()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		maxSeen int
	)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locks.Acquire(context.Background(), "show-1", time.Second)
			if err != nil {
				return
			}
			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen, "at most one goroutine may hold a show lock")
}
