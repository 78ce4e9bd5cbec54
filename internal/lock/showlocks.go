// Package lock provides the per-show mutual exclusion region around batch
// seat claims. Locks are process-local: the single-venue model runs one
// coordinator instance, and the conditional update inside the claim
// transaction remains the authoritative guard either way.
package lock

import (
	"context"
	"sync"
	"time"

	apperrors "marquee/internal/errors"
)

// ShowLocks hands out one exclusive slot per show id. Acquisition waits at
// most the given timeout, so a contended commit fails retryable instead of
// blocking indefinitely.
type ShowLocks struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewShowLocks() *ShowLocks {
	return &ShowLocks{slots: make(map[string]chan struct{})}
}

func (l *ShowLocks) slot(showID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[showID]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[showID] = s
	}
	return s
}

// Acquire takes the exclusive slot for showID, waiting up to timeout.
// It returns a release func on success and ErrLockTimeout when the wait
// expires or the context is cancelled first.
func (l *ShowLocks) Acquire(ctx context.Context, showID string, timeout time.Duration) (func(), error) {
	s := l.slot(showID)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case s <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-s })
		}, nil
	case <-timer.C:
		return nil, apperrors.ErrLockTimeout
	case <-ctx.Done():
		return nil, apperrors.ErrLockTimeout
	}
}
