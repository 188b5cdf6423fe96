package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bus-booking/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

func TestLocalLocker_BusyAfterWait(t *testing.T) {
	l := NewLocalLocker()
	busID := uuid.New()

	release, err := l.Acquire(context.Background(), busID, time.Second)
	require.NoError(t, err)

	start := time.Now()
	_, err = l.Acquire(context.Background(), busID, 50*time.Millisecond)
	var busy *domain.BusyError
	require.True(t, errors.As(err, &busy), "got %v", err)
	assert.Equal(t, busID, busy.BusID)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	_, err = l.Acquire(context.Background(), busID, 0)
	assert.True(t, domain.IsBusy(err))

	release()
	release() // second call is a no-op

	release, err = l.Acquire(context.Background(), busID, 0)
	require.NoError(t, err)
	release()
	assert.Zero(t, l.held())
}

func TestLocalLocker_BusesAreIndependent(t *testing.T) {
	l := NewLocalLocker()

	r1, err := l.Acquire(context.Background(), uuid.New(), time.Second)
	require.NoError(t, err)
	r2, err := l.Acquire(context.Background(), uuid.New(), 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 2, l.held())

	r1()
	r2()
	assert.Zero(t, l.held())
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	l := NewLocalLocker()
	busID := uuid.New()

	release, err := l.Acquire(context.Background(), busID, time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, busID, time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocalLocker_MutualExclusion(t *testing.T) {
	l := NewLocalLocker()
	busID := uuid.New()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), busID, 5*time.Second)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			maxSeen = max(maxSeen, inside)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Zero(t, l.held())
}
