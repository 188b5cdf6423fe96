package reservation

import (
	"context"
	"sync"
	"time"

	"bus-booking/internal/domain"

	"github.com/google/uuid"
)

// Locker guards the per-bus critical section.
type Locker interface {
	// Acquire blocks until the section of busID is held. It gives up with a
	// *domain.BusyError after wait, or with ctx's error. release must be called
	// exactly once; later calls are no-ops.
	Acquire(ctx context.Context, busID uuid.UUID, wait time.Duration) (release func(), err error)
}

// LocalLocker serializes sections inside one process. Each bus gets a one-slot
// channel; blocked senders are served in arrival order.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[uuid.UUID]*slot)}
}

func (l *LocalLocker) Acquire(ctx context.Context, busID uuid.UUID, wait time.Duration) (func(), error) {
	s := l.ref(busID)

	acquired := func() (func(), error) {
		var once sync.Once
		return func() {
			once.Do(func() {
				<-s.ch
				l.unref(busID, s)
			})
		}, nil
	}

	if wait <= 0 {
		select {
		case s.ch <- struct{}{}:
			return acquired()
		default:
			l.unref(busID, s)
			return nil, &domain.BusyError{BusID: busID, Waited: 0}
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
		return acquired()
	case <-timer.C:
		l.unref(busID, s)
		return nil, &domain.BusyError{BusID: busID, Waited: wait}
	case <-ctx.Done():
		l.unref(busID, s)
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) ref(busID uuid.UUID) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[busID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[busID] = s
	}
	s.refs++
	return s
}

// unref drops the slot once nobody holds or waits for it.
func (l *LocalLocker) unref(busID uuid.UUID, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, busID)
	}
}
