package service

import "sync"

// bookingLocks serializes writers per booking id. Every mutating
// operation holds the booking's lock from first read to final write so
// check-then-act is atomic end-to-end within this process; the
// version-guarded UPDATE in the repository is the backstop against
// out-of-process writers. Entries are reference-counted and removed
// when the last holder releases, so the map does not grow with the
// number of bookings ever touched.
type bookingLocks struct {
	mu    sync.Mutex
	locks map[uint64]*bookingLock
}

type bookingLock struct {
	mu   sync.Mutex
	refs int
}

func newBookingLocks() *bookingLocks {
	return &bookingLocks{locks: make(map[uint64]*bookingLock)}
}

// Acquire blocks until the caller holds the lock for the booking id
// and returns the release function.
func (l *bookingLocks) Acquire(id uint64) func() {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &bookingLock{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
