package station

import "sync"

// stationLocks serializes writes per station. Requests targeting different
// stations never block each other; requests targeting the same station are
// fully serialized so check-then-decrement sequences are atomic.
//
// Lock entries are never removed: the fleet is small and station IDs are not
// reused, so the map only ever holds one mutex per station seen.
type stationLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newStationLocks() *stationLocks {
	return &stationLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *stationLocks) get(stationID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[stationID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[stationID] = m
	}
	return m
}
