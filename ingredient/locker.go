package ingredient

import (
	"slices"
	"sync"
)

// Serializes conflicting stock mutations per ingredient. The
// allocation engine holds these locks across its validate and commit
// phases so two plans cannot both pass validation against the same
// stale stock snapshot.
type Locker struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[uint64]*sync.Mutex)}
}

// Locks the given ingredients and returns the release. Acquisition is
// always in ascending id order so plans touching overlapping
// ingredient sets cannot deadlock.
func (l *Locker) Acquire(ids ...uint64) func() {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	for _, id := range sorted {
		l.lock(id).Lock()
	}

	return func() {
		for i := len(sorted) - 1; i >= 0; i-- {
			l.lock(sorted[i]).Unlock()
		}
	}
}

func (l *Locker) lock(id uint64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	mutex, ok := l.locks[id]
	if !ok {
		mutex = &sync.Mutex{}
		l.locks[id] = mutex
	}

	return mutex
}
