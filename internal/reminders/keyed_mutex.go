package reminders

import "sync"

// keyedMutex serializes work per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

func (keyed *keyedMutex) Lock(key string) (unlock func()) {
	keyed.mu.Lock()
	lock, ok := keyed.locks[key]
	if !ok {
		lock = &keyedLock{}
		keyed.locks[key] = lock
	}
	lock.refs++
	keyed.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		keyed.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(keyed.locks, key)
		}
		keyed.mu.Unlock()
	}
}
