package service

import "sync"

// keyedMutex serializes operations on the same key while leaving distinct
// keys fully independent. Entries are reference counted and removed when the
// last holder unlocks, so the map does not grow with the number of fragments
// ever touched.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

func (k *keyedMutex) lock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

func (k *keyedMutex) unlock(key string) {
	k.mu.Lock()
	l := k.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	l.mu.Unlock()
}
