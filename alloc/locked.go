package alloc

import "sync"

// Locked serializes every call to an Allocator through a caller-supplied lock.
// It is the supported way to share a Pool between goroutines.
type Locked struct {
	mu sync.Locker
	a  Allocator
}

// NewLocked wraps a. If mu is nil a fresh sync.Mutex is used.
func NewLocked(a Allocator, mu sync.Locker) *Locked {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &Locked{mu: mu, a: a}
}

// Allocate calls the wrapped Allocate under the lock.
func (l *Locked) Allocate(n int) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Allocate(n)
}

// Deallocate calls the wrapped Deallocate under the lock.
func (l *Locked) Deallocate(b []byte, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.a.Deallocate(b, n)
}

// Reallocate calls the wrapped Reallocate under the lock.
func (l *Locked) Reallocate(b []byte, oldN, newN int) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Reallocate(b, oldN, newN)
}

// Do runs fn while holding the lock, for callers that need several calls (or
// a Stats read) to happen atomically.
func (l *Locked) Do(fn func(a Allocator)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.a)
}
