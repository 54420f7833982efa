package alloc

import (
	"fmt"

	"github.com/joshuapare/stlkit/internal/sizes"
)

// Limited caps the bytes outstanding from a parent allocator. Requests that
// would exceed the budget fail with ErrOutOfMemory without reaching the
// parent, which makes it the standard way to simulate heap exhaustion.
//
// WARNING: This type is NOT goroutine-safe.
type Limited struct {
	parent Allocator
	limit  int
	used   int
	denied int
}

// NewLimited wraps parent with a budget of limit bytes.
func NewLimited(parent Allocator, limit int) *Limited {
	return &Limited{parent: parent, limit: limit}
}

// SetLimit changes the budget. Outstanding blocks are unaffected.
func (l *Limited) SetLimit(limit int) {
	l.limit = limit
}

// Used returns the bytes currently outstanding.
func (l *Limited) Used() int {
	return l.used
}

// Denied returns how many requests were refused for lack of budget.
func (l *Limited) Denied() int {
	return l.denied
}

// Allocate forwards to the parent if n fits the remaining budget.
func (l *Limited) Allocate(n int) ([]byte, error) {
	if n > 0 && !sizes.Fits(l.used, n, l.limit) {
		l.denied++
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrOutOfMemory, n, l.used, l.limit)
	}
	b, err := l.parent.Allocate(n)
	if err != nil {
		return nil, err
	}
	l.used += n
	return b, nil
}

// Deallocate returns n bytes to the budget.
func (l *Limited) Deallocate(b []byte, n int) {
	l.parent.Deallocate(b, n)
	if n > 0 {
		l.used -= n
	}
}

// Reallocate forwards to the parent if the growth fits the budget.
func (l *Limited) Reallocate(b []byte, oldN, newN int) ([]byte, error) {
	if grow := newN - oldN; grow > 0 && !sizes.Fits(l.used, grow, l.limit) {
		l.denied++
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrOutOfMemory, grow, l.used, l.limit)
	}
	nb, err := l.parent.Reallocate(b, oldN, newN)
	if err != nil {
		return nil, err
	}
	l.used += newN - oldN
	return nb, nil
}
