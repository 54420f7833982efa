package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helpers
// ============================================================================

// recorder is a primary allocator that records every request it sees.
type recorder struct {
	inner  Allocator
	allocs []int
	frees  []int
}

func newRecorder() *recorder {
	return &recorder{inner: NewPrimary(SourceGo)}
}

func (r *recorder) Allocate(n int) ([]byte, error) {
	r.allocs = append(r.allocs, n)
	return r.inner.Allocate(n)
}

func (r *recorder) Deallocate(b []byte, n int) {
	r.frees = append(r.frees, n)
	r.inner.Deallocate(b, n)
}

func (r *recorder) Reallocate(b []byte, oldN, newN int) ([]byte, error) {
	return r.inner.Reallocate(b, oldN, newN)
}

// newTestPool creates a default pool over primary.
func newTestPool(t testing.TB, primary Allocator) *Pool {
	t.Helper()
	p, err := NewPool(primary, nil)
	require.NoError(t, err)
	return p
}

// addr returns the address of the first byte of b.
func addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// totalDepth returns the number of blocks on all free lists.
func totalDepth(p *Pool) int {
	n := 0
	for i := range p.NumClasses() {
		n += p.FreeListDepth(i)
	}
	return n
}
