package alloc

// Allocator is the byte-level allocation capability shared by every tier.
//
// Implementations:
//   - Primary: pass-through to the system heap
//   - Pool: size-class free lists over a growable pool
//   - Limited: byte budget wrapper used to simulate exhaustion
//   - Locked: serializes calls to another Allocator
//
// Allocators are not self-describing: callers must pass the same byte count to
// Deallocate that they passed to Allocate.
type Allocator interface {
	// Allocate returns a block of at least n bytes (len(b) == n).
	Allocate(n int) ([]byte, error)

	// Deallocate releases a block obtained from Allocate(n).
	Deallocate(b []byte, n int)

	// Reallocate resizes a block from oldN to newN bytes. Whether the old
	// content survives is implementation-defined; see each implementation.
	Reallocate(b []byte, oldN, newN int) ([]byte, error)
}
