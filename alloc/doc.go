// Package alloc provides the two-tier memory allocator behind stlkit's
// containers.
//
// # Overview
//
// Small, frequent requests (container nodes and buffers) are served from
// segregated free lists refilled in batches from a growable pool, so the
// system heap is touched once per batch instead of once per object. Large
// requests go straight to the system heap.
//
// # Allocator Interface
//
// Every tier implements Allocator:
//
//   - Allocate(n): obtain a block of n bytes
//   - Deallocate(b, n): release a block; n must match the original request
//   - Reallocate(b, oldN, newN): resize a block
//
// # Implementations
//
// Primary: first-tier pass-through to the system heap
//
//   - SourceGo: Go heap, reclamation left to the garbage collector
//   - SourceMapped: private anonymous mappings, unmapped on Deallocate
//
// Pool: second-tier size-class allocator
//
//   - 16 size classes (8B to 128B, step 8) with DefaultConfig
//   - O(1) allocation and deallocation (free-list pop / push)
//   - Batch refill of 20 blocks, partial batches when the pool is short
//   - Geometric pool growth: 2*need + heapSize/16 per growth
//   - Scavenging of a larger free block when the system heap is exhausted
//   - Requests above MaxBytes delegate to the primary
//
// Limited: byte budget wrapper, used to simulate exhaustion
//
// Locked: serializes calls through a caller-supplied sync.Locker
//
// Typed[T]: element-count adapter over any Allocator
//
// # Usage Example
//
//	pool, err := alloc.NewPool(alloc.NewPrimary(alloc.SourceGo), nil)
//	if err != nil {
//	    return err
//	}
//
//	b, err := pool.Allocate(24) // served from the 24-byte class
//	if err != nil {
//	    return err
//	}
//	...
//	pool.Deallocate(b, 24) // same size as the request
//
// # Size Classes
//
// With DefaultConfig the pool maintains 16 free lists:
//
//	Class  0:   1 -   8 bytes
//	Class  1:   9 -  16 bytes
//	...
//	Class 15: 121 - 128 bytes
//
// FreeListIndex(n) = ceil(n/8) - 1 and RoundUp(n) = FreeListIndex(n)*8 + 8.
//
// # Storing Pointers
//
// Blocks are raw bytes the garbage collector does not scan: a pool region may
// be an anonymous mapping, and a Go-heap region is kept alive only by the
// pool's own references. A Go pointer written into a block is therefore
// invisible to the collector and may dangle. Keep links between pooled
// objects as indices or offsets, never as pointers, slices, strings, maps or
// interfaces. Typed enforces this by rejecting element types that hold Go
// pointers (ErrPointerElem).
//
// # Error Handling
//
// Allocation fails with ErrOutOfMemory only when the system heap refuses a
// pool growth and no size class has a block left to scavenge, or when a single
// request exceeds the heap ceiling (1<<47-1 bytes on 64-bit). Size mismatches
// on Deallocate, double frees and use after free are not detected: the
// allocator keeps no per-block header.
//
// Reallocate on a Pool does NOT preserve content.
//
// # Thread Safety
//
// Pool, Primary and Limited are not goroutine-safe. Concurrent use is a data
// race. Wrap a shared allocator with NewLocked.
package alloc
