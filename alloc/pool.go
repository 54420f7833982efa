package alloc

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"unsafe"

	"github.com/joshuapare/stlkit/internal/logger"
)

// Runtime debug flag for growth/scavenge logging - controlled by STLKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("STLKIT_LOG_ALLOC") != ""

// maxChunkAttempts bounds the carve/grow/scavenge loop in chunkAlloc. A
// successful grow or scavenge leaves at least one block in the window, so the
// loop finishes on its second pass.
const maxChunkAttempts = 4

// Pool is the second-tier allocator. Requests up to Config.MaxBytes are served
// from per-class free lists refilled in batches from a pool window; larger
// requests go to the primary allocator. Blocks returned to a free list are
// never given back to the primary.
//
// WARNING: This type is NOT goroutine-safe. Wrap it with NewLocked when it is
// shared.
type Pool struct {
	primary Allocator
	cfg     Config

	// Segregated free lists, one per size class
	freeLists []freeList

	// Unallocated tail of the most recent region
	win window

	// Cumulative bytes obtained from the primary for pool growth
	heapSize int

	// Pool for reusing freeBlock link records
	freeBlockPool sync.Pool

	// Statistics for testing and instrumentation
	stats Stats

	// Test hook: called after every pool growth (nil in production)
	onGrow func(bytes int)
}

// NewPool creates a pool allocator.
//
// Parameters:
//   - primary: source of pool regions and of large blocks (nil for a Go-heap Primary)
//   - config: size class configuration (nil for DefaultConfig)
func NewPool(primary Allocator, config *Config) (*Pool, error) {
	if primary == nil {
		primary = NewPrimary(SourceGo)
	}
	if config == nil {
		config = &DefaultConfig
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Pool{
		primary:   primary,
		cfg:       *config,
		freeLists: make([]freeList, config.NumClasses()),
		freeBlockPool: sync.Pool{
			New: func() any {
				return &freeBlock{}
			},
		},
	}, nil
}

// NewDefault creates a pool over the Go heap with DefaultConfig.
func NewDefault() *Pool {
	p, err := NewPool(nil, nil)
	if err != nil {
		panic(err) // DefaultConfig always validates
	}
	return p
}

// Allocate returns a block of n bytes. Small requests pop the head of their
// size class, refilling it from the pool when empty; requests above MaxBytes
// go to the primary. Allocate(0) returns nil without touching any list.
func (p *Pool) Allocate(n int) ([]byte, error) {
	p.stats.AllocCalls++

	switch {
	case n < 0:
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	case n == 0:
		return nil, nil
	case n > p.cfg.MaxBytes:
		p.stats.LargeAllocs++
		return p.primary.Allocate(n)
	}

	if mem := p.pop(p.cfg.FreeListIndex(n)); mem != nil {
		p.stats.FreeListHits++
		return mem[:n], nil
	}

	mem, err := p.refill(p.cfg.RoundUp(n))
	if err != nil {
		return nil, err
	}
	return mem[:n], nil
}

// Deallocate links a block obtained from Allocate(n) back into its size class
// in O(1). n must match the original request. Double frees are not detected.
func (p *Pool) Deallocate(b []byte, n int) {
	if n <= 0 {
		return
	}
	p.stats.FreeCalls++

	if n > p.cfg.MaxBytes {
		p.stats.LargeFrees++
		p.primary.Deallocate(b, n)
		return
	}

	// The block spans the whole class size even when the caller's slice is shorter.
	size := p.cfg.RoundUp(n)
	p.push(p.cfg.FreeListIndex(n), unsafe.Slice(unsafe.SliceData(b), size))
}

// Reallocate deallocates the old block and allocates a new one.
//
// The old content is NOT preserved. Callers that need the bytes must copy
// them out before the call.
func (p *Pool) Reallocate(b []byte, oldN, newN int) ([]byte, error) {
	p.Deallocate(b, oldN)
	return p.Allocate(newN)
}

// refill carves a batch of blocks of the given (rounded) size, returns the
// first and threads the rest onto the size class list.
func (p *Pool) refill(size int) ([]byte, error) {
	p.stats.Refills++

	chunk, nobjs, err := p.chunkAlloc(size, p.cfg.RefillObjects)
	if err != nil {
		return nil, err
	}
	if nobjs == 1 {
		return chunk, nil
	}

	// Push from the back so the list runs in carve order.
	idx := p.cfg.FreeListIndex(size)
	for i := nobjs - 1; i >= 1; i-- {
		off := i * size
		p.push(idx, chunk[off:off+size:off+size])
	}
	return chunk[:size:size], nil
}

// chunkAlloc carves up to nobjs blocks of size bytes from the pool window and
// returns the region together with the number of blocks actually carved,
// which may be lower than requested when memory is scarce.
func (p *Pool) chunkAlloc(size, nobjs int) ([]byte, int, error) {
	p.stats.ChunkAllocs++

	for range maxChunkAttempts {
		needed := size * nobjs
		left := p.win.size()

		// Full fit
		if left >= needed {
			return p.win.carve(needed), nobjs, nil
		}

		// Partial fit: as many whole blocks as the window holds
		if left >= size {
			p.stats.PartialChunks++
			got := left / size
			return p.win.carve(got * size), got, nil
		}

		bytesToGet := 2*needed + p.cfg.RoundUp(p.heapSize>>4)

		// Keep the leftover on the list of its exact size class.
		if left > 0 {
			rest := p.win.drain()
			p.push(p.cfg.FreeListIndex(left), rest[:left:left])
			p.stats.LeftoverSplices++
		}

		region, err := p.primary.Allocate(bytesToGet)
		if err == nil {
			p.grow(region, bytesToGet)
			continue
		}

		if logAlloc && logger.Enabled(slog.LevelDebug) {
			logger.Debug("alloc: pool growth failed, scavenging",
				"size", size, "bytes", bytesToGet, "err", err)
		}
		if p.scavenge(size) {
			continue
		}

		// Nothing left to scavenge: one last, fatal attempt.
		region, err = p.primary.Allocate(bytesToGet)
		if err != nil {
			return nil, 0, outOfMemory(bytesToGet, err)
		}
		p.grow(region, bytesToGet)
	}

	return nil, 0, fmt.Errorf("%w: size=%d nobjs=%d", ErrChunkRetries, size, nobjs)
}

// grow installs a fresh region of n bytes as the pool window.
func (p *Pool) grow(region []byte, n int) {
	p.win.install(region[:n:n])
	p.heapSize += n
	p.stats.PoolGrowths++

	if logAlloc && logger.Enabled(slog.LevelDebug) {
		logger.Debug("alloc: pool grown", "bytes", n, "heap_size", p.heapSize)
	}
	if p.onGrow != nil {
		p.onGrow(n)
	}
}

// scavenge moves one free block of a class that can hold size bytes into the
// pool window, scanning classes in ascending order. The class loses the block
// for good.
func (p *Pool) scavenge(size int) bool {
	for idx := p.cfg.FreeListIndex(size); idx < len(p.freeLists); idx++ {
		if mem := p.pop(idx); mem != nil {
			p.win.install(mem)
			p.stats.Scavenges++
			if logAlloc && logger.Enabled(slog.LevelDebug) {
				logger.Debug("alloc: scavenged block", "size", size, "class_size", p.cfg.ClassSize(idx))
			}
			return true
		}
	}
	return false
}

// outOfMemory wraps a failed pool growth so that it always matches ErrOutOfMemory.
func outOfMemory(bytes int, err error) error {
	if errors.Is(err, ErrOutOfMemory) {
		return fmt.Errorf("alloc: grow pool by %d bytes: %w", bytes, err)
	}
	return fmt.Errorf("%w: grow pool by %d bytes: %w", ErrOutOfMemory, bytes, err)
}

// Config returns the size class configuration.
func (p *Pool) Config() Config {
	return p.cfg
}

// NumClasses returns the number of size classes.
func (p *Pool) NumClasses() int {
	return len(p.freeLists)
}

// FreeListDepth returns the number of free blocks in class idx.
func (p *Pool) FreeListDepth(idx int) int {
	return p.freeLists[idx].depth
}

// HeapSize returns the cumulative bytes obtained from the primary for pool growth.
func (p *Pool) HeapSize() int {
	return p.heapSize
}

// WindowBytes returns the bytes left in the pool window.
func (p *Pool) WindowBytes() int {
	return p.win.size()
}
