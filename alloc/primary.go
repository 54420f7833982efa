package alloc

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/stlkit/internal/logger"
	"github.com/joshuapare/stlkit/internal/sizes"
	"github.com/joshuapare/stlkit/internal/sysmem"
)

// Source selects where a Primary obtains memory.
type Source uint8

const (
	// SourceGo allocates from the Go heap. Deallocate leaves reclamation to the
	// garbage collector.
	SourceGo Source = iota

	// SourceMapped allocates private anonymous mappings and unmaps them on
	// Deallocate. On platforms without mmap it behaves like SourceGo.
	SourceMapped
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceGo:
		return "go"
	case SourceMapped:
		return "mapped"
	default:
		return fmt.Sprintf("Source(%d)", uint8(s))
	}
}

// Primary is the first-tier allocator: a stateless pass-through to the system
// heap. It serves requests above the pool threshold and supplies the pool with
// bulk memory.
type Primary struct {
	src Source
}

// NewPrimary creates a primary allocator over the given source.
func NewPrimary(src Source) *Primary {
	return &Primary{src: src}
}

// Source returns the memory source in use.
func (p *Primary) Source() Source {
	return p.src
}

// Allocate returns a zeroed block of exactly n bytes.
func (p *Primary) Allocate(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	if n == 0 {
		return nil, nil
	}
	if n > sizes.MaxAlloc {
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrOutOfMemory, n, sizes.MaxAlloc)
	}
	if p.src == SourceMapped {
		b, err := sysmem.Map(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
		}
		return b, nil
	}
	return make([]byte, n), nil
}

// Deallocate releases a block obtained from Allocate(n).
func (p *Primary) Deallocate(b []byte, n int) {
	if n <= 0 || p.src != SourceMapped || !sysmem.Mapped {
		return
	}
	if err := sysmem.Unmap(unsafe.Slice(unsafe.SliceData(b), n)); err != nil {
		logger.Warn("alloc: unmap failed", "bytes", n, "err", err)
	}
}

// Reallocate moves the block to a new region of newN bytes, preserving the
// first min(oldN, newN) bytes.
func (p *Primary) Reallocate(b []byte, oldN, newN int) ([]byte, error) {
	if newN == oldN {
		return b, nil
	}
	nb, err := p.Allocate(newN)
	if err != nil {
		return nil, err
	}
	if oldN > 0 {
		copy(nb, unsafe.Slice(unsafe.SliceData(b), oldN))
	}
	p.Deallocate(b, oldN)
	return nb, nil
}
