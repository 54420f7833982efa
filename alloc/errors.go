package alloc

import "errors"

var (
	// ErrOutOfMemory indicates the system heap could not satisfy a request and,
	// for the pool, that no size class had a block left to scavenge.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrInvalidSize indicates a negative byte or element count.
	ErrInvalidSize = errors.New("alloc: invalid size")

	// ErrBadConfig indicates an unusable size-class configuration.
	ErrBadConfig = errors.New("alloc: bad size class config")

	// ErrPointerElem indicates an element type holding Go pointers, which cannot
	// live in memory the garbage collector does not scan.
	ErrPointerElem = errors.New("alloc: element type contains pointers")

	// ErrAlignment indicates an element type needing more alignment than pool blocks provide.
	ErrAlignment = errors.New("alloc: element alignment exceeds block alignment")

	// ErrChunkRetries indicates chunk carving did not converge.
	ErrChunkRetries = errors.New("alloc: chunk carving exceeded retry bound")
)
