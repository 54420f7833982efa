package alloc

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/joshuapare/stlkit/internal/sizes"
)

// maxElemAlign is the alignment every pool block start is guaranteed to have.
const maxElemAlign = 8

// Typed translates element counts into byte counts against an Allocator so
// containers never deal in bytes.
//
// Storage handed out by Typed is raw: it may hold stale bytes from a previous
// owner. Containers initialize it with the construct package.
type Typed[T any] struct {
	a        Allocator
	elemSize int
}

// NewTyped creates an element allocator for T over a.
//
// T must not contain Go pointers (strings, slices, maps, interfaces, ...):
// blocks may come from memory the garbage collector does not scan.
func NewTyped[T any](a Allocator) (*Typed[T], error) {
	var zero T
	rt := reflect.TypeOf(&zero).Elem()
	if hasPointers(rt) {
		return nil, fmt.Errorf("%w: %s", ErrPointerElem, rt)
	}
	if align := unsafe.Alignof(zero); align > maxElemAlign {
		return nil, fmt.Errorf("%w: %s needs %d", ErrAlignment, rt, align)
	}
	return &Typed[T]{a: a, elemSize: int(unsafe.Sizeof(zero))}, nil
}

// ElemSize returns sizeof(T).
func (t *Typed[T]) ElemSize() int {
	return t.elemSize
}

// Allocator returns the wrapped byte allocator.
func (t *Typed[T]) Allocator() Allocator {
	return t.a
}

// Allocate returns storage for n elements. Allocate(0) returns nil without
// calling the wrapped allocator.
func (t *Typed[T]) Allocate(n int) ([]T, error) {
	nbytes, err := sizes.Bytes(n, t.elemSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	if n == 0 {
		return nil, nil
	}
	if t.elemSize == 0 {
		return make([]T, n), nil
	}
	b, err := t.a.Allocate(nbytes)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), nil
}

// AllocateOne returns storage for a single element.
func (t *Typed[T]) AllocateOne() (*T, error) {
	s, err := t.Allocate(1)
	if err != nil {
		return nil, err
	}
	return &s[0], nil
}

// Deallocate releases storage obtained from Allocate(n). Deallocate(_, 0) is
// a no-op.
func (t *Typed[T]) Deallocate(p []T, n int) {
	if n <= 0 || t.elemSize == 0 {
		return
	}
	t.a.Deallocate(unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(p))), n*t.elemSize), n*t.elemSize)
}

// DeallocateOne releases storage obtained from AllocateOne.
func (t *Typed[T]) DeallocateOne(p *T) {
	t.Deallocate(unsafe.Slice(p, 1), 1)
}

// hasPointers reports whether values of rt hold Go pointers.
func hasPointers(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return rt.Len() > 0 && hasPointers(rt.Elem())
	case reflect.Struct:
		for i := range rt.NumField() {
			if hasPointers(rt.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
