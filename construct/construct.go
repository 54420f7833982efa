// Package construct provides the object lifecycle primitives containers use to
// place values into raw storage obtained from an allocator and to tear them
// down again without releasing that storage.
//
// # Trivial and non-trivial types
//
// A type is non-trivial when its pointer type implements one of the lifecycle
// hooks:
//
//   - Destroyer:      Destroy() is called when an element is torn down
//   - Constructor[T]: Construct(src T) error builds an element from a source value
//
// Every other type is trivial. Trivial element ranges are filled and copied
// with bulk memory moves, and destroying them is a complete no-op. The
// decision is made once per call from the method set of *T, never per element.
//
// # Usage Example
//
//	buf, err := typed.Allocate(16)
//	if err != nil {
//	    return err
//	}
//	if _, err := construct.UninitializedFillN(buf, 16, Item{}); err != nil {
//	    typed.Deallocate(buf, 16)
//	    return err
//	}
//	...
//	construct.DestroyRange(buf)
//	typed.Deallocate(buf, 16)
package construct

import "fmt"

// Destroyer is implemented by element types that need a teardown action.
type Destroyer interface {
	Destroy()
}

// Constructor is implemented by element types whose construction from a source
// value is more than a byte copy. Construct may fail; the failure is returned
// to the caller unchanged.
type Constructor[T any] interface {
	Construct(src T) error
}

// HasTrivialDestructor reports whether tearing down a T is a no-op.
func HasTrivialDestructor[T any]() bool {
	_, ok := any((*T)(nil)).(Destroyer)
	return !ok
}

// IsTrivial reports whether T can be constructed, copied and destroyed as raw
// bytes.
func IsTrivial[T any]() bool {
	p := any((*T)(nil))
	if _, ok := p.(Destroyer); ok {
		return false
	}
	_, ok := p.(Constructor[T])
	return !ok
}

// Construct initializes the storage at p from v.
func Construct[T any](p *T, v T) error {
	if c, ok := any(p).(Constructor[T]); ok {
		return c.Construct(v)
	}
	*p = v
	return nil
}

// Destroy tears down the value at p without releasing its storage.
func Destroy[T any](p *T) {
	if d, ok := any(p).(Destroyer); ok {
		d.Destroy()
	}
}

// DestroyRange tears down every element of s in index order. For types with a
// trivial destructor the range is not visited at all.
func DestroyRange[T any](s []T) {
	if HasTrivialDestructor[T]() {
		return
	}
	for i := range s {
		any(&s[i]).(Destroyer).Destroy()
	}
}

// DestroyBytes is the byte specialization of DestroyRange. Bytes never need
// teardown.
func DestroyBytes([]byte) {}

// DestroyRunes is the rune specialization of DestroyRange.
func DestroyRunes([]rune) {}

// constructRange constructs dst[i] from src(i) for every i, destroying the
// elements already built when a construction fails.
func constructRange[T any](dst []T, src func(i int) T) (int, error) {
	if _, ok := any((*T)(nil)).(Constructor[T]); !ok {
		for i := range dst {
			dst[i] = src(i)
		}
		return len(dst), nil
	}
	for i := range dst {
		if err := any(&dst[i]).(Constructor[T]).Construct(src(i)); err != nil {
			DestroyRange(dst[:i])
			return 0, fmt.Errorf("construct: element %d: %w", i, err)
		}
	}
	return len(dst), nil
}
