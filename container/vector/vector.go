// Package vector provides a growable array whose storage comes from an
// alloc.Allocator instead of the Go heap.
//
// Elements are placed into raw storage with the construct package, so element
// types that implement construct.Constructor or construct.Destroyer get their
// hooks called on every copy-in and teardown. Element types must be free of Go
// pointers (see alloc.NewTyped).
//
// WARNING: Vector is NOT goroutine-safe.
package vector

import (
	"fmt"
	"iter"

	"github.com/joshuapare/stlkit/alloc"
	"github.com/joshuapare/stlkit/construct"
)

// Vector is a dynamic array. The zero value is not usable; create one with New.
type Vector[T any] struct {
	ta  *alloc.Typed[T]
	buf []T // len(buf) is the capacity
	n   int
}

// New creates an empty vector. A nil allocator selects a default pool.
func New[T any](a alloc.Allocator) (*Vector[T], error) {
	if a == nil {
		a = alloc.NewDefault()
	}
	ta, err := alloc.NewTyped[T](a)
	if err != nil {
		return nil, fmt.Errorf("vector: %w", err)
	}
	return &Vector[T]{ta: ta}, nil
}

// NewFilled creates a vector holding n copies of v with capacity exactly n.
func NewFilled[T any](a alloc.Allocator, n int, v T) (*Vector[T], error) {
	vec, err := New[T](a)
	if err != nil {
		return nil, err
	}
	if err := vec.Resize(n, v); err != nil {
		vec.Release()
		return nil, err
	}
	return vec, nil
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return v.n }

// Cap returns the number of elements the current storage can hold.
func (v *Vector[T]) Cap() int { return len(v.buf) }

// Empty reports whether the vector has no elements.
func (v *Vector[T]) Empty() bool { return v.n == 0 }

// At returns element i. It panics if i is out of range.
func (v *Vector[T]) At(i int) T {
	return v.buf[:v.n][i]
}

// Set assigns element i. It panics if i is out of range.
func (v *Vector[T]) Set(i int, x T) {
	v.buf[:v.n][i] = x
}

// Front returns the first element. It panics on an empty vector.
func (v *Vector[T]) Front() T { return v.At(0) }

// Back returns the last element. It panics on an empty vector.
func (v *Vector[T]) Back() T { return v.At(v.n - 1) }

// PushBack appends x, doubling the capacity when the storage is full.
func (v *Vector[T]) PushBack(x T) error {
	if v.n == len(v.buf) {
		if err := v.relocate(v.nextCap()); err != nil {
			return err
		}
	}
	if err := construct.Construct(&v.buf[v.n], x); err != nil {
		return fmt.Errorf("vector: push: %w", err)
	}
	v.n++
	return nil
}

// PopBack tears down the last element. It returns false on an empty vector.
func (v *Vector[T]) PopBack() bool {
	if v.n == 0 {
		return false
	}
	v.n--
	construct.Destroy(&v.buf[v.n])
	clear(v.buf[v.n : v.n+1])
	return true
}

// Insert places x before element i, shifting the tail up by one. i may equal
// Len.
func (v *Vector[T]) Insert(i int, x T) error {
	if i < 0 || i > v.n {
		panic(fmt.Sprintf("vector: insert index %d out of range [0,%d]", i, v.n))
	}
	if v.n == len(v.buf) {
		if err := v.relocate(v.nextCap()); err != nil {
			return err
		}
	}
	copy(v.buf[i+1:v.n+1], v.buf[i:v.n])
	if err := construct.Construct(&v.buf[i], x); err != nil {
		copy(v.buf[i:v.n], v.buf[i+1:v.n+1])
		clear(v.buf[v.n : v.n+1])
		return fmt.Errorf("vector: insert: %w", err)
	}
	v.n++
	return nil
}

// Erase tears down element i and closes the gap.
func (v *Vector[T]) Erase(i int) {
	if i < 0 || i >= v.n {
		panic(fmt.Sprintf("vector: erase index %d out of range [0,%d)", i, v.n))
	}
	construct.Destroy(&v.buf[i])
	copy(v.buf[i:v.n-1], v.buf[i+1:v.n])
	v.n--
	clear(v.buf[v.n : v.n+1])
}

// Reserve makes room for at least n elements.
func (v *Vector[T]) Reserve(n int) error {
	if n <= len(v.buf) {
		return nil
	}
	return v.relocate(n)
}

// Resize changes the length to n, tearing down surplus elements or appending
// copies of x.
func (v *Vector[T]) Resize(n int, x T) error {
	if n < 0 {
		return fmt.Errorf("vector: resize: %w: %d", alloc.ErrInvalidSize, n)
	}
	if n <= v.n {
		construct.DestroyRange(v.buf[n:v.n])
		clear(v.buf[n:v.n])
		v.n = n
		return nil
	}
	if err := v.Reserve(n); err != nil {
		return err
	}
	if _, err := construct.UninitializedFillN(v.buf[v.n:], n-v.n, x); err != nil {
		return fmt.Errorf("vector: resize: %w", err)
	}
	v.n = n
	return nil
}

// Clear tears down every element. The storage is kept.
func (v *Vector[T]) Clear() {
	construct.DestroyRange(v.buf[:v.n])
	clear(v.buf[:v.n])
	v.n = 0
}

// Release tears down every element and returns the storage to the allocator.
// The vector is empty and reusable afterwards.
func (v *Vector[T]) Release() {
	v.Clear()
	v.ta.Deallocate(v.buf, len(v.buf))
	v.buf = nil
}

// All returns an iterator over index/value pairs.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range v.n {
			if !yield(i, v.buf[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range v.n {
			if !yield(v.buf[i]) {
				return
			}
		}
	}
}

func (v *Vector[T]) nextCap() int {
	if len(v.buf) == 0 {
		return 1
	}
	return 2 * len(v.buf)
}

// relocate moves the elements into fresh storage for newCap elements.
func (v *Vector[T]) relocate(newCap int) error {
	nb, err := v.ta.Allocate(newCap)
	if err != nil {
		return fmt.Errorf("vector: grow to %d: %w", newCap, err)
	}
	if _, err := construct.UninitializedCopy(nb, v.buf[:v.n]); err != nil {
		v.ta.Deallocate(nb, newCap)
		return fmt.Errorf("vector: grow to %d: %w", newCap, err)
	}
	construct.DestroyRange(v.buf[:v.n])
	v.ta.Deallocate(v.buf, len(v.buf))
	v.buf = nb
	return nil
}
