// Package deque provides a double-ended queue built from fixed-size element
// buffers obtained from an alloc.Allocator.
//
// The buffers are indexed by a map (a Go slice of buffers) that keeps free
// slots on both sides, so pushes at either end are amortized O(1) and never
// move elements. When one side runs out of map slots the live buffers are
// recentred in place if the map is mostly empty, otherwise the map grows.
//
// WARNING: Deque is NOT goroutine-safe.
package deque

import (
	"fmt"
	"iter"

	"github.com/joshuapare/stlkit/alloc"
	"github.com/joshuapare/stlkit/construct"
)

const (
	// bufferBytes is the target size of one element buffer.
	bufferBytes = 512

	// initialMapSize is the minimum number of map slots.
	initialMapSize = 8
)

// BufferSize returns how many elements of elemSize bytes share one buffer.
func BufferSize(elemSize int) int {
	if elemSize <= 0 {
		return bufferBytes
	}
	if elemSize >= bufferBytes {
		return 1
	}
	return bufferBytes / elemSize
}

// position addresses one element slot: buffer index in the map and offset in
// that buffer.
type position struct {
	node int
	cur  int
}

// Deque is a double-ended queue. The zero value is not usable; create one
// with New.
type Deque[T any] struct {
	ta     *alloc.Typed[T]
	bufLen int

	// Buffer map; slots outside [start.node, finish.node] are nil
	nodes [][]T

	// start is the first element; finish is one past the last element and
	// always lies in an allocated buffer.
	start  position
	finish position
}

// New creates an empty deque. A nil allocator selects a default pool.
func New[T any](a alloc.Allocator) (*Deque[T], error) {
	return NewFilled[T](a, 0, *new(T))
}

// NewFilled creates a deque holding n copies of v.
func NewFilled[T any](a alloc.Allocator, n int, v T) (*Deque[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("deque: %w: %d", alloc.ErrInvalidSize, n)
	}
	if a == nil {
		a = alloc.NewDefault()
	}
	ta, err := alloc.NewTyped[T](a)
	if err != nil {
		return nil, fmt.Errorf("deque: %w", err)
	}
	d := &Deque[T]{ta: ta, bufLen: BufferSize(ta.ElemSize())}
	if err := d.initializeMap(n); err != nil {
		return nil, err
	}
	if err := d.fill(v); err != nil {
		d.freeNodes(d.start.node, d.finish.node+1)
		return nil, err
	}
	return d, nil
}

// initializeMap allocates the map and the buffers for n elements, centred in
// the map.
func (d *Deque[T]) initializeMap(n int) error {
	numNodes := n/d.bufLen + 1
	d.nodes = make([][]T, max(initialMapSize, numNodes+2))

	first := (len(d.nodes) - numNodes) / 2
	for i := first; i < first+numNodes; i++ {
		buf, err := d.ta.Allocate(d.bufLen)
		if err != nil {
			d.freeNodes(first, i)
			return fmt.Errorf("deque: allocate buffer: %w", err)
		}
		d.nodes[i] = buf
	}

	d.start = position{node: first}
	d.finish = position{node: first + numNodes - 1, cur: n % d.bufLen}
	return nil
}

// fill constructs copies of v into every slot between start and finish.
func (d *Deque[T]) fill(v T) error {
	for node := d.start.node; node <= d.finish.node; node++ {
		end := d.bufLen
		if node == d.finish.node {
			end = d.finish.cur
		}
		if err := construct.UninitializedFill(d.nodes[node][:end], v); err != nil {
			for done := d.start.node; done < node; done++ {
				construct.DestroyRange(d.nodes[done])
			}
			return fmt.Errorf("deque: fill: %w", err)
		}
	}
	return nil
}

// Len returns the number of elements.
func (d *Deque[T]) Len() int {
	return d.bufLen*(d.finish.node-d.start.node-1) + d.finish.cur + (d.bufLen - d.start.cur)
}

// Empty reports whether the deque has no elements.
func (d *Deque[T]) Empty() bool {
	return d.start == d.finish
}

// slot returns the address of element i. It panics if i is out of range.
func (d *Deque[T]) slot(i int) *T {
	if n := d.Len(); i < 0 || i >= n {
		panic(fmt.Sprintf("deque: index %d out of range [0,%d)", i, n))
	}
	off := d.start.cur + i
	return &d.nodes[d.start.node+off/d.bufLen][off%d.bufLen]
}

// At returns element i. It panics if i is out of range.
func (d *Deque[T]) At(i int) T { return *d.slot(i) }

// Set assigns element i. It panics if i is out of range.
func (d *Deque[T]) Set(i int, x T) { *d.slot(i) = x }

// Front returns the first element. It panics on an empty deque.
func (d *Deque[T]) Front() T { return d.At(0) }

// Back returns the last element. It panics on an empty deque.
func (d *Deque[T]) Back() T { return d.At(d.Len() - 1) }

// PushBack appends x.
func (d *Deque[T]) PushBack(x T) error {
	if d.finish.cur != d.bufLen-1 {
		if err := construct.Construct(&d.nodes[d.finish.node][d.finish.cur], x); err != nil {
			return fmt.Errorf("deque: push back: %w", err)
		}
		d.finish.cur++
		return nil
	}
	return d.pushBackAux(x)
}

// pushBackAux handles a push that fills the last slot of the finish buffer:
// a new buffer is attached behind it first.
func (d *Deque[T]) pushBackAux(x T) error {
	d.reserveMapAtBack(1)
	buf, err := d.ta.Allocate(d.bufLen)
	if err != nil {
		return fmt.Errorf("deque: allocate buffer: %w", err)
	}
	if err := construct.Construct(&d.nodes[d.finish.node][d.finish.cur], x); err != nil {
		d.ta.Deallocate(buf, d.bufLen)
		return fmt.Errorf("deque: push back: %w", err)
	}
	d.nodes[d.finish.node+1] = buf
	d.finish = position{node: d.finish.node + 1}
	return nil
}

// PushFront prepends x.
func (d *Deque[T]) PushFront(x T) error {
	if d.start.cur != 0 {
		if err := construct.Construct(&d.nodes[d.start.node][d.start.cur-1], x); err != nil {
			return fmt.Errorf("deque: push front: %w", err)
		}
		d.start.cur--
		return nil
	}
	return d.pushFrontAux(x)
}

// pushFrontAux attaches a new buffer in front of the start buffer and places x
// in its last slot.
func (d *Deque[T]) pushFrontAux(x T) error {
	d.reserveMapAtFront(1)
	buf, err := d.ta.Allocate(d.bufLen)
	if err != nil {
		return fmt.Errorf("deque: allocate buffer: %w", err)
	}
	if err := construct.Construct(&buf[d.bufLen-1], x); err != nil {
		d.ta.Deallocate(buf, d.bufLen)
		return fmt.Errorf("deque: push front: %w", err)
	}
	d.nodes[d.start.node-1] = buf
	d.start = position{node: d.start.node - 1, cur: d.bufLen - 1}
	return nil
}

// PopBack tears down the last element. It returns false on an empty deque.
func (d *Deque[T]) PopBack() bool {
	if d.Empty() {
		return false
	}
	if d.finish.cur == 0 {
		d.releaseNode(d.finish.node)
		d.finish = position{node: d.finish.node - 1, cur: d.bufLen}
	}
	d.finish.cur--
	d.destroyAt(d.finish)
	return true
}

// PopFront tears down the first element. It returns false on an empty deque.
func (d *Deque[T]) PopFront() bool {
	if d.Empty() {
		return false
	}
	d.destroyAt(d.start)
	if d.start.cur != d.bufLen-1 {
		d.start.cur++
		return true
	}
	d.releaseNode(d.start.node)
	d.start = position{node: d.start.node + 1}
	return true
}

// Clear tears down every element and frees all buffers but one.
func (d *Deque[T]) Clear() {
	d.destroyAll()
	d.freeNodes(d.start.node+1, d.finish.node+1)
	d.start.cur = 0
	d.finish = d.start
}

// Release tears down every element and returns all storage to the allocator.
// The deque must not be used afterwards.
func (d *Deque[T]) Release() {
	if d.nodes == nil {
		return
	}
	d.destroyAll()
	d.freeNodes(d.start.node, d.finish.node+1)
	d.nodes = nil
	d.start, d.finish = position{}, position{}
}

// All returns an iterator over index/value pairs from front to back.
func (d *Deque[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := 0
		for node := d.start.node; node <= d.finish.node; node++ {
			lo, hi := 0, d.bufLen
			if node == d.start.node {
				lo = d.start.cur
			}
			if node == d.finish.node {
				hi = d.finish.cur
			}
			for _, x := range d.nodes[node][lo:hi] {
				if !yield(i, x) {
					return
				}
				i++
			}
		}
	}
}

func (d *Deque[T]) destroyAll() {
	if construct.HasTrivialDestructor[T]() {
		return
	}
	for _, x := range d.rangeSlices() {
		construct.DestroyRange(x)
	}
}

// rangeSlices returns the occupied part of every live buffer.
func (d *Deque[T]) rangeSlices() [][]T {
	if d.start.node == d.finish.node {
		return [][]T{d.nodes[d.start.node][d.start.cur:d.finish.cur]}
	}
	out := make([][]T, 0, d.finish.node-d.start.node+1)
	out = append(out, d.nodes[d.start.node][d.start.cur:])
	for node := d.start.node + 1; node < d.finish.node; node++ {
		out = append(out, d.nodes[node])
	}
	return append(out, d.nodes[d.finish.node][:d.finish.cur])
}

func (d *Deque[T]) destroyAt(pos position) {
	slot := d.nodes[pos.node][pos.cur : pos.cur+1]
	construct.Destroy(&slot[0])
	clear(slot)
}

func (d *Deque[T]) releaseNode(node int) {
	d.ta.Deallocate(d.nodes[node], d.bufLen)
	d.nodes[node] = nil
}

// freeNodes releases the buffers in map slots [from, to).
func (d *Deque[T]) freeNodes(from, to int) {
	for node := from; node < to; node++ {
		d.releaseNode(node)
	}
}

// reserveMapAtBack makes sure add map slots exist behind the finish buffer.
func (d *Deque[T]) reserveMapAtBack(add int) {
	if add+1 > len(d.nodes)-d.finish.node {
		d.reallocateMap(add, false)
	}
}

// reserveMapAtFront makes sure add map slots exist before the start buffer.
func (d *Deque[T]) reserveMapAtFront(add int) {
	if add > d.start.node {
		d.reallocateMap(add, true)
	}
}

// reallocateMap makes room for add more buffers on one side. A map more than
// twice the size needed is recentred in place; otherwise it grows.
func (d *Deque[T]) reallocateMap(add int, atFront bool) {
	oldNum := d.finish.node - d.start.node + 1
	newNum := oldNum + add
	live := d.nodes[d.start.node : d.finish.node+1]

	var newStart int
	if len(d.nodes) > 2*newNum {
		newStart = (len(d.nodes) - newNum) / 2
		if atFront {
			newStart += add
		}
		moved := append([][]T(nil), live...)
		clear(d.nodes)
		copy(d.nodes[newStart:], moved)
	} else {
		newSize := len(d.nodes) + max(len(d.nodes), add) + 2
		grown := make([][]T, newSize)
		newStart = (newSize - newNum) / 2
		if atFront {
			newStart += add
		}
		copy(grown[newStart:], live)
		d.nodes = grown
	}

	d.start.node = newStart
	d.finish.node = newStart + oldNum - 1
}
