package alloc

// window is the unallocated tail [start_free, end_free) of the most recent
// pool region. It is carved from the front with a bump pointer and never
// shrinks from the back.
type window struct {
	free []byte
}

// size returns the bytes left in the window.
func (w *window) size() int {
	return len(w.free)
}

// carve removes n bytes from the front of the window. The caller guarantees
// n <= w.size().
func (w *window) carve(n int) []byte {
	chunk := w.free[:n:n]
	w.free = w.free[n:]
	return chunk
}

// install replaces the window with region.
func (w *window) install(region []byte) {
	w.free = region
}

// drain empties the window and returns whatever was left in it.
func (w *window) drain() []byte {
	rest := w.free
	w.free = nil
	return rest
}
