//go:build unix

// Package sysmem provides platform-specific helpers for obtaining raw memory
// regions from the operating system.
package sysmem

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Mapped reports whether Map hands out memory outside the Go heap.
const Mapped = true

// Map returns n bytes of zeroed, private, anonymous memory.
func Map(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sysmem: invalid mapping size %d", n)
	}
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("sysmem: mmap %d bytes: %w", n, err)
	}
	return data, nil
}

// Unmap releases a region returned by Map. b must have the same base and
// capacity as the slice Map returned.
func Unmap(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	err := unix.Munmap(b)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}

// PageSize returns the system page size.
func PageSize() int {
	return unix.Getpagesize()
}
