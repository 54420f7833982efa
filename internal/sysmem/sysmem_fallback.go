//go:build !unix

// Package sysmem provides platform-specific helpers for obtaining raw memory
// regions from the operating system.
package sysmem

import (
	"fmt"
	"os"

	"github.com/joshuapare/stlkit/internal/sizes"
)

// Mapped reports whether Map hands out memory outside the Go heap.
const Mapped = false

// Map allocates n zeroed bytes on the Go heap when anonymous mappings are not
// available.
func Map(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sysmem: invalid mapping size %d", n)
	}
	if n > sizes.MaxAlloc {
		return nil, fmt.Errorf("sysmem: %d bytes exceeds the %d byte limit", n, sizes.MaxAlloc)
	}
	return make([]byte, n), nil
}

// Unmap is a no-op; the garbage collector reclaims the region.
func Unmap([]byte) error { return nil }

// PageSize returns the system page size.
func PageSize() int {
	return os.Getpagesize()
}
