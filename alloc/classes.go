package alloc

import (
	"fmt"

	"github.com/joshuapare/stlkit/internal/sizes"
)

const (
	// Align is the default size-class granularity in bytes.
	Align = 8

	// MaxBytes is the default small-block threshold. Larger requests go
	// straight to the primary allocator.
	MaxBytes = 128

	// NumFreeLists is the number of default size classes.
	NumFreeLists = MaxBytes / Align

	// RefillObjects is the default number of blocks requested per refill.
	RefillObjects = 20

	// maxClasses bounds the free-list table of any Config.
	maxClasses = 4096
)

// Config defines the size-class layout of a Pool.
type Config struct {
	// Name for this configuration (for stats and the CLI)
	Name string

	Align         int // Class granularity; a power of two >= 8
	MaxBytes      int // Largest size served from free lists; a multiple of Align
	RefillObjects int // Blocks carved per refill (>= 1)
}

// Predefined configurations.
var (
	// DefaultConfig: 16 classes of 8..128 bytes, 20 blocks per refill.
	DefaultConfig = Config{
		Name:          "Default",
		Align:         Align,
		MaxBytes:      MaxBytes,
		RefillObjects: RefillObjects,
	}

	// ConfigWide: 16 classes of 16..256 bytes, for node-heavy workloads with
	// larger elements.
	ConfigWide = Config{
		Name:          "Wide",
		Align:         16,
		MaxBytes:      256,
		RefillObjects: RefillObjects,
	}
)

// Validate reports whether c describes a usable class layout.
func (c Config) Validate() error {
	switch {
	case c.Align < 8 || c.Align&(c.Align-1) != 0:
		return fmt.Errorf("%w: align %d is not a power of two >= 8", ErrBadConfig, c.Align)
	case c.MaxBytes < c.Align || c.MaxBytes%c.Align != 0:
		return fmt.Errorf("%w: max bytes %d is not a positive multiple of align %d", ErrBadConfig, c.MaxBytes, c.Align)
	case c.RefillObjects < 1:
		return fmt.Errorf("%w: refill objects %d < 1", ErrBadConfig, c.RefillObjects)
	case c.NumClasses() > maxClasses:
		return fmt.Errorf("%w: %d size classes exceed %d", ErrBadConfig, c.NumClasses(), maxClasses)
	}

	// The largest growth request is 2*MaxBytes*RefillObjects plus slack.
	batch, ok := sizes.Mul(c.MaxBytes, c.RefillObjects)
	if !ok || batch > sizes.MaxAlloc/4 {
		return fmt.Errorf("%w: refill batch of %d x %d bytes is too large",
			ErrBadConfig, c.RefillObjects, c.MaxBytes)
	}
	return nil
}

// NumClasses returns the number of size classes.
func (c Config) NumClasses() int {
	return c.MaxBytes / c.Align
}

// RoundUp rounds n up to the next multiple of c.Align.
func (c Config) RoundUp(n int) int {
	return (n + c.Align - 1) &^ (c.Align - 1)
}

// FreeListIndex returns the size class serving n bytes (1 <= n <= MaxBytes).
// It is the exact inverse of RoundUp: ClassSize(FreeListIndex(n)) == RoundUp(n).
func (c Config) FreeListIndex(n int) int {
	return (n+c.Align-1)/c.Align - 1
}

// ClassSize returns the block size of class i.
func (c Config) ClassSize(i int) int {
	return c.Align * (i + 1)
}

// String returns the configuration name.
func (c Config) String() string {
	return c.Name
}

// RoundUp rounds n up to a multiple of the default Align.
func RoundUp(n int) int {
	return DefaultConfig.RoundUp(n)
}

// FreeListIndex returns the default size class for n bytes.
func FreeListIndex(n int) int {
	return DefaultConfig.FreeListIndex(n)
}
