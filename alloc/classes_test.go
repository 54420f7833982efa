package alloc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_SizeClassPartition verifies that FreeListIndex inverts RoundUp and that
// sizes rounding to the same value share a class.
func Test_SizeClassPartition(t *testing.T) {
	require.Equal(t, 0, FreeListIndex(1))
	require.Equal(t, 0, FreeListIndex(8))
	require.Equal(t, 1, FreeListIndex(9))
	require.Equal(t, NumFreeLists-1, FreeListIndex(MaxBytes))
	require.Equal(t, 16, NumFreeLists)

	for n := 1; n <= MaxBytes; n++ {
		r := RoundUp(n)
		require.GreaterOrEqual(t, r, n)
		require.Zero(t, r%Align, "RoundUp(%d)=%d not aligned", n, r)
		require.Equal(t, r, DefaultConfig.ClassSize(FreeListIndex(n)), "n=%d", n)
		for m := 1; m <= MaxBytes; m++ {
			if RoundUp(m) == r {
				require.Equal(t, FreeListIndex(n), FreeListIndex(m), "n=%d m=%d", n, m)
			}
		}
	}
}

func Test_ConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig, false},
		{"wide", ConfigWide, false},
		{"align not power of two", Config{Align: 12, MaxBytes: 120, RefillObjects: 20}, true},
		{"align too small", Config{Align: 4, MaxBytes: 128, RefillObjects: 20}, true},
		{"max not multiple", Config{Align: 8, MaxBytes: 100, RefillObjects: 20}, true},
		{"max below align", Config{Align: 8, MaxBytes: 0, RefillObjects: 20}, true},
		{"no refill", Config{Align: 8, MaxBytes: 128, RefillObjects: 0}, true},
		{"class table at cap", Config{Align: 8, MaxBytes: 8 * maxClasses, RefillObjects: 20}, false},
		{"class table above cap", Config{Align: 8, MaxBytes: 8 * (maxClasses + 1), RefillObjects: 20}, true},
		{"refill batch overflows", Config{Align: 8, MaxBytes: 128, RefillObjects: math.MaxInt}, true},
		{"refill batch too large", Config{Align: 8, MaxBytes: 1024, RefillObjects: math.MaxInt / 2048}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBadConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}

	_, err := NewPool(nil, &Config{Align: 3})
	require.ErrorIs(t, err, ErrBadConfig)
}

func Test_ConfigWideClasses(t *testing.T) {
	c := ConfigWide
	require.Equal(t, 16, c.NumClasses())
	require.Equal(t, 0, c.FreeListIndex(16))
	require.Equal(t, 1, c.FreeListIndex(17))
	require.Equal(t, 32, c.RoundUp(17))
	require.Equal(t, 256, c.ClassSize(c.FreeListIndex(256)))
	require.Equal(t, "Wide", c.String())
}
