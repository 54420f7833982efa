package sizes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	sum, ok := Add(10, 5)
	require.True(t, ok)
	require.Equal(t, 15, sum)

	_, ok = Add(math.MaxInt, 1)
	require.False(t, ok, "expected overflow when adding to MaxInt")
	_, ok = Add(math.MinInt, -1)
	require.False(t, ok, "expected underflow when subtracting from MinInt")
}

func TestMul(t *testing.T) {
	tests := []struct {
		a, b   int
		want   int
		wantOK bool
	}{
		{0, math.MaxInt, 0, true},
		{8, 16, 128, true},
		{math.MaxInt / 2, 2, math.MaxInt - 1, true},
		{math.MaxInt/2 + 1, 2, 0, false},
		{-1, 8, 0, false},
		{8, -1, 0, false},
	}
	for _, tt := range tests {
		got, ok := Mul(tt.a, tt.b)
		require.Equal(t, tt.wantOK, ok, "Mul(%d, %d)", tt.a, tt.b)
		require.Equal(t, tt.want, got, "Mul(%d, %d)", tt.a, tt.b)
	}
}

func TestBytes(t *testing.T) {
	n, err := Bytes(5, 12)
	require.NoError(t, err)
	require.Equal(t, 60, n)

	_, err = Bytes(-1, 8)
	require.Error(t, err)
	_, err = Bytes(1, -8)
	require.Error(t, err)
	_, err = Bytes(math.MaxInt/4, 8)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestFits(t *testing.T) {
	require.True(t, Fits(60, 40, 100))
	require.False(t, Fits(60, 41, 100))
	require.False(t, Fits(1, math.MaxInt, math.MaxInt), "overflow never fits")
}
