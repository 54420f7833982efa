package construct

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// plain has no lifecycle hooks.
type plain struct {
	A, B int64
}

// teardownCounter looks like it has teardown but does not implement Destroyer.
type teardownCounter struct{ id int }

var teardownCalls int

func (teardownCounter) Teardown() { teardownCalls++ }

// tracked records every Destroy call in order.
type tracked struct{ id int }

var destroyed []int

func (t *tracked) Destroy() { destroyed = append(destroyed, t.id) }

// built counts constructions and fails on a chosen id.
type built struct {
	id     int
	copies int
}

var (
	errBoom     = errors.New("boom")
	failOnID    = -1
	builtDtors  int
	constructed int
)

func (b *built) Construct(src built) error {
	if src.id == failOnID {
		return errBoom
	}
	constructed++
	*b = src
	b.copies++
	return nil
}

func (b *built) Destroy() { builtDtors++ }

func resetCounters() {
	teardownCalls = 0
	destroyed = nil
	failOnID = -1
	builtDtors = 0
	constructed = 0
}

func TestTraits(t *testing.T) {
	require.True(t, IsTrivial[int]())
	require.True(t, IsTrivial[plain]())
	require.True(t, IsTrivial[teardownCounter]())
	require.True(t, HasTrivialDestructor[byte]())

	require.False(t, HasTrivialDestructor[tracked]())
	require.False(t, IsTrivial[tracked]())
	require.False(t, IsTrivial[built]())
	require.False(t, HasTrivialDestructor[built]())
}

func TestConstructAndDestroy(t *testing.T) {
	resetCounters()

	var p plain
	require.NoError(t, Construct(&p, plain{A: 1, B: 2}))
	require.Equal(t, plain{A: 1, B: 2}, p)
	Destroy(&p) // no-op

	var b built
	require.NoError(t, Construct(&b, built{id: 7}))
	require.Equal(t, 7, b.id)
	require.Equal(t, 1, b.copies)
	require.Equal(t, 1, constructed)

	failOnID = 9
	err := Construct(&b, built{id: 9})
	require.ErrorIs(t, err, errBoom)

	tr := tracked{id: 3}
	Destroy(&tr)
	require.Equal(t, []int{3}, destroyed)
}

func TestDestroyRangeTrivialIsNoOp(t *testing.T) {
	resetCounters()
	s := make([]teardownCounter, 32)
	DestroyRange(s)
	require.Zero(t, teardownCalls)

	DestroyBytes([]byte("abc"))
	DestroyRunes([]rune("abc"))
}

func TestDestroyRangeNonTrivialInOrder(t *testing.T) {
	resetCounters()
	s := []tracked{{id: 0}, {id: 1}, {id: 2}, {id: 3}}
	DestroyRange(s)
	require.Equal(t, []int{0, 1, 2, 3}, destroyed)

	destroyed = nil
	DestroyRange(s[1:3])
	require.Equal(t, []int{1, 2}, destroyed)
}

func TestUninitializedFillTrivial(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 7, 8, 100} {
		dst := make([]plain, n)
		require.NoError(t, UninitializedFill(dst, plain{A: 5, B: 6}))
		for i := range dst {
			require.Equal(t, plain{A: 5, B: 6}, dst[i], "n=%d i=%d", n, i)
		}
	}
}

func TestUninitializedFillN(t *testing.T) {
	resetCounters()
	dst := make([]built, 10)
	n, err := UninitializedFillN(dst, 4, built{id: 1})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, 4, constructed)
	for i := range 4 {
		require.Equal(t, 1, dst[i].id)
	}
	require.Zero(t, dst[4].id)

	n, err = UninitializedFillN(dst, 0, built{id: 1})
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestUninitializedCopyTrivial(t *testing.T) {
	src := []int{1, 2, 3, 4, 5}
	dst := make([]int, 3)
	n, err := UninitializedCopy(dst, src)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []int{1, 2, 3}, dst)

	b := make([]byte, 4)
	require.Equal(t, 4, UninitializedCopyBytes(b, []byte("abcdef")))
	require.Equal(t, "abcd", string(b))

	r := make([]rune, 2)
	require.Equal(t, 2, UninitializedCopyRunes(r, []rune("héllo")))
	require.Equal(t, []rune("hé"), r)
}

func TestUninitializedCopyNonTrivial(t *testing.T) {
	resetCounters()
	src := []built{{id: 1}, {id: 2}, {id: 3}}
	dst := make([]built, 3)
	n, err := UninitializedCopy(dst, src)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, 3, constructed)
	for i := range dst {
		require.Equal(t, src[i].id, dst[i].id)
		require.Equal(t, 1, dst[i].copies)
	}
}

func TestUninitializedCopyRollsBackOnFailure(t *testing.T) {
	resetCounters()
	failOnID = 3
	src := []built{{id: 1}, {id: 2}, {id: 3}, {id: 4}}
	dst := make([]built, 4)
	n, err := UninitializedCopy(dst, src)
	require.ErrorIs(t, err, errBoom)
	require.Contains(t, err.Error(), "element 2")
	require.Zero(t, n)
	require.Equal(t, 2, constructed)
	require.Equal(t, 2, builtDtors, "already built elements are torn down")
}
