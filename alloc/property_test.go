package alloc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

type liveBlock struct {
	mem  []byte
	n    int
	fill byte
}

// Test_Property_RandomAllocFree runs a seeded random workload and checks after
// every step that live blocks keep their content and never overlap.
func Test_Property_RandomAllocFree(t *testing.T) {
	for _, cfg := range []*Config{&DefaultConfig, &ConfigWide} {
		t.Run(cfg.Name, func(t *testing.T) {
			p, err := NewPool(nil, cfg)
			require.NoError(t, err)

			rng := rand.New(rand.NewSource(42)) // Fixed seed for reproducibility
			var live []liveBlock

			for step := range 2000 {
				if len(live) == 0 || rng.Intn(3) != 0 {
					n := 1 + rng.Intn(cfg.MaxBytes+64)
					b, allocErr := p.Allocate(n)
					require.NoError(t, allocErr, "step %d", step)
					require.Len(t, b, n)
					fill := byte(step)
					for i := range b {
						b[i] = fill
					}
					live = append(live, liveBlock{mem: b, n: n, fill: fill})
				} else {
					i := rng.Intn(len(live))
					lb := live[i]
					for j, c := range lb.mem {
						require.Equal(t, lb.fill, c, "step %d: byte %d of a live block changed", step, j)
					}
					p.Deallocate(lb.mem, lb.n)
					live[i] = live[len(live)-1]
					live = live[:len(live)-1]
				}
			}

			requireDisjoint(t, live)

			s := p.Stats()
			require.Equal(t, s.FreeListHits+s.Refills+s.LargeAllocs, s.AllocCalls)
			require.GreaterOrEqual(t, s.HeapSize, s.WindowBytes+s.FreeBytes)
		})
	}
}

// Test_Property_ClassConservation checks that for every class the blocks
// handed out plus the blocks on the list stay constant once the pool stops
// growing.
func Test_Property_ClassConservation(t *testing.T) {
	p := newTestPool(t, nil)
	rng := rand.New(rand.NewSource(12345))

	// Warm every class so no refill happens below.
	for n := Align; n <= MaxBytes; n += Align {
		b, err := p.Allocate(n)
		require.NoError(t, err)
		p.Deallocate(b, n)
	}
	before := make([]int, p.NumClasses())
	for i := range before {
		before[i] = p.FreeListDepth(i)
	}
	heap := p.HeapSize()

	out := make([][][]byte, p.NumClasses())
	for range 500 {
		idx := rng.Intn(p.NumClasses())
		n := (idx + 1) * Align
		if len(out[idx]) > 0 && rng.Intn(2) == 0 {
			last := len(out[idx]) - 1
			p.Deallocate(out[idx][last], n)
			out[idx] = out[idx][:last]
			continue
		}
		if p.FreeListDepth(idx) == 0 {
			continue
		}
		b, err := p.Allocate(n)
		require.NoError(t, err)
		out[idx] = append(out[idx], b)
	}

	for i := range before {
		require.Equal(t, before[i], p.FreeListDepth(i)+len(out[i]), "class %d", i)
	}
	require.Equal(t, heap, p.HeapSize(), "no growth expected")
}

// requireDisjoint fails if any two live blocks share a byte.
func requireDisjoint(t *testing.T, live []liveBlock) {
	t.Helper()
	for i := range live {
		ai := addr(live[i].mem)
		for j := i + 1; j < len(live); j++ {
			aj := addr(live[j].mem)
			overlap := ai < aj+uintptr(live[j].n) && aj < ai+uintptr(live[i].n)
			require.False(t, overlap, "blocks %d and %d overlap", i, j)
		}
	}
}
