package alloc

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats holds pool allocator counters.
type Stats struct {
	AllocCalls      int `json:"alloc_calls"`      // Total Allocate() calls
	FreeCalls       int `json:"free_calls"`       // Total Deallocate() calls with n > 0
	FreeListHits    int `json:"free_list_hits"`   // Small allocations served by a free-list pop
	Refills         int `json:"refills"`          // Small allocations that found their list empty
	ChunkAllocs     int `json:"chunk_allocs"`     // chunkAlloc() calls
	PartialChunks   int `json:"partial_chunks"`   // Carves that returned fewer blocks than requested
	PoolGrowths     int `json:"pool_growths"`     // Regions obtained from the primary
	Scavenges       int `json:"scavenges"`        // Blocks moved from a free list into the window
	LeftoverSplices int `json:"leftover_splices"` // Window remainders pushed onto a free list
	LargeAllocs     int `json:"large_allocs"`     // Allocations routed to the primary
	LargeFrees      int `json:"large_frees"`      // Deallocations routed to the primary
	HeapSize        int `json:"heap_size"`        // Cumulative bytes obtained for pool growth
	WindowBytes     int `json:"window_bytes"`     // Bytes left in the pool window
	FreeBytes       int `json:"free_bytes"`       // Bytes held on free lists
}

// Stats returns a snapshot of the allocator counters.
func (p *Pool) Stats() Stats {
	s := p.stats
	s.HeapSize = p.heapSize
	s.WindowBytes = p.win.size()
	for i := range p.freeLists {
		s.FreeBytes += p.freeLists[i].depth * p.cfg.ClassSize(i)
	}
	return s
}

// PrintStats writes a human-readable report of the allocator state to w.
func (p *Pool) PrintStats(w io.Writer) {
	s := p.Stats()
	pr := message.NewPrinter(language.English)

	pr.Fprintf(w, "=== POOL STATISTICS (%s) ===\n", p.cfg.Name)
	pr.Fprintf(w, "Alloc calls:        %d (free-list hits: %d, refills: %d, large: %d)\n",
		s.AllocCalls, s.FreeListHits, s.Refills, s.LargeAllocs)
	pr.Fprintf(w, "Free calls:         %d (large: %d)\n", s.FreeCalls, s.LargeFrees)
	pr.Fprintf(w, "Chunk carves:       %d (partial: %d)\n", s.ChunkAllocs, s.PartialChunks)
	pr.Fprintf(w, "Pool growths:       %d (%d bytes total)\n", s.PoolGrowths, s.HeapSize)
	pr.Fprintf(w, "Scavenges:          %d\n", s.Scavenges)
	pr.Fprintf(w, "Leftover splices:   %d\n", s.LeftoverSplices)
	pr.Fprintf(w, "Window:             %d bytes\n", s.WindowBytes)
	pr.Fprintf(w, "Free lists:         %d bytes\n", s.FreeBytes)
	for i := range p.freeLists {
		if d := p.freeLists[i].depth; d > 0 {
			pr.Fprintf(w, "  SC[%2d] %4d B: %d blocks\n", i, p.cfg.ClassSize(i), d)
		}
	}
}
