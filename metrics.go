package stackarena

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Utilization returns the ratio of used bytes to capacity (0.0 to 1.0).
// Returns 0.0 after Release.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.Used()) / float64(capacity)
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() Metrics {
	return Metrics{
		Capacity:      a.Capacity(),
		Used:          a.Used(),
		Available:     a.Available(),
		Utilization:   a.Utilization(),
		RegionAllocs:  a.stats.regionAllocs,
		HeapAllocs:    a.stats.heapAllocs,
		HeapFrees:     a.stats.heapFrees,
		Reclaims:      a.stats.reclaims,
		InteriorFrees: a.stats.interiorFrees,
		PaddingBytes:  a.stats.paddingBytes,
	}
}

// Metrics contains statistical information about an arena. Counters are
// cumulative since construction.
type Metrics struct {
	Capacity      int     // Region size in bytes
	Used          int     // Bytes below the cursor, padding included
	Available     int     // Capacity - Used
	Utilization   float64 // Used / Capacity (0.0-1.0)
	RegionAllocs  uint64  // Allocations served from the region
	HeapAllocs    uint64  // Allocations served by the fallback heap
	HeapFrees     uint64  // Deallocations forwarded to the fallback heap
	Reclaims      uint64  // Top-of-stack deallocations that rewound the cursor
	InteriorFrees uint64  // Region deallocations that were ignored
	PaddingBytes  uint64  // Alignment padding inserted into the region
}

func (m Metrics) String() string {
	return fmt.Sprintf(
		"used %s of %s (%.1f%%), %s padding; allocs region=%s heap=%s; frees reclaimed=%s interior=%s heap=%s",
		humanize.IBytes(uint64(m.Used)),
		humanize.IBytes(uint64(m.Capacity)),
		m.Utilization*100,
		humanize.IBytes(m.PaddingBytes),
		humanize.Comma(int64(m.RegionAllocs)),
		humanize.Comma(int64(m.HeapAllocs)),
		humanize.Comma(int64(m.Reclaims)),
		humanize.Comma(int64(m.InteriorFrees)),
		humanize.Comma(int64(m.HeapFrees)),
	)
}
