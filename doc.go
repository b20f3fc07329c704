// Package stackarena implements a fixed-capacity bump allocator (memory arena)
// with stack-discipline reclamation and heap fallback.
//
// # Overview
//
// An Arena owns one contiguous region of memory, acquired once by New and
// freed once by Release. Allocations are carved from the region by advancing
// a single cursor, after padding it up to the requested alignment. When the
// region cannot fit a request, the arena serves it from a fallback Heap
// instead and leaves the cursor alone.
//
// Nothing is tracked per allocation. Only the slice that ends exactly at the
// cursor can be reclaimed; deallocating it rewinds the cursor to its start.
// Deallocating any other region slice is a no-op, and the padding inserted
// before a reclaimed slice stays consumed until the arena is released.
//
// # Basic Usage
//
//	a, err := stackarena.New(4096)
//	if err != nil {
//		return err
//	}
//	defer a.Release()
//
//	buf := a.Allocate(64, 8)   // 64 bytes, 8-byte aligned
//	hdr := a.AllocBytes(24)    // aligned to MaxAlign
//	a.Deallocate(hdr)          // top of the stack: reclaimed
//	a.Deallocate(buf)          // now on top again: reclaimed
//
//	p := stackarena.Alloc[point](a)
//	stackarena.Free(a, p)
//
// Slices that did not fit come from the fallback heap; InRegion tells the two
// apart, and Deallocate routes each to the right place.
//
// # Backing Memory
//
// By default the region is a byte slice on the Go heap. WithRegion(RegionMmap)
// backs it with an anonymous memory mapping that Release unmaps, after which
// any region slice still in use faults instead of silently reading stale
// memory.
//
// # Thread Safety
//
// Arena is not goroutine-safe. SafeArena serializes every call with a mutex.
//
// # Metrics
//
// Metrics returns used/available/capacity together with cumulative counters
// for region and heap allocations, reclaimed and ignored deallocations, and
// padding. NewCollector exports the same numbers to Prometheus.
package stackarena
