package stackarena

// Heap is the general-purpose allocator an Arena falls back to when its
// region cannot satisfy a request.
//
// Allocate must return a slice of exactly size bytes whose first byte is
// aligned to align, or panic. Free is only ever called with slices that
// Allocate returned.
type Heap interface {
	Allocate(size, align int) []byte
	Free(b []byte)
}

// GoHeap serves fallback allocations from the Go heap. Free is a no-op; the
// garbage collector reclaims the memory once it is unreachable.
type GoHeap struct{}

var _ Heap = GoHeap{}

// Allocate over-allocates by align-1 bytes and returns the aligned window.
func (GoHeap) Allocate(size, align int) []byte {
	if align <= 1 {
		return make([]byte, size)
	}
	buf := make([]byte, size+align-1)
	shift := alignShift(addrOf(buf), align)
	return buf[shift : shift+size : shift+size]
}

// Free implements Heap.
func (GoHeap) Free([]byte) {}
