package stackarena

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Arena is a fixed-capacity bump allocator with stack-discipline reclamation
// and heap fallback. Not goroutine-safe; use SafeArena for concurrent access.
//
// An Arena must not be copied. It is always handled through *Arena.
type Arena struct {
	noCopy noCopy

	buf      []byte
	base     uintptr
	off      int // cursor, as an offset from base
	capacity int
	release  func() error

	heap   Heap
	logger log.Logger

	stats counters
}

// counters are cumulative event counts since construction.
type counters struct {
	regionAllocs  uint64
	heapAllocs    uint64
	heapFrees     uint64
	reclaims      uint64
	interiorFrees uint64
	paddingBytes  uint64
}

// New creates an arena owning a region of exactly capacity bytes whose first
// byte is aligned to MaxAlign. The region is acquired immediately.
func New(capacity int, opts ...Option) (*Arena, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "capacity %d", capacity)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	r, err := acquireRegion(cfg.region, capacity)
	if err != nil {
		return nil, err
	}
	return &Arena{
		buf:      r.buf,
		base:     addrOf(r.buf),
		capacity: capacity,
		release:  r.release,
		heap:     cfg.heap,
		logger:   cfg.logger,
	}, nil
}

// MustNew is like New but panics if the region cannot be acquired.
func MustNew(capacity int, opts ...Option) *Arena {
	a, err := New(capacity, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// AllocBytes returns size bytes aligned to MaxAlign.
func (a *Arena) AllocBytes(size int) []byte {
	return a.Allocate(size, MaxAlign)
}

// Allocate returns a slice of exactly size bytes whose first byte is aligned
// to align. The slice is carved from the region when it fits after padding the
// cursor up to align; otherwise it comes from the fallback heap and the cursor
// is left untouched. Returns nil if size <= 0.
//
// Region slices are valid until they are deallocated or the arena is
// released. Heap slices are the caller's to pass back to Deallocate.
func (a *Arena) Allocate(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if !isPowerOfTwo(align) {
		panic(errors.Wrapf(ErrInvalidAlignment, "align %d", align))
	}
	a.panicIfReleased()

	if a.off < a.capacity {
		start := a.off + alignShift(a.base+uintptr(a.off), align)
		if start <= a.capacity && size <= a.capacity-start {
			a.stats.paddingBytes += uint64(start - a.off)
			a.stats.regionAllocs++
			a.off = start + size
			return a.buf[start:a.off:a.off]
		}
	}
	return a.allocHeap(size, align)
}

func (a *Arena) allocHeap(size, align int) []byte {
	level.Debug(a.logger).Log(
		"msg", "serving allocation from heap",
		"size", size,
		"align", align,
		"available", a.capacity-a.off,
	)
	a.stats.heapAllocs++
	return a.heap.Allocate(size, align)
}

// Fits reports whether Allocate(size, align) would be served from the region.
// It does not change the arena.
func (a *Arena) Fits(size, align int) bool {
	if size <= 0 || !isPowerOfTwo(align) || a.buf == nil || a.off >= a.capacity {
		return false
	}
	start := a.off + alignShift(a.base+uintptr(a.off), align)
	return start <= a.capacity && size <= a.capacity-start
}

// Deallocate returns b, which must be exactly a slice obtained from Allocate
// on this arena.
//
// Heap slices are forwarded to the fallback heap. A region slice that ends at
// the cursor rewinds the cursor to its start; alignment padding inserted before
// it stays consumed. Any other region slice is left in place.
func (a *Arena) Deallocate(b []byte) {
	if len(b) == 0 {
		return
	}
	a.panicIfReleased()

	p := addrOf(b)
	if !a.contains(p) {
		level.Debug(a.logger).Log("msg", "forwarding deallocation to heap", "size", len(b))
		a.stats.heapFrees++
		a.heap.Free(b)
		return
	}

	off := int(p - a.base)
	if off+len(b) == a.off {
		a.stats.reclaims++
		a.off = off
		return
	}
	level.Debug(a.logger).Log(
		"msg", "ignoring deallocation below the top of the arena",
		"offset", off,
		"size", len(b),
		"used", a.off,
	)
	a.stats.interiorFrees++
}

// CheckedDeallocate validates b before deallocating it. It returns
// ErrNotAllocated for region slices that reach past the cursor and for foreign
// slices that overlap the region, and ErrReleased after Release.
func (a *Arena) CheckedDeallocate(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if a.buf == nil {
		return ErrReleased
	}
	p := addrOf(b)
	end := p + uintptr(len(b))
	switch {
	case a.contains(p):
		if off := int(p - a.base); len(b) > a.off-off {
			return errors.Wrapf(ErrNotAllocated, "slice [%d, %d) extends past cursor %d", off, off+len(b), a.off)
		}
	case p < a.base && end > a.base:
		return errors.Wrapf(ErrNotAllocated, "slice of %d bytes overlaps the start of the region", len(b))
	}
	a.Deallocate(b)
	return nil
}

// InRegion reports whether the first byte of b lies inside the arena's region.
func (a *Arena) InRegion(b []byte) bool {
	if len(b) == 0 || a.buf == nil {
		return false
	}
	return a.contains(addrOf(b))
}

// Offset returns the position of b's first byte within the region, and false
// if b does not start inside it.
func (a *Arena) Offset(b []byte) (int, bool) {
	if !a.InRegion(b) {
		return 0, false
	}
	return int(addrOf(b) - a.base), true
}

func (a *Arena) contains(p uintptr) bool {
	return p >= a.base && p < a.base+uintptr(a.capacity)
}

// Capacity returns the size of the region in bytes, or 0 after Release.
func (a *Arena) Capacity() int {
	if a.buf == nil {
		return 0
	}
	return a.capacity
}

// Used returns the bytes between the start of the region and the cursor,
// alignment padding included. Returns 0 after Release.
func (a *Arena) Used() int {
	if a.buf == nil {
		return 0
	}
	return a.off
}

// Available returns Capacity() - Used().
func (a *Arena) Available() int {
	if a.buf == nil {
		return 0
	}
	return a.capacity - a.off
}

// Release frees the region. Region slices handed out earlier must not be used
// afterwards; heap slices are unaffected. Calling Release more than once is a
// no-op. Allocate and Deallocate panic with ErrReleased afterwards, and the
// queries report an empty arena.
func (a *Arena) Release() error {
	if a.buf == nil {
		return nil
	}
	level.Debug(a.logger).Log(
		"msg", "releasing arena",
		"capacity", a.capacity,
		"used", a.off,
		"region_allocs", a.stats.regionAllocs,
		"heap_allocs", a.stats.heapAllocs,
	)
	release := a.release
	a.buf, a.base, a.off, a.release = nil, 0, 0, nil
	return release()
}

func (a *Arena) panicIfReleased() {
	if a.buf == nil {
		panic(ErrReleased)
	}
}
