package stackarena

import (
	"unsafe"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// MaxAlign is the alignment of an arena's region start and the default
// alignment used by AllocBytes. It matches max_align_t on common 64-bit
// platforms and is at least the alignment of every Go type.
const MaxAlign = 16

// RegionKind selects where an arena's backing region comes from.
type RegionKind int

const (
	// RegionHeap backs the arena with a byte slice from the Go heap.
	RegionHeap RegionKind = iota
	// RegionMmap backs the arena with an anonymous memory mapping that is
	// unmapped on Release.
	RegionMmap
)

func (k RegionKind) String() string {
	switch k {
	case RegionHeap:
		return "heap"
	case RegionMmap:
		return "mmap"
	default:
		return "unknown"
	}
}

// region is the owned backing memory of an arena.
type region struct {
	buf     []byte       // exactly capacity bytes, buf[0] aligned to MaxAlign
	release func() error // frees the backing memory
}

func acquireRegion(kind RegionKind, capacity int) (region, error) {
	switch kind {
	case RegionHeap:
		raw := make([]byte, capacity+MaxAlign-1)
		shift := alignShift(addrOf(raw), MaxAlign)
		return region{
			buf:     raw[shift : shift+capacity : shift+capacity],
			release: func() error { return nil },
		}, nil

	case RegionMmap:
		m, err := mmap.MapRegion(nil, capacity, mmap.RDWR, mmap.ANON, 0)
		if err != nil {
			return region{}, errors.Wrapf(err, "mmap anonymous region of %d bytes", capacity)
		}
		// mappings are page aligned, which is stricter than MaxAlign.
		return region{
			buf: m[:capacity:capacity],
			release: func() error {
				return errors.Wrap(m.Unmap(), "unmap arena region")
			},
		}, nil
	}
	return region{}, errors.Errorf("arena: unknown region kind %d", int(kind))
}

// addrOf returns the address of the first byte of b. b must not be empty.
func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// alignShift returns the number of bytes to add to addr to reach the next
// multiple of align. align must be a power of two.
func alignShift(addr uintptr, align int) int {
	mask := uintptr(align) - 1
	return int(((addr + mask) &^ mask) - addr)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
