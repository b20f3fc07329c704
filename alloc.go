package stackarena

import "unsafe"

// Alloc returns a pointer to a zeroed T placed in the arena, falling back to the
// heap like Allocate. T must not contain Go pointers: the garbage collector
// does not scan arena memory. Zero-sized types are allocated with new.
func Alloc[T any](a *Arena) *T {
	var zero T
	b := a.Allocate(int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero)))
	if b == nil {
		return new(T)
	}
	clear(b)
	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}

// AllocSlice returns a zeroed slice of n elements of T placed in the arena.
// Returns nil if n <= 0. The same restriction on T applies as for Alloc.
func AllocSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 {
		return make([]T, n)
	}
	b := a.Allocate(elemSize*n, int(unsafe.Alignof(zero)))
	clear(b)
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// Free hands the memory of p, obtained from Alloc, back to the arena.
func Free[T any](a *Arena, p *T) {
	size := int(unsafe.Sizeof(*p))
	if p == nil || size == 0 {
		return
	}
	a.Deallocate(unsafe.Slice((*byte)(unsafe.Pointer(p)), size))
}

// FreeSlice hands the memory of s, obtained from AllocSlice, back to the
// arena. s may have been resliced, but must keep its original start and
// capacity.
func FreeSlice[T any](a *Arena, s []T) {
	var zero T
	size := int(unsafe.Sizeof(zero)) * cap(s)
	if size == 0 {
		return
	}
	a.Deallocate(unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s[:cap(s)]))), size))
}
