package stackarena

import "github.com/pkg/errors"

var (
	// ErrInvalidCapacity is returned by New when capacity is not positive.
	ErrInvalidCapacity = errors.New("arena: capacity must be positive")

	// ErrInvalidAlignment is the panic value for an alignment that is not a
	// positive power of two.
	ErrInvalidAlignment = errors.New("arena: alignment must be a positive power of two")

	// ErrReleased is the panic value for operations on a released arena.
	ErrReleased = errors.New("arena: use after Release()")

	// ErrNotAllocated is returned by CheckedDeallocate for slices that could
	// not have come from this arena.
	ErrNotAllocated = errors.New("arena: slice was not allocated by this arena")
)
