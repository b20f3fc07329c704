package stackarena

import "sync"

// SafeArena is a mutex-protected wrapper around Arena for callers that share
// one arena between goroutines. Every call takes the lock; the stack
// discipline still applies across all callers.
type SafeArena struct {
	mu sync.Mutex
	a  *Arena
}

// NewSafeArena creates a thread-safe arena; see New.
func NewSafeArena(capacity int, opts ...Option) (*SafeArena, error) {
	a, err := New(capacity, opts...)
	if err != nil {
		return nil, err
	}
	return &SafeArena{a: a}, nil
}

// Allocate thread-safely allocates size bytes aligned to align.
func (s *SafeArena) Allocate(size, align int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Allocate(size, align)
}

// AllocBytes thread-safely allocates size bytes aligned to MaxAlign.
func (s *SafeArena) AllocBytes(size int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.AllocBytes(size)
}

// Deallocate thread-safely returns b to the arena.
func (s *SafeArena) Deallocate(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Deallocate(b)
}

// CheckedDeallocate thread-safely validates and returns b to the arena.
func (s *SafeArena) CheckedDeallocate(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.CheckedDeallocate(b)
}

// InRegion thread-safely reports whether b starts inside the region.
func (s *SafeArena) InRegion(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.InRegion(b)
}

// Fits thread-safely reports whether a request would be served from the region.
func (s *SafeArena) Fits(size, align int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Fits(size, align)
}

// Capacity thread-safely returns the region size.
func (s *SafeArena) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Capacity()
}

// Used thread-safely returns the bytes below the cursor.
func (s *SafeArena) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Used()
}

// Available thread-safely returns the bytes above the cursor.
func (s *SafeArena) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Available()
}

// Metrics thread-safely returns a snapshot of arena statistics.
func (s *SafeArena) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Metrics()
}

// Release thread-safely frees the region.
func (s *SafeArena) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Release()
}

// SafeAlloc thread-safely returns a pointer to a zeroed T placed in the arena.
func SafeAlloc[T any](s *SafeArena) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Alloc[T](s.a)
}

// SafeAllocSlice thread-safely allocates a zeroed slice of n elements of T.
func SafeAllocSlice[T any](s *SafeArena, n int) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocSlice[T](s.a, n)
}

// SafeFree thread-safely hands the memory of p back to the arena.
func SafeFree[T any](s *SafeArena, p *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	Free(s.a, p)
}
