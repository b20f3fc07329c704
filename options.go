package stackarena

import "github.com/go-kit/log"

// Option configures an Arena at construction.
type Option func(*config)

type config struct {
	heap   Heap
	logger log.Logger
	region RegionKind
}

func defaultConfig() config {
	return config{
		heap:   GoHeap{},
		logger: log.NewNopLogger(),
		region: RegionHeap,
	}
}

// WithHeap sets the allocator used for fallback allocations.
// A nil heap keeps the default GoHeap.
func WithHeap(h Heap) Option {
	return func(c *config) {
		if h != nil {
			c.heap = h
		}
	}
}

// WithLogger sets the logger used for fallback and deallocation events.
// Events are logged at debug level and never on the in-region fast path.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegion selects the backing memory for the region.
func WithRegion(kind RegionKind) Option {
	return func(c *config) {
		c.region = kind
	}
}
