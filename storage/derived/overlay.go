package derived

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/driveabci/blockstate/module"
	"github.com/driveabci/blockstate/module/metrics"
)

// DefaultLimit is the default capacity of the base tier.
const DefaultLimit = 1000

// Overlay is the block-scoped part of a two-tier cache, as seen by the block
// execution session.
type Overlay interface {
	// Merge writes every overlay entry into the base tier.
	Merge()
	// Discard drops every overlay entry.
	Discard()
}

// OverlayCache is a two-tier cache of derived values. The base tier holds
// committed values for the lifetime of the process and is bounded, evicting
// the least recently used entry. The overlay tier holds the values written
// by the block in progress; it is never evicted and is either merged into the
// base tier when the block commits or discarded when it is rejected.
//
// Readers that do not consider the overlay share access to the base tier.
// Writes, Merge and Discard are exclusive.
type OverlayCache[K comparable, V any] struct {
	limit    int
	resource string
	metrics  module.OverlayCacheMetrics

	mu      sync.RWMutex
	base    *lru.Cache[K, V]
	overlay map[K]V
}

var _ Overlay = (*OverlayCache[string, int])(nil)

// Option configures an OverlayCache.
type Option func(*config)

type config struct {
	limit    int
	resource string
	metrics  module.OverlayCacheMetrics
}

// WithLimit sets the capacity of the base tier.
func WithLimit(limit int) Option {
	return func(c *config) {
		c.limit = limit
	}
}

// WithResource sets the resource label reported to metrics.
func WithResource(resource string) Option {
	return func(c *config) {
		c.resource = resource
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector module.OverlayCacheMetrics) Option {
	return func(c *config) {
		c.metrics = collector
	}
}

// NewOverlayCache creates an empty cache. It errors if the configured limit
// is not positive.
func NewOverlayCache[K comparable, V any](options ...Option) (*OverlayCache[K, V], error) {
	cfg := config{
		limit:    DefaultLimit,
		resource: metrics.ResourceUndefined,
		metrics:  metrics.NewNoopCollector(),
	}
	for _, option := range options {
		option(&cfg)
	}

	base, err := lru.New[K, V](cfg.limit)
	if err != nil {
		return nil, fmt.Errorf("could not create base tier for %s cache: %w", cfg.resource, err)
	}

	return &OverlayCache[K, V]{
		limit:    cfg.limit,
		resource: cfg.resource,
		metrics:  cfg.metrics,
		base:     base,
		overlay:  make(map[K]V),
	}, nil
}

// Get returns the value cached under key. With considerOverlay the overlay
// tier is checked first and the base tier second; without it only the base
// tier, i.e. the last committed view, is consulted.
func (c *OverlayCache[K, V]) Get(key K, considerOverlay bool) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if considerOverlay {
		value, ok := c.overlay[key]
		if ok {
			c.metrics.CacheHit(c.resource)
			return value, true
		}
	}

	value, ok := c.base.Get(key)
	if ok {
		c.metrics.CacheHit(c.resource)
	}
	return value, ok
}

// Insert caches value under key, either in the overlay tier, replacing any
// previous overlay entry, or directly in the base tier. Writing the base tier
// is meant for values that are valid regardless of the block's outcome.
func (c *OverlayCache[K, V]) Insert(key K, value V, intoOverlay bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if intoOverlay {
		c.overlay[key] = value
		c.metrics.OverlayEntries(c.resource, uint(len(c.overlay)))
		return
	}

	c.base.Add(key, value)
	c.metrics.CacheEntries(c.resource, uint(c.base.Len()))
}

// Merge writes every overlay entry into the base tier; overlay entries win
// over base entries under the same key. The overlay is left intact; at block
// commit Merge is followed by Discard.
func (c *OverlayCache[K, V]) Merge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, value := range c.overlay {
		c.base.Add(key, value)
	}
	c.metrics.OverlayMerged(c.resource, uint(len(c.overlay)))
	c.metrics.CacheEntries(c.resource, uint(c.base.Len()))
}

// Discard clears the overlay tier. The base tier is untouched.
func (c *OverlayCache[K, V]) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.OverlayDiscarded(c.resource, uint(len(c.overlay)))
	c.overlay = make(map[K]V)
	c.metrics.OverlayEntries(c.resource, 0)
}

// Len returns the number of entries in the base tier.
func (c *OverlayCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.base.Len()
}

// OverlayLen returns the number of entries in the overlay tier.
func (c *OverlayCache[K, V]) OverlayLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.overlay)
}

// Limit returns the capacity of the base tier.
func (c *OverlayCache[K, V]) Limit() int {
	return c.limit
}

// Resource returns the resource label of the cache.
func (c *OverlayCache[K, V]) Resource() string {
	return c.resource
}
