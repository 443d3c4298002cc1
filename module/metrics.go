package module

// CacheMetrics reports on the behaviour of a read-through cache.
type CacheMetrics interface {
	// CacheEntries report the total number of cached items
	CacheEntries(resource string, entries uint)
	// CacheHit report the number of times the queried item is found in the cache
	CacheHit(resource string)
	// CacheNotFound records the number of times the queried item was not found in either cache or database.
	CacheNotFound(resource string)
	// CacheMiss report the number of times the queried item is not found in the cache, but found in the database.
	CacheMiss(resource string)
}

// OverlayCacheMetrics extends CacheMetrics with the block-scoped overlay tier.
type OverlayCacheMetrics interface {
	CacheMetrics
	// OverlayEntries reports the number of items held by the overlay tier.
	OverlayEntries(resource string, entries uint)
	// OverlayMerged reports the number of overlay items written into the base tier at block commit.
	OverlayMerged(resource string, entries uint)
	// OverlayDiscarded reports the number of overlay items cleared at the end of a block.
	OverlayDiscarded(resource string, entries uint)
}

// ProtocolVersionMetrics reports on the protocol version upgrade tally.
type ProtocolVersionMetrics interface {
	// ProtocolVersionVotes reports the number of validators currently voting for a version.
	ProtocolVersionVotes(version uint32, count uint64)
}

// BlockExecutionMetrics reports on the outcome of block execution sessions.
type BlockExecutionMetrics interface {
	// BlockFinalized is called once the unit of work of a block was committed.
	BlockFinalized(height uint64)
	// BlockRejected is called when a block's unit of work was thrown away.
	BlockRejected(height uint64)
}
