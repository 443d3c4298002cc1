package metrics

import (
	"github.com/driveabci/blockstate/module"
)

type NoopCollector struct{}

var _ module.OverlayCacheMetrics = (*NoopCollector)(nil)
var _ module.ProtocolVersionMetrics = (*NoopCollector)(nil)
var _ module.BlockExecutionMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) CacheEntries(resource string, entries uint)        {}
func (nc *NoopCollector) CacheHit(resource string)                          {}
func (nc *NoopCollector) CacheNotFound(resource string)                     {}
func (nc *NoopCollector) CacheMiss(resource string)                         {}
func (nc *NoopCollector) OverlayEntries(resource string, entries uint)      {}
func (nc *NoopCollector) OverlayMerged(resource string, entries uint)       {}
func (nc *NoopCollector) OverlayDiscarded(resource string, entries uint)    {}
func (nc *NoopCollector) ProtocolVersionVotes(version uint32, count uint64) {}
func (nc *NoopCollector) BlockFinalized(height uint64)                      {}
func (nc *NoopCollector) BlockRejected(height uint64)                       {}
