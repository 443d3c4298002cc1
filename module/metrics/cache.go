package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/driveabci/blockstate/module"
)

// CacheCollector collects metrics of the overlay caches.
type CacheCollector struct {
	entries          *prometheus.GaugeVec
	hits             *prometheus.CounterVec
	notFounds        *prometheus.CounterVec
	misses           *prometheus.CounterVec
	overlayEntries   *prometheus.GaugeVec
	overlayMerged    *prometheus.CounterVec
	overlayDiscarded *prometheus.CounterVec
}

var _ module.OverlayCacheMetrics = (*CacheCollector)(nil)

func NewCacheCollector(registerer prometheus.Registerer) *CacheCollector {
	cm := &CacheCollector{
		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespaceStorage,
			Subsystem: subsystemCache,
			Name:      "entries_total",
			Help:      "the number of entries in the base tier of the cache",
		}, []string{LabelResource}),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceStorage,
			Subsystem: subsystemCache,
			Name:      "hits_total",
			Help:      "the number of hits for the cache",
		}, []string{LabelResource}),
		notFounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceStorage,
			Subsystem: subsystemCache,
			Name:      "notfounds_total",
			Help:      "the number of times the queried item was not found in either cache or database",
		}, []string{LabelResource}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceStorage,
			Subsystem: subsystemCache,
			Name:      "misses_total",
			Help:      "the number of times the queried item was not found in the cache but in the database",
		}, []string{LabelResource}),
		overlayEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespaceStorage,
			Subsystem: subsystemOverlayCache,
			Name:      "entries_total",
			Help:      "the number of entries in the block-scoped overlay tier",
		}, []string{LabelResource}),
		overlayMerged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceStorage,
			Subsystem: subsystemOverlayCache,
			Name:      "merged_total",
			Help:      "the number of overlay entries merged into the base tier",
		}, []string{LabelResource}),
		overlayDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceStorage,
			Subsystem: subsystemOverlayCache,
			Name:      "discarded_total",
			Help:      "the number of overlay entries cleared at the end of a block",
		}, []string{LabelResource}),
	}

	registerer.MustRegister(
		cm.entries,
		cm.hits,
		cm.notFounds,
		cm.misses,
		cm.overlayEntries,
		cm.overlayMerged,
		cm.overlayDiscarded,
	)

	return cm
}

// CacheEntries records the size of the base tier.
func (cc *CacheCollector) CacheEntries(resource string, entries uint) {
	cc.entries.With(prometheus.Labels{LabelResource: resource}).Set(float64(entries))
}

// CacheHit records the number of hits in the cache.
func (cc *CacheCollector) CacheHit(resource string) {
	cc.hits.With(prometheus.Labels{LabelResource: resource}).Inc()
}

// CacheNotFound records the number of times the queried item was not found in either cache
// or database.
func (cc *CacheCollector) CacheNotFound(resource string) {
	cc.notFounds.With(prometheus.Labels{LabelResource: resource}).Inc()
}

// CacheMiss records the number of times the queried item was not found in the cache, but
// found in the database.
func (cc *CacheCollector) CacheMiss(resource string) {
	cc.misses.With(prometheus.Labels{LabelResource: resource}).Inc()
}

func (cc *CacheCollector) OverlayEntries(resource string, entries uint) {
	cc.overlayEntries.With(prometheus.Labels{LabelResource: resource}).Set(float64(entries))
}

func (cc *CacheCollector) OverlayMerged(resource string, entries uint) {
	cc.overlayMerged.With(prometheus.Labels{LabelResource: resource}).Add(float64(entries))
}

func (cc *CacheCollector) OverlayDiscarded(resource string, entries uint) {
	cc.overlayDiscarded.With(prometheus.Labels{LabelResource: resource}).Add(float64(entries))
}
