package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/driveabci/blockstate/module"
)

// ExecutionCollector collects metrics of block execution sessions and the
// protocol upgrade tally.
type ExecutionCollector struct {
	versionVotes  *prometheus.GaugeVec
	blockOutcomes *prometheus.CounterVec
	lastFinalized prometheus.Gauge
}

var _ module.ProtocolVersionMetrics = (*ExecutionCollector)(nil)
var _ module.BlockExecutionMetrics = (*ExecutionCollector)(nil)

func NewExecutionCollector(registerer prometheus.Registerer) *ExecutionCollector {
	ec := &ExecutionCollector{
		versionVotes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespaceExecution,
			Subsystem: subsystemProtocolUpgrade,
			Name:      "version_votes",
			Help:      "the number of validators voting for a protocol version",
		}, []string{LabelVersion}),
		blockOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceExecution,
			Subsystem: subsystemBlockSession,
			Name:      "blocks_total",
			Help:      "the number of block execution sessions by outcome",
		}, []string{LabelOutcome}),
		lastFinalized: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceExecution,
			Subsystem: subsystemBlockSession,
			Name:      "last_finalized_height",
			Help:      "the height of the last block whose unit of work was committed",
		}),
	}

	registerer.MustRegister(ec.versionVotes, ec.blockOutcomes, ec.lastFinalized)

	return ec
}

func (ec *ExecutionCollector) ProtocolVersionVotes(version uint32, count uint64) {
	ec.versionVotes.With(prometheus.Labels{LabelVersion: strconv.FormatUint(uint64(version), 10)}).Set(float64(count))
}

func (ec *ExecutionCollector) BlockFinalized(height uint64) {
	ec.blockOutcomes.With(prometheus.Labels{LabelOutcome: "finalized"}).Inc()
	ec.lastFinalized.Set(float64(height))
}

func (ec *ExecutionCollector) BlockRejected(_ uint64) {
	ec.blockOutcomes.With(prometheus.Labels{LabelOutcome: "rejected"}).Inc()
}
