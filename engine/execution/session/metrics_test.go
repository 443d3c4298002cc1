package session_test

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveabci/blockstate/engine/execution/session"
	"github.com/driveabci/blockstate/module/metrics"
	"github.com/driveabci/blockstate/state/protocolversion"
	badgerstorage "github.com/driveabci/blockstate/storage/badger"
	"github.com/driveabci/blockstate/utils/unittest"
)

// metricValue returns the value of the metric with the given name whose
// labels include the given label pair.
func metricValue(t *testing.T, registry *prometheus.Registry, name string, label string, value string) float64 {
	families, err := registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if !hasLabel(metric, label, value) {
				continue
			}
			if metric.GetGauge() != nil {
				return metric.GetGauge().GetValue()
			}
			return metric.GetCounter().GetValue()
		}
	}
	require.Failf(t, "metric not found", "%s{%s=%q}", name, label, value)
	return 0
}

func hasLabel(metric *dto.Metric, label string, value string) bool {
	if label == "" {
		return true
	}
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == label && pair.GetValue() == value {
			return true
		}
	}
	return false
}

func TestSession_Metrics(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		registry := prometheus.NewRegistry()
		cacheCollector := metrics.NewCacheCollector(registry)
		executionCollector := metrics.NewExecutionCollector(registry)

		all, contracts, err := badgerstorage.InitAll(cacheCollector, db, 16)
		require.NoError(t, err)

		policy := protocolversion.NewPolicy(1, 2, unittest.CompatibilityMapFixture(2))
		tally := protocolversion.NewTally(unittest.Logger(), executionCollector, all.ProtocolVersions)
		manager := session.NewManager(unittest.Logger(), executionCollector, db, policy, tally, all.ProtocolVersions, all.Contracts)
		manager.Register(contracts.Cache())

		block, err := manager.Begin(7)
		require.NoError(t, err)
		_, err = block.StoreContract(unittest.ContractFixture())
		require.NoError(t, err)
		_, err = block.StoreContract(unittest.ContractFixture())
		require.NoError(t, err)
		_, _, err = block.ProposeVersion(unittest.IdentifierFixture(), 2)
		require.NoError(t, err)
		require.NoError(t, block.Finalize())

		block, err = manager.Begin(8)
		require.NoError(t, err)
		block.Reject()

		assert.Equal(t, 1.0, metricValue(t, registry, "execution_protocol_upgrade_version_votes", metrics.LabelVersion, "2"))
		assert.Equal(t, 1.0, metricValue(t, registry, "execution_block_session_blocks_total", metrics.LabelOutcome, "finalized"))
		assert.Equal(t, 1.0, metricValue(t, registry, "execution_block_session_blocks_total", metrics.LabelOutcome, "rejected"))
		assert.Equal(t, 7.0, metricValue(t, registry, "execution_block_session_last_finalized_height", "", ""))
		assert.Equal(t, 2.0, metricValue(t, registry, "storage_overlay_cache_merged_total", metrics.LabelResource, metrics.ResourceContract))
		assert.Equal(t, 2.0, metricValue(t, registry, "storage_cache_entries_total", metrics.LabelResource, metrics.ResourceContract))
	})
}
