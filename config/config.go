package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/driveabci/blockstate/model/platform"
)

const (
	// DefaultContractCacheSize is the number of committed contracts kept in memory.
	DefaultContractCacheSize = 1000
	// DefaultUpgradeThreshold is the share of validators, in percent, that
	// must be exceeded for a protocol version to be adopted.
	DefaultUpgradeThreshold = 75
)

// Config holds the execution configuration of a node.
type Config struct {
	// ContractCacheSize is the capacity of the committed tier of the contract cache.
	ContractCacheSize int `mapstructure:"contract-cache-size"`
	// ProtocolVersionCurrent is the protocol version the network runs.
	ProtocolVersionCurrent uint32 `mapstructure:"protocol-version-current"`
	// ProtocolVersionLatest is the highest protocol version this node can run.
	ProtocolVersionLatest uint32 `mapstructure:"protocol-version-latest"`
	// ProtocolVersionCompatibility lists, for every known version, the lowest
	// version it still works with.
	ProtocolVersionCompatibility []CompatibilityEntry `mapstructure:"protocol-version-compatibility"`
	// ProtocolUpgradeThreshold is the share of validators, in percent, that
	// must be exceeded before a proposed version is adopted.
	ProtocolUpgradeThreshold uint64 `mapstructure:"protocol-upgrade-threshold"`
}

// CompatibilityEntry is a single entry of the compatibility map. On the
// command line it is written as "version:min-compatible".
type CompatibilityEntry struct {
	Version       uint32 `mapstructure:"version"`
	MinCompatible uint32 `mapstructure:"min-compatible"`
}

func (e CompatibilityEntry) String() string {
	return fmt.Sprintf("%d:%d", e.Version, e.MinCompatible)
}

// DefaultConfig returns the configuration of a node that only knows the
// first protocol version.
func DefaultConfig() *Config {
	return &Config{
		ContractCacheSize:      DefaultContractCacheSize,
		ProtocolVersionCurrent: 1,
		ProtocolVersionLatest:  1,
		ProtocolVersionCompatibility: []CompatibilityEntry{
			{Version: 1, MinCompatible: 1},
		},
		ProtocolUpgradeThreshold: DefaultUpgradeThreshold,
	}
}

// CompatibilityMap converts the configured entries into a compatibility map.
// A version listed twice is a configuration error.
func (c *Config) CompatibilityMap() (platform.CompatibilityMap, error) {
	m := make(platform.CompatibilityMap, len(c.ProtocolVersionCompatibility))
	for _, entry := range c.ProtocolVersionCompatibility {
		version := platform.Version(entry.Version)
		if _, ok := m[version]; ok {
			return nil, fmt.Errorf("compatibility of protocol version %d is defined more than once", version)
		}
		m[version] = platform.Version(entry.MinCompatible)
	}
	return m, nil
}

// Validate checks the configuration, reporting every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.ContractCacheSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("contract cache size must be positive, got %d", c.ContractCacheSize))
	}
	if c.ProtocolVersionCurrent == 0 {
		result = multierror.Append(result, fmt.Errorf("current protocol version must be at least 1"))
	}
	if c.ProtocolVersionCurrent > c.ProtocolVersionLatest {
		result = multierror.Append(result, fmt.Errorf("current protocol version %d is higher than the latest known version %d",
			c.ProtocolVersionCurrent, c.ProtocolVersionLatest))
	}
	if c.ProtocolUpgradeThreshold == 0 || c.ProtocolUpgradeThreshold > 100 {
		result = multierror.Append(result, fmt.Errorf("protocol upgrade threshold must be within (0, 100], got %d", c.ProtocolUpgradeThreshold))
	}

	m, err := c.CompatibilityMap()
	if err != nil {
		result = multierror.Append(result, err)
	} else if err := m.Complete(platform.Version(c.ProtocolVersionLatest)); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid compatibility map: %w", err))
	}

	return result.ErrorOrNil()
}
