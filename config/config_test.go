package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveabci/blockstate/config"
	"github.com/driveabci/blockstate/model/platform"
	"github.com/driveabci/blockstate/utils/unittest"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.InitializeFlags(flags, config.DefaultConfig())
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestDefaultConfig(t *testing.T) {
	conf := config.DefaultConfig()
	require.NoError(t, conf.Validate())

	m, err := conf.CompatibilityMap()
	require.NoError(t, err)
	assert.Equal(t, platform.CompatibilityMap{1: 1}, m)
}

func TestValidate(t *testing.T) {
	conf := &config.Config{
		ContractCacheSize:      0,
		ProtocolVersionCurrent: 3,
		ProtocolVersionLatest:  2,
		ProtocolVersionCompatibility: []config.CompatibilityEntry{
			{Version: 1, MinCompatible: 1},
		},
		ProtocolUpgradeThreshold: 101,
	}

	err := conf.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract cache size")
	assert.Contains(t, err.Error(), "higher than the latest known version")
	assert.Contains(t, err.Error(), "threshold")
	assert.Contains(t, err.Error(), "no compatibility entry for version 2")

	conf.ProtocolVersionCompatibility = append(conf.ProtocolVersionCompatibility, config.CompatibilityEntry{Version: 1, MinCompatible: 1})
	_, err = conf.CompatibilityMap()
	assert.Error(t, err)
}

func TestParseCompatibilityEntry(t *testing.T) {
	entry, err := config.ParseCompatibilityEntry(" 4:2 ")
	require.NoError(t, err)
	assert.Equal(t, config.CompatibilityEntry{Version: 4, MinCompatible: 2}, entry)
	assert.Equal(t, "4:2", entry.String())

	for _, malformed := range []string{"", "4", "4:2:1", "a:1", "1:-1"} {
		_, err := config.ParseCompatibilityEntry(malformed)
		assert.Error(t, err, malformed)
	}
}

func TestLoad_Defaults(t *testing.T) {
	conf, err := config.Load(newFlags(t), "")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), conf)
}

func TestLoad_Flags(t *testing.T) {
	flags := newFlags(t,
		"--contract-cache-size=50",
		"--protocol-version-current=2",
		"--protocol-version-latest=3",
		"--protocol-version-compatibility=1:1,2:1,3:2",
		"--protocol-upgrade-threshold=67",
	)

	conf, err := config.Load(flags, "")
	require.NoError(t, err)
	assert.Equal(t, 50, conf.ContractCacheSize)
	assert.Equal(t, uint32(2), conf.ProtocolVersionCurrent)
	assert.Equal(t, uint64(67), conf.ProtocolUpgradeThreshold)

	m, err := conf.CompatibilityMap()
	require.NoError(t, err)
	assert.Equal(t, platform.CompatibilityMap{1: 1, 2: 1, 3: 2}, m)
}

func TestLoad_File(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		path := filepath.Join(dir, "config.yaml")
		err := os.WriteFile(path, []byte(`
contract-cache-size: 20
protocol-version-current: 1
protocol-version-latest: 2
protocol-version-compatibility:
  - version: 1
    min-compatible: 1
  - version: 2
    min-compatible: 2
`), 0o600)
		require.NoError(t, err)

		// flags set on the command line win over the file
		conf, err := config.Load(newFlags(t, "--contract-cache-size=30"), path)
		require.NoError(t, err)
		assert.Equal(t, 30, conf.ContractCacheSize)
		assert.Equal(t, uint32(2), conf.ProtocolVersionLatest)

		m, err := conf.CompatibilityMap()
		require.NoError(t, err)
		assert.Equal(t, platform.CompatibilityMap{1: 1, 2: 2}, m)
	})
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("BLOCKSTATE_PROTOCOL_VERSION_LATEST", "2")
	t.Setenv("BLOCKSTATE_PROTOCOL_VERSION_COMPATIBILITY", "1:1,2:1")

	conf, err := config.Load(newFlags(t), "")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), conf.ProtocolVersionLatest)

	m, err := conf.CompatibilityMap()
	require.NoError(t, err)
	assert.Equal(t, platform.CompatibilityMap{1: 1, 2: 1}, m)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := config.Load(newFlags(t, "--protocol-version-latest=2"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no compatibility entry for version 2")
}
