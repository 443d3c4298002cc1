package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// All constant strings are used for CLI flag names and corresponding keys for config values.
	contractCacheSize            = "contract-cache-size"
	protocolVersionCurrent       = "protocol-version-current"
	protocolVersionLatest        = "protocol-version-latest"
	protocolVersionCompatibility = "protocol-version-compatibility"
	protocolUpgradeThreshold     = "protocol-upgrade-threshold"

	// EnvPrefix is prepended to every key to form its environment variable,
	// e.g. BLOCKSTATE_CONTRACT_CACHE_SIZE.
	EnvPrefix = "BLOCKSTATE"
)

func AllFlagNames() []string {
	return []string{
		contractCacheSize, protocolVersionCurrent, protocolVersionLatest, protocolVersionCompatibility, protocolUpgradeThreshold,
	}
}

// InitializeFlags initializes all CLI flags of the execution configuration on the provided pflag set.
// Args:
//
//	*pflag.FlagSet: the pflag set of the command.
//	*Config: the default config used to set default values on the flags
func InitializeFlags(flags *pflag.FlagSet, config *Config) {
	compatibility := make([]string, 0, len(config.ProtocolVersionCompatibility))
	for _, entry := range config.ProtocolVersionCompatibility {
		compatibility = append(compatibility, entry.String())
	}

	flags.Int(contractCacheSize, config.ContractCacheSize, "number of committed data contracts kept in memory")
	flags.Uint32(protocolVersionCurrent, config.ProtocolVersionCurrent, "protocol version the network currently runs")
	flags.Uint32(protocolVersionLatest, config.ProtocolVersionLatest, "highest protocol version this node can run")
	flags.StringSlice(protocolVersionCompatibility, compatibility, "minimum compatible version of every known protocol version, as version:min-compatible")
	flags.Uint64(protocolUpgradeThreshold, config.ProtocolUpgradeThreshold, "percentage of validators that must be exceeded to adopt a proposed protocol version")
}

// Load reads the configuration from, in order of precedence, the CLI flags,
// the environment and the config file. An empty configFile skips the file.
// The flags must have been initialized with InitializeFlags.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	conf := viper.New()

	err := conf.BindPFlags(flags)
	if err != nil {
		return nil, fmt.Errorf("could not bind flags: %w", err)
	}

	conf.SetEnvPrefix(EnvPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	if configFile != "" {
		conf.SetConfigFile(configFile)
		err = conf.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", configFile, err)
		}
	}

	var config Config
	err = conf.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
		compatibilityEntryHook,
	)))
	if err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// compatibilityEntryHook decodes a compatibility entry written as
// "version:min-compatible".
func compatibilityEntryHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(CompatibilityEntry{}) {
		return data, nil
	}
	return ParseCompatibilityEntry(data.(string))
}

// ParseCompatibilityEntry parses an entry written as "version:min-compatible".
func ParseCompatibilityEntry(s string) (CompatibilityEntry, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return CompatibilityEntry{}, fmt.Errorf("malformed compatibility entry %q, expected version:min-compatible", s)
	}
	version, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return CompatibilityEntry{}, fmt.Errorf("malformed version in compatibility entry %q: %w", s, err)
	}
	minCompatible, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return CompatibilityEntry{}, fmt.Errorf("malformed minimum compatible version in compatibility entry %q: %w", s, err)
	}
	return CompatibilityEntry{Version: uint32(version), MinCompatible: uint32(minCompatible)}, nil
}
