package checkversion

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/driveabci/blockstate/config"
	"github.com/driveabci/blockstate/model/platform"
	"github.com/driveabci/blockstate/state/protocolversion"
)

var (
	flagConfigFile string
	flagVersion    uint32
)

var Cmd = &cobra.Command{
	Use:   "check-version",
	Short: "evaluate a proposed protocol version against the configured compatibility policy",
	Run:   run,
}

func init() {
	config.InitializeFlags(Cmd.Flags(), config.DefaultConfig())

	Cmd.Flags().StringVar(&flagConfigFile, "config", "", "path to a config file")
	Cmd.Flags().Uint32Var(&flagVersion, "version", 0, "the proposed protocol version")
	_ = Cmd.MarkFlagRequired("version")
}

func run(cmd *cobra.Command, args []string) {
	conf, err := config.Load(cmd.Flags(), flagConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	compatibility, err := conf.CompatibilityMap()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid compatibility map")
	}

	policy := protocolversion.NewPolicy(
		platform.Version(conf.ProtocolVersionCurrent),
		platform.Version(conf.ProtocolVersionLatest),
		compatibility,
	)

	outcome, err := policy.Validate(platform.Version(flagVersion))
	if err != nil {
		log.Fatal().Err(err).Msg("could not evaluate protocol version")
	}

	event := log.Info()
	if !outcome.Accepted() {
		event = log.Warn().AnErr("reason", outcome.Err())
	}
	event.
		Uint32("proposed", flagVersion).
		Uint32("current", conf.ProtocolVersionCurrent).
		Str("status", outcome.Status.String()).
		Msg("protocol version evaluated")
}
