package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	checkversion "github.com/driveabci/blockstate/cmd/util/cmd/check-version"
	readbadger "github.com/driveabci/blockstate/cmd/util/cmd/read-badger/cmd"
)

var (
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "util",
	Short: "Utility functions for a block state database",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setLogLevel()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Initialize the logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVarP(&flagLogLevel, "loglevel", "l", "info", "log level (panic, fatal, error, warn, info, debug)")

	addCommands()

	cobra.OnInitialize(initConfig)
}

func addCommands() {
	rootCmd.AddCommand(readbadger.RootCmd)
	rootCmd.AddCommand(checkversion.Cmd)
}

func initConfig() {
	viper.AutomaticEnv()
}

func setLogLevel() {
	level, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		log.Fatal().Str("loglevel", flagLogLevel).Msg("unsupported log level")
	}
	zerolog.SetGlobalLevel(level)
}
