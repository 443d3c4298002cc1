package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/driveabci/blockstate/cmd/util/cmd/common"
	"github.com/driveabci/blockstate/config"
)

var (
	flagDatadir           string
	flagContractCacheSize int
)

var rootCmd = &cobra.Command{
	Use:   "read-badger",
	Short: "read block state data from the badger database",
}

var RootCmd = rootCmd

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	common.InitDataDirFlag(rootCmd, &flagDatadir)
	_ = rootCmd.MarkPersistentFlagRequired("data-dir")

	rootCmd.PersistentFlags().IntVar(&flagContractCacheSize, "contract-cache-size", config.DefaultContractCacheSize, "number of contracts cached while reading")
}
