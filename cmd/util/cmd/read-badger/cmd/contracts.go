package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/driveabci/blockstate/cmd/util/cmd/common"
	"github.com/driveabci/blockstate/model/platform"
)

var flagContractID string

func init() {
	rootCmd.AddCommand(contractsCmd)

	contractsCmd.Flags().StringVar(&flagContractID, "contract-id", "", "the ID of the data contract")
	_ = contractsCmd.MarkFlagRequired("contract-id")
}

var contractsCmd = &cobra.Command{
	Use:   "contract",
	Short: "get data contract by --contract-id",
	Run: func(cmd *cobra.Command, args []string) {
		db := common.InitStorage(flagDatadir)
		defer db.Close()
		storages := common.InitStorages(db, flagContractCacheSize)

		contractID, err := platform.HexStringToIdentifier(flagContractID)
		if err != nil {
			log.Fatal().Err(err).Msg("malformed contract ID")
		}

		log.Info().Msgf("getting contract by id: %v", contractID)

		info, err := storages.Contracts.ByID(nil, contractID)
		if err != nil {
			log.Fatal().Err(err).Msgf("could not get contract")
		}

		common.PrettyPrint(info)
	},
}
