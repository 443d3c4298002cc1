package cmd

import (
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/driveabci/blockstate/cmd/util/cmd/common"
	"github.com/driveabci/blockstate/model/platform"
)

func init() {
	rootCmd.AddCommand(protocolVersionsCmd)
}

type versionCount struct {
	Version   platform.Version `json:"version"`
	Count     uint64           `json:"count"`
	FromVotes uint64           `json:"from_votes"`
}

var protocolVersionsCmd = &cobra.Command{
	Use:   "protocol-versions",
	Short: "print the protocol version tally and check it against the validator votes",
	Run: func(cmd *cobra.Command, args []string) {
		db := common.InitStorage(flagDatadir)
		defer db.Close()
		storages := common.InitStorages(db, flagContractCacheSize)

		log.Info().Msg("reading protocol version counts")

		counts, err := storages.ProtocolVersions.RetrieveCounts()
		if err != nil {
			log.Fatal().Err(err).Msg("could not retrieve protocol version counts")
		}

		fromVotes, err := storages.ProtocolVersions.CountsFromVotes()
		if err != nil {
			log.Fatal().Err(err).Msg("could not count validator votes")
		}

		versions := make(map[platform.Version]struct{}, len(counts))
		for version := range counts {
			versions[version] = struct{}{}
		}
		for version := range fromVotes {
			versions[version] = struct{}{}
		}

		result := make([]versionCount, 0, len(versions))
		drift := false
		for version := range versions {
			entry := versionCount{Version: version, Count: counts[version], FromVotes: fromVotes[version]}
			if entry.Count != entry.FromVotes {
				drift = true
				log.Warn().
					Uint32("version", uint32(version)).
					Uint64("count", entry.Count).
					Uint64("from_votes", entry.FromVotes).
					Msg("protocol version count does not match validator votes")
			}
			result = append(result, entry)
		}
		sort.Slice(result, func(i, j int) bool { return result[i].Version < result[j].Version })

		common.PrettyPrint(result)

		if drift {
			log.Fatal().Msg("protocol version tally drifted from validator votes")
		}
	},
}
