package common

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/driveabci/blockstate/module/metrics"
	"github.com/driveabci/blockstate/storage"
	storagebadger "github.com/driveabci/blockstate/storage/badger"
)

// InitDataDirFlag registers the required --data-dir flag.
func InitDataDirFlag(cmd *cobra.Command, dataDirFlag *string) {
	cmd.PersistentFlags().StringVarP(dataDirFlag, "data-dir", "d", "", "directory that stores the block state database")
}

// InitStorage opens the database in datadir read-only, exiting on failure.
func InitStorage(datadir string) *badger.DB {
	opts := badger.
		DefaultOptions(datadir).
		WithKeepL0InMemory(true).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open key-value store")
	}
	return db
}

// InitStorages creates every storage module on top of db.
func InitStorages(db *badger.DB, contractCacheSize int) *storage.All {
	all, _, err := storagebadger.InitAll(metrics.NewNoopCollector(), db, contractCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize storage")
	}
	return all
}

// PrettyPrint prints v as indented JSON.
func PrettyPrint(v interface{}) {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("could not marshal value")
	}
	fmt.Println(string(bytes))
}
