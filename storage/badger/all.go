package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/driveabci/blockstate/module"
	"github.com/driveabci/blockstate/storage"
)

// InitAll creates every storage module on top of db. The contract cache keeps
// at most contractCacheSize committed contracts.
func InitAll(metrics module.OverlayCacheMetrics, db *badger.DB, contractCacheSize int) (*storage.All, *Contracts, error) {
	contracts, err := NewContracts(metrics, db, contractCacheSize)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create contract storage: %w", err)
	}

	return &storage.All{
		ProtocolVersions: NewProtocolVersions(db),
		Contracts:        contracts,
	}, contracts, nil
}
