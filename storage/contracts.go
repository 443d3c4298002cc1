package storage

import (
	"github.com/driveabci/blockstate/model/platform"
	"github.com/driveabci/blockstate/storage/badger/transaction"
)

// Contracts gives access to data contracts through the contract cache.
type Contracts interface {
	// ByID returns the contract with the given ID. With a unit of work the
	// lookup sees the writes of the block in progress and caches what it
	// fetches in the overlay tier; without one it reads committed state only.
	// Error returns:
	//   - storage.ErrNotFound if no contract with the given ID exists
	ByID(tx *transaction.Tx, contractID platform.Identifier) (*platform.ContractFetchInfo, error)

	// Store persists a contract as part of the unit of work and caches it in
	// the overlay tier.
	// No errors are expected during normal operation.
	Store(tx *transaction.Tx, contract *platform.Contract) (*platform.ContractFetchInfo, error)

	// CacheGlobally caches a fetched contract in the base tier. Only meant for
	// values that are valid regardless of the outcome of the current block.
	CacheGlobally(info *platform.ContractFetchInfo)
}
