package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/driveabci/blockstate/model/platform"
	"github.com/driveabci/blockstate/module"
	"github.com/driveabci/blockstate/module/metrics"
	"github.com/driveabci/blockstate/storage"
	"github.com/driveabci/blockstate/storage/badger/operation"
	"github.com/driveabci/blockstate/storage/badger/transaction"
	"github.com/driveabci/blockstate/storage/derived"
)

// DefaultContractCacheSize is the default capacity of the committed tier of
// the contract cache.
const DefaultContractCacheSize = 1000

// Contracts implements storage.Contracts on badger, reading through a
// two-tier contract cache.
type Contracts struct {
	db      *badger.DB
	metrics module.CacheMetrics
	cache   *derived.OverlayCache[platform.Identifier, *platform.ContractFetchInfo]
}

var _ storage.Contracts = (*Contracts)(nil)

func NewContracts(collector module.OverlayCacheMetrics, db *badger.DB, cacheSize int) (*Contracts, error) {
	cache, err := derived.NewOverlayCache[platform.Identifier, *platform.ContractFetchInfo](
		derived.WithLimit(cacheSize),
		derived.WithResource(metrics.ResourceContract),
		derived.WithMetrics(collector),
	)
	if err != nil {
		return nil, err
	}

	return &Contracts{
		db:      db,
		metrics: collector,
		cache:   cache,
	}, nil
}

// Cache returns the contract cache, so the block execution session can bind
// its overlay to the block boundary.
func (c *Contracts) Cache() *derived.OverlayCache[platform.Identifier, *platform.ContractFetchInfo] {
	return c.cache
}

func (c *Contracts) ByID(tx *transaction.Tx, contractID platform.Identifier) (*platform.ContractFetchInfo, error) {
	inBlock := tx != nil

	info, cached := c.cache.Get(contractID, inBlock)
	if cached {
		return info, nil
	}

	var contract platform.Contract
	var err error
	if inBlock {
		err = operation.RetrieveContract(contractID, &contract)(tx.DBTxn)
	} else {
		err = c.db.View(operation.RetrieveContract(contractID, &contract))
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.metrics.CacheNotFound(metrics.ResourceContract)
			return nil, err
		}
		return nil, fmt.Errorf("could not retrieve contract %v: %w", contractID, err)
	}
	c.metrics.CacheMiss(metrics.ResourceContract)

	info = fetchInfo(&contract)

	// what was read inside a block may depend on the block's own writes
	c.cache.Insert(contractID, info, inBlock)

	return info, nil
}

func (c *Contracts) Store(tx *transaction.Tx, contract *platform.Contract) (*platform.ContractFetchInfo, error) {
	err := operation.UpdateContract(contract)(tx.DBTxn)
	if err != nil {
		return nil, fmt.Errorf("could not store contract %v: %w", contract.ID, err)
	}

	info := fetchInfo(contract)
	c.cache.Insert(contract.ID, info, true)

	return info, nil
}

func (c *Contracts) CacheGlobally(info *platform.ContractFetchInfo) {
	c.cache.Insert(info.ID(), info, false)
}

func fetchInfo(contract *platform.Contract) *platform.ContractFetchInfo {
	size := uint64(len(contract.Schema)) + 2*platform.IdentifierLen + 4
	for _, keyword := range contract.Keywords {
		size += uint64(len(keyword))
	}
	return &platform.ContractFetchInfo{
		Contract:    contract,
		StorageSize: size,
	}
}
