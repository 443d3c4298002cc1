package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/driveabci/blockstate/model/platform"
)

// InsertContract persists a new contract record.
// Error returns:
//   - storage.ErrAlreadyExists if a contract with the same ID exists
func InsertContract(contract *platform.Contract) func(*badger.Txn) error {
	return insert(makePrefix(codeContract, contract.ID), contract)
}

// UpdateContract overwrites the record of a contract, creating it if needed.
// No errors are expected during normal operation.
func UpdateContract(contract *platform.Contract) func(*badger.Txn) error {
	return upsert(makePrefix(codeContract, contract.ID), contract)
}

// RetrieveContract reads the record of a contract.
// Error returns:
//   - storage.ErrNotFound if no contract with the given ID exists
func RetrieveContract(contractID platform.Identifier, contract *platform.Contract) func(*badger.Txn) error {
	return retrieve(makePrefix(codeContract, contractID), contract)
}

// ContractExists checks whether a contract record exists.
// No errors are expected during normal operation.
func ContractExists(contractID platform.Identifier, contractExists *bool) func(*badger.Txn) error {
	return exists(makePrefix(codeContract, contractID), contractExists)
}
