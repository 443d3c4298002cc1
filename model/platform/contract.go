package platform

// Contract is a data contract as persisted by the state machine. The schema is
// kept in its serialized form; parsing it is the expensive step the contract
// cache exists to avoid.
type Contract struct {
	ID       Identifier
	OwnerID  Identifier
	Version  uint32
	Schema   []byte
	Keywords []string
}

// ContractFetchInfo is the derived object held in the contract cache: the
// contract together with the bookkeeping needed to charge for fetching it.
type ContractFetchInfo struct {
	Contract *Contract
	// StorageSize is the size in bytes of the stored record.
	StorageSize uint64
}

// ID returns the identifier of the wrapped contract.
func (f *ContractFetchInfo) ID() Identifier {
	return f.Contract.ID
}
