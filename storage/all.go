package storage

// All includes all the storage modules
type All struct {
	ProtocolVersions ProtocolVersions
	Contracts        Contracts
}
