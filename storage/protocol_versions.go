package storage

import (
	"github.com/driveabci/blockstate/model/platform"
	"github.com/driveabci/blockstate/storage/badger/transaction"
)

// ProtocolVersions persists the protocol upgrade tally and the vote of every
// validator backing it.
type ProtocolVersions interface {
	// RetrieveCounts reads every persisted version counter from committed state.
	// No errors are expected during normal operation.
	RetrieveCounts() (map[platform.Version]uint64, error)

	// StoreCount writes the counter of a version as part of the unit of work.
	// No errors are expected during normal operation.
	StoreCount(tx *transaction.Tx, version platform.Version, count uint64) error

	// VoteOf returns the version a validator votes for, as seen by the unit of
	// work, including its own uncommitted writes. A nil unit of work reads
	// committed state.
	// Error returns:
	//   - storage.ErrNotFound if the validator never voted
	VoteOf(tx *transaction.Tx, validatorID platform.Identifier) (platform.Version, error)

	// StoreVote writes the vote of a validator as part of the unit of work.
	// No errors are expected during normal operation.
	StoreVote(tx *transaction.Tx, validatorID platform.Identifier, version platform.Version) error

	// CountsFromVotes reduces the committed validator votes into per-version
	// counts. Versions without any current vote are absent.
	// No errors are expected during normal operation.
	CountsFromVotes() (map[platform.Version]uint64, error)
}
