package operation

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/driveabci/blockstate/model/platform"
)

// UpsertProtocolVersionCount persists the number of validators voting for
// version. Counters are never removed, a count of zero is stored as such.
// No errors are expected during normal operation.
func UpsertProtocolVersionCount(version platform.Version, count uint64) func(*badger.Txn) error {
	return upsert(makePrefix(codeProtocolVersionCount, version), count)
}

// RetrieveProtocolVersionCount reads the persisted counter of version.
// Error returns:
//   - storage.ErrNotFound if version never received a vote
func RetrieveProtocolVersionCount(version platform.Version, count *uint64) func(*badger.Txn) error {
	return retrieve(makePrefix(codeProtocolVersionCount, version), count)
}

// TraverseProtocolVersionCounts reads every persisted counter into counts.
// No errors are expected during normal operation.
func TraverseProtocolVersionCounts(counts map[platform.Version]uint64) func(*badger.Txn) error {
	return traverse(makePrefix(codeProtocolVersionCount), func() (checkFunc, createFunc, handleFunc) {
		var version platform.Version
		var keyErr error
		check := func(key []byte) bool {
			version, keyErr = versionFromKey(key)
			return true
		}
		var count uint64
		create := func() interface{} {
			return &count
		}
		handle := func() error {
			if keyErr != nil {
				return fmt.Errorf("malformed protocol version count key: %w", keyErr)
			}
			counts[version] = count
			return nil
		}
		return check, create, handle
	})
}

// UpsertValidatorVote persists the version a validator currently votes for.
// No errors are expected during normal operation.
func UpsertValidatorVote(validatorID platform.Identifier, version platform.Version) func(*badger.Txn) error {
	return upsert(makePrefix(codeValidatorVote, validatorID), version)
}

// RetrieveValidatorVote reads the version a validator currently votes for.
// Error returns:
//   - storage.ErrNotFound if the validator never voted
func RetrieveValidatorVote(validatorID platform.Identifier, version *platform.Version) func(*badger.Txn) error {
	return retrieve(makePrefix(codeValidatorVote, validatorID), version)
}

// TraverseValidatorVotes reads every persisted validator vote into votes.
// No errors are expected during normal operation.
func TraverseValidatorVotes(votes map[platform.Identifier]platform.Version) func(*badger.Txn) error {
	return traverse(makePrefix(codeValidatorVote), func() (checkFunc, createFunc, handleFunc) {
		var validatorID platform.Identifier
		var keyErr error
		check := func(key []byte) bool {
			validatorID, keyErr = identifierFromKey(key)
			return true
		}
		var version platform.Version
		create := func() interface{} {
			return &version
		}
		handle := func() error {
			if keyErr != nil {
				return fmt.Errorf("malformed validator vote key: %w", keyErr)
			}
			votes[validatorID] = version
			return nil
		}
		return check, create, handle
	})
}
