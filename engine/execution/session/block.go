package session

import (
	"errors"
	"fmt"

	dbbadger "github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/driveabci/blockstate/model/platform"
	"github.com/driveabci/blockstate/module/irrecoverable"
	"github.com/driveabci/blockstate/state/protocolversion"
	"github.com/driveabci/blockstate/storage"
	"github.com/driveabci/blockstate/storage/badger/operation"
	"github.com/driveabci/blockstate/storage/badger/transaction"
)

// ErrBlockFinished is returned by every operation on a block that was
// already finalized or rejected.
var ErrBlockFinished = errors.New("block already finished")

// Block is the execution context of a single block. All writes go through
// one unit of work; reads see the block's own writes.
//
// NOT CONCURRENCY SAFE
type Block struct {
	manager  *Manager
	log      zerolog.Logger
	height   uint64
	tx       *transaction.Tx
	finished bool
}

// Height returns the height of the block.
func (b *Block) Height() uint64 {
	return b.height
}

// Contract returns a contract as seen by this block.
// Error returns:
//   - storage.ErrNotFound if the contract does not exist
//   - ErrBlockFinished
func (b *Block) Contract(contractID platform.Identifier) (*platform.ContractFetchInfo, error) {
	if b.finished {
		return nil, ErrBlockFinished
	}
	return b.manager.contracts.ByID(b.tx, contractID)
}

// StoreContract creates or updates a contract. The change is visible to
// this block immediately and to everyone else once the block is finalized.
func (b *Block) StoreContract(contract *platform.Contract) (*platform.ContractFetchInfo, error) {
	if b.finished {
		return nil, ErrBlockFinished
	}
	info, err := b.manager.contracts.Store(b.tx, contract)
	if err != nil {
		return nil, fmt.Errorf("could not store contract in block %d: %w", b.height, err)
	}
	return info, nil
}

// CacheGlobally caches a fetched contract for every reader, whatever the
// outcome of this block.
func (b *Block) CacheGlobally(info *platform.ContractFetchInfo) {
	b.manager.contracts.CacheGlobally(info)
}

// ProposeVersion records the protocol version a validator proposes in this
// block. A proposal the policy rejects is reported through the returned
// Outcome and changes nothing. The returned bool tells whether the tally
// changed.
//
// Returned errors are exceptions, except ErrBlockFinished.
func (b *Block) ProposeVersion(validatorID platform.Identifier, version platform.Version) (protocolversion.Outcome, bool, error) {
	if b.finished {
		return protocolversion.Outcome{}, false, ErrBlockFinished
	}

	outcome, err := b.manager.policy.Validate(version)
	if err != nil {
		return protocolversion.Outcome{}, false, irrecoverable.NewExceptionf("could not validate proposed version %d: %w", version, err)
	}
	if !outcome.Accepted() {
		b.log.Debug().
			Str("validator_id", validatorID.String()).
			Uint32("version", uint32(version)).
			Str("status", outcome.Status.String()).
			Msg("protocol version proposal rejected")
		return outcome, false, nil
	}

	var previous *platform.Version
	voted, err := b.manager.votes.VoteOf(b.tx, validatorID)
	switch {
	case err == nil:
		previous = &voted
	case errors.Is(err, storage.ErrNotFound):
	default:
		return outcome, false, irrecoverable.NewExceptionf("could not read previous vote of validator %v: %w", validatorID, err)
	}

	changed, err := b.manager.tally.RecordVote(b.tx, validatorID, version, previous)
	if err != nil {
		return outcome, false, irrecoverable.NewExceptionf("could not record vote of validator %v: %w", validatorID, err)
	}
	if !changed {
		return outcome, false, nil
	}

	err = b.manager.votes.StoreVote(b.tx, validatorID, version)
	if err != nil {
		return outcome, false, irrecoverable.NewExceptionf("could not store vote of validator %v: %w", validatorID, err)
	}

	return outcome, true, nil
}

// Apply runs a storage operation inside the unit of work of the block.
func (b *Block) Apply(op func(*dbbadger.Txn) error) error {
	if b.finished {
		return ErrBlockFinished
	}
	return transaction.WithTx(op)(b.tx)
}

// Finalize commits the unit of work. Only after it is persisted are the
// overlays merged into the committed cache tier and the staged tally votes
// made resident. If committing fails, the block is rolled back as if it
// had been rejected.
func (b *Block) Finalize() error {
	if b.finished {
		return ErrBlockFinished
	}
	b.finished = true
	defer b.manager.release(b)

	err := operation.TerminateOnFullDisk(b.tx.Commit())
	if err != nil {
		b.manager.metrics.BlockRejected(b.height)
		return fmt.Errorf("could not finalize block %d: %w", b.height, err)
	}

	b.manager.metrics.BlockFinalized(b.height)
	b.log.Debug().Msg("block finalized")

	return nil
}

// Reject throws away every change of the block. Rejecting a finished block
// is a no-op.
func (b *Block) Reject() {
	if b.finished {
		return
	}
	b.finished = true
	defer b.manager.release(b)

	b.tx.Discard()

	b.manager.metrics.BlockRejected(b.height)
	b.log.Debug().Msg("block rejected")
}
