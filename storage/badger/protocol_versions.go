package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/driveabci/blockstate/model/platform"
	"github.com/driveabci/blockstate/storage"
	"github.com/driveabci/blockstate/storage/badger/operation"
	"github.com/driveabci/blockstate/storage/badger/transaction"
)

// ProtocolVersions implements storage.ProtocolVersions on badger. It is the
// persisted side of the protocol upgrade tally.
type ProtocolVersions struct {
	db *badger.DB
}

var _ storage.ProtocolVersions = (*ProtocolVersions)(nil)

func NewProtocolVersions(db *badger.DB) *ProtocolVersions {
	return &ProtocolVersions{db: db}
}

func (p *ProtocolVersions) RetrieveCounts() (map[platform.Version]uint64, error) {
	counts := make(map[platform.Version]uint64)
	err := p.db.View(operation.TraverseProtocolVersionCounts(counts))
	if err != nil {
		return nil, fmt.Errorf("could not traverse protocol version counts: %w", err)
	}
	return counts, nil
}

func (p *ProtocolVersions) StoreCount(tx *transaction.Tx, version platform.Version, count uint64) error {
	err := operation.UpsertProtocolVersionCount(version, count)(tx.DBTxn)
	if err != nil {
		return fmt.Errorf("could not store count of protocol version %d: %w", version, err)
	}
	return nil
}

func (p *ProtocolVersions) VoteOf(tx *transaction.Tx, validatorID platform.Identifier) (platform.Version, error) {
	var version platform.Version
	var err error
	if tx != nil {
		err = operation.RetrieveValidatorVote(validatorID, &version)(tx.DBTxn)
	} else {
		err = p.db.View(operation.RetrieveValidatorVote(validatorID, &version))
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("could not retrieve vote of validator %v: %w", validatorID, err)
	}
	return version, nil
}

func (p *ProtocolVersions) StoreVote(tx *transaction.Tx, validatorID platform.Identifier, version platform.Version) error {
	err := operation.UpsertValidatorVote(validatorID, version)(tx.DBTxn)
	if err != nil {
		return fmt.Errorf("could not store vote of validator %v: %w", validatorID, err)
	}
	return nil
}

func (p *ProtocolVersions) CountsFromVotes() (map[platform.Version]uint64, error) {
	votes := make(map[platform.Identifier]platform.Version)
	err := p.db.View(operation.TraverseValidatorVotes(votes))
	if err != nil {
		return nil, fmt.Errorf("could not traverse validator votes: %w", err)
	}

	counts := make(map[platform.Version]uint64)
	for _, version := range votes {
		counts[version]++
	}
	return counts, nil
}
