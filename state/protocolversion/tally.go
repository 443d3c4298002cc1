package protocolversion

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/driveabci/blockstate/model/platform"
	"github.com/driveabci/blockstate/module"
	"github.com/driveabci/blockstate/storage/badger/transaction"
)

// Store is the persisted side of the tally: one counter per version that has
// ever received a vote.
type Store interface {
	// RetrieveCounts reads every persisted counter from committed state.
	// No errors are expected during normal operation.
	RetrieveCounts() (map[platform.Version]uint64, error)

	// StoreCount writes the counter of a version as part of the given unit
	// of work. No errors are expected during normal operation.
	StoreCount(tx *transaction.Tx, version platform.Version, count uint64) error
}

// Tally is the in-memory mirror of the persisted vote counters. It is
// hydrated from the store on first use and stays resident afterwards.
//
// Changes recorded during a unit of work are staged until Commit or Discard,
// so the mirror follows the store when a block is rolled back. At most one
// unit of work records votes at a time.
type Tally struct {
	log     zerolog.Logger
	metrics module.ProtocolVersionMetrics
	store   Store

	mu       sync.RWMutex
	hydrated bool
	counts   map[platform.Version]uint64
	// staged holds the counters changed by the current unit of work.
	staged map[platform.Version]uint64
}

// NewTally creates a tally backed by store. Nothing is read until first use.
func NewTally(log zerolog.Logger, metrics module.ProtocolVersionMetrics, store Store) *Tally {
	return &Tally{
		log:     log.With().Str("component", "protocol_version_tally").Logger(),
		metrics: metrics,
		store:   store,
		staged:  make(map[platform.Version]uint64),
	}
}

// hydrate loads the counters from the store unless already done.
// Caller must hold the write lock.
func (t *Tally) hydrate() error {
	if t.hydrated {
		return nil
	}

	counts, err := t.store.RetrieveCounts()
	if err != nil {
		return fmt.Errorf("could not retrieve protocol version counts: %w", err)
	}
	if counts == nil {
		counts = make(map[platform.Version]uint64)
	}

	t.counts = counts
	t.hydrated = true

	for version, count := range counts {
		t.metrics.ProtocolVersionVotes(uint32(version), count)
	}
	t.log.Debug().Int("versions", len(counts)).Msg("protocol version tally hydrated")

	return nil
}

// lookup returns the count of a version as seen by the current unit of work.
// Caller must hold a lock.
func (t *Tally) lookup(version platform.Version) (uint64, bool) {
	if count, ok := t.staged[version]; ok {
		return count, true
	}
	count, ok := t.counts[version]
	return count, ok
}

// RecordVote moves the vote of a validator to newVersion. previous is the
// version the validator voted for before, as read from its persisted vote
// record by the caller within the same unit of work; nil if it never voted.
//
// Every changed counter is written through tx. It returns whether anything
// changed: a validator repeating its vote changes nothing and writes nothing.
//
// Expected errors: none. Returned errors are fatal:
//   - *VoteCountUnderflowFailure if the previous version has no votes to remove
//   - *VoteCountOverflowFailure if newVersion cannot take another vote
//   - storage errors from hydration or persistence
//
// On error the tally is unchanged.
func (t *Tally) RecordVote(tx *transaction.Tx, validatorID platform.Identifier, newVersion platform.Version, previous *platform.Version) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.hydrate()
	if err != nil {
		return false, err
	}

	if previous != nil && *previous == newVersion {
		return false, nil
	}

	changes := make(map[platform.Version]uint64, 2)

	if previous != nil {
		count, ok := t.lookup(*previous)
		if !ok || count == 0 {
			return false, &VoteCountUnderflowFailure{Version: *previous, Present: ok}
		}
		changes[*previous] = count - 1
	}

	count, _ := t.lookup(newVersion)
	if count == math.MaxUint64 {
		return false, &VoteCountOverflowFailure{Version: newVersion}
	}
	changes[newVersion] = count + 1

	for version, count := range changes {
		err = t.store.StoreCount(tx, version, count)
		if err != nil {
			return false, fmt.Errorf("could not store count of protocol version %d: %w", version, err)
		}
	}

	for version, count := range changes {
		t.staged[version] = count
	}

	t.log.Debug().
		Str("validator_id", validatorID.String()).
		Uint32("version", uint32(newVersion)).
		Msg("protocol version vote recorded")

	return true, nil
}

// CountFor returns the number of votes for version, or zero if it never
// received one. Votes staged by an in-progress unit of work are included.
func (t *Tally) CountFor(version platform.Version) (uint64, error) {
	err := t.ensureHydrated()
	if err != nil {
		return 0, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	count, _ := t.lookup(version)
	return count, nil
}

// Counts returns a snapshot of every counter, including explicit zeros.
func (t *Tally) Counts() (map[platform.Version]uint64, error) {
	err := t.ensureHydrated()
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	snapshot := make(map[platform.Version]uint64, len(t.counts)+len(t.staged))
	for version, count := range t.counts {
		snapshot[version] = count
	}
	for version, count := range t.staged {
		snapshot[version] = count
	}
	return snapshot, nil
}

// Total returns the sum of all counters, which equals the number of
// validators that have voted.
func (t *Tally) Total() (uint64, error) {
	counts, err := t.Counts()
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, count := range counts {
		total += count
	}
	return total, nil
}

// Winner returns the highest version whose votes exceed thresholdPercent of
// validatorCount. The required number of votes is
// 1 + validatorCount*thresholdPercent/100.
func (t *Tally) Winner(validatorCount uint64, thresholdPercent uint64) (platform.Version, bool, error) {
	counts, err := t.Counts()
	if err != nil {
		return 0, false, err
	}

	required := 1 + validatorCount*thresholdPercent/100

	versions := make([]platform.Version, 0, len(counts))
	for version := range counts {
		versions = append(versions, version)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] > versions[j] })

	for _, version := range versions {
		if counts[version] >= required {
			return version, true, nil
		}
	}
	return 0, false, nil
}

// Commit makes the changes staged by the current unit of work resident. It
// must only be called after the unit of work was persisted.
func (t *Tally) Commit() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for version, count := range t.staged {
		t.counts[version] = count
		t.metrics.ProtocolVersionVotes(uint32(version), count)
	}
	t.staged = make(map[platform.Version]uint64)
}

// Discard drops the changes staged by the current unit of work, matching the
// store rolling back the writes made through it.
func (t *Tally) Discard() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.staged) > 0 {
		t.log.Debug().Int("versions", len(t.staged)).Msg("discarding staged protocol version votes")
	}
	t.staged = make(map[platform.Version]uint64)
}

func (t *Tally) ensureHydrated() error {
	t.mu.RLock()
	hydrated := t.hydrated
	t.mu.RUnlock()
	if hydrated {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hydrate()
}
