package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/driveabci/blockstate/model/platform"
	"github.com/driveabci/blockstate/module"
	"github.com/driveabci/blockstate/module/irrecoverable"
	"github.com/driveabci/blockstate/state/protocolversion"
	"github.com/driveabci/blockstate/storage"
	"github.com/driveabci/blockstate/storage/badger/transaction"
	"github.com/driveabci/blockstate/storage/derived"
)

// ErrBlockInProgress is returned by Begin while another block has not been
// finalized or rejected yet.
var ErrBlockInProgress = errors.New("another block is in progress")

// Manager runs blocks one at a time. Each block gets a single unit of work
// on the database; the block-scoped overlays and the protocol version tally
// follow the outcome of that unit of work.
type Manager struct {
	log       zerolog.Logger
	metrics   module.BlockExecutionMetrics
	db        *badger.DB
	policy    *protocolversion.Policy
	tally     *protocolversion.Tally
	votes     storage.ProtocolVersions
	contracts storage.Contracts

	mu       sync.Mutex
	overlays []derived.Overlay
	active   *Block
}

// NewManager creates a session manager. Overlays holding block-scoped state
// must be added with Register before the first block begins.
func NewManager(
	log zerolog.Logger,
	metrics module.BlockExecutionMetrics,
	db *badger.DB,
	policy *protocolversion.Policy,
	tally *protocolversion.Tally,
	votes storage.ProtocolVersions,
	contracts storage.Contracts,
) *Manager {
	return &Manager{
		log:       log.With().Str("component", "block_session").Logger(),
		metrics:   metrics,
		db:        db,
		policy:    policy,
		tally:     tally,
		votes:     votes,
		contracts: contracts,
	}
}

// Register adds overlays to be merged when a block is finalized and
// discarded when it ends either way.
func (m *Manager) Register(overlays ...derived.Overlay) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overlays = append(m.overlays, overlays...)
}

// Begin opens the unit of work of the block at the given height.
// Expected errors:
//   - ErrBlockInProgress if the previous block was neither finalized nor rejected
func (m *Manager) Begin(height uint64) (*Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return nil, fmt.Errorf("could not begin block %d while block %d is active: %w", height, m.active.height, ErrBlockInProgress)
	}

	overlays := make([]derived.Overlay, len(m.overlays))
	copy(overlays, m.overlays)

	tx := transaction.Begin(m.db)
	tx.OnSucceed(func() {
		for _, overlay := range overlays {
			overlay.Merge()
			overlay.Discard()
		}
		m.tally.Commit()
	})
	tx.OnDiscard(func() {
		for _, overlay := range overlays {
			overlay.Discard()
		}
		m.tally.Discard()
	})

	block := &Block{
		manager: m,
		log:     m.log.With().Uint64("height", height).Logger(),
		height:  height,
		tx:      tx,
	}
	m.active = block

	block.log.Debug().Msg("block execution started")

	return block, nil
}

// Policy returns the version compatibility policy used to validate proposals.
func (m *Manager) Policy() *protocolversion.Policy {
	return m.policy
}

// Tally returns the protocol version tally.
func (m *Manager) Tally() *protocolversion.Tally {
	return m.tally
}

// Contract reads a contract from committed state, outside of any block.
// Error returns:
//   - storage.ErrNotFound if the contract does not exist
func (m *Manager) Contract(contractID platform.Identifier) (*platform.ContractFetchInfo, error) {
	return m.contracts.ByID(nil, contractID)
}

// ApplyUpgrade moves the current protocol version to the tally winner, if
// the winner is newer than the version in use. It returns the version in use
// afterwards and whether it changed. Must not be called while a block is active.
func (m *Manager) ApplyUpgrade(validatorCount uint64, thresholdPercent uint64) (platform.Version, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.policy.Current()
	if m.active != nil {
		return current, false, fmt.Errorf("could not apply upgrade during block %d: %w", m.active.height, ErrBlockInProgress)
	}

	winner, ok, err := m.tally.Winner(validatorCount, thresholdPercent)
	if err != nil {
		return current, false, irrecoverable.NewExceptionf("could not determine upgrade winner: %w", err)
	}
	if !ok || winner <= current {
		return current, false, nil
	}

	m.policy.SetCurrent(winner)
	m.log.Info().
		Uint32("previous_version", uint32(current)).
		Uint32("version", uint32(winner)).
		Msg("protocol version upgraded")

	return winner, true, nil
}

// release ends the active block.
func (m *Manager) release(block *Block) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == block {
		m.active = nil
	}
}
