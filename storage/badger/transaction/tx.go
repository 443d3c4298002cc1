package transaction

import (
	"fmt"

	dbbadger "github.com/dgraph-io/badger/v2"
)

// Tx is a unit of work: a read-write badger transaction plus callbacks that
// run once it is known whether the transaction was committed.
//
// NOT CONCURRENCY SAFE
type Tx struct {
	DBTxn     *dbbadger.Txn
	callbacks []func()
	onDiscard []func()
	done      bool
}

// Begin opens a read-write unit of work on db. It must be finished with
// exactly one call to Commit or Discard.
func Begin(db *dbbadger.DB) *Tx {
	return &Tx{DBTxn: db.NewTransaction(true)}
}

// OnSucceed adds a callback to execute after the unit of work has been
// successfully committed. Callbacks run in the order they were added.
func (tx *Tx) OnSucceed(callback func()) {
	tx.callbacks = append(tx.callbacks, callback)
}

// OnDiscard adds a callback to execute when the unit of work is thrown away,
// either explicitly or because committing it failed.
func (tx *Tx) OnDiscard(callback func()) {
	tx.onDiscard = append(tx.onDiscard, callback)
}

// Commit persists every write of the unit of work atomically. On success the
// OnSucceed callbacks run, otherwise the OnDiscard callbacks.
func (tx *Tx) Commit() error {
	if tx.done {
		return fmt.Errorf("unit of work already finished")
	}
	tx.done = true

	err := tx.DBTxn.Commit()
	if err != nil {
		tx.DBTxn.Discard()
		for _, callback := range tx.onDiscard {
			callback()
		}
		return fmt.Errorf("could not commit unit of work: %w", err)
	}

	for _, callback := range tx.callbacks {
		callback()
	}
	return nil
}

// Discard drops every write of the unit of work and runs the OnDiscard
// callbacks. Discarding a finished unit of work is a no-op.
func (tx *Tx) Discard() {
	if tx.done {
		return
	}
	tx.done = true

	tx.DBTxn.Discard()
	for _, callback := range tx.onDiscard {
		callback()
	}
}

// Update runs f in a new unit of work and commits it if f succeeds.
func Update(db *dbbadger.DB, f func(*Tx) error) error {
	tx := Begin(db)
	err := f(tx)
	if err != nil {
		tx.Discard()
		return err
	}
	return tx.Commit()
}

// WithTx adapts a badger functor to run inside a unit of work.
func WithTx(op func(*dbbadger.Txn) error) func(*Tx) error {
	return func(tx *Tx) error {
		return op(tx.DBTxn)
	}
}
