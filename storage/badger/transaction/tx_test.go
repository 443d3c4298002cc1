package transaction_test

import (
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveabci/blockstate/storage"
	"github.com/driveabci/blockstate/storage/badger/operation"
	"github.com/driveabci/blockstate/storage/badger/transaction"
	"github.com/driveabci/blockstate/utils/unittest"
)

func TestTx_Commit(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		var order []string
		tx := transaction.Begin(db)
		tx.OnSucceed(func() { order = append(order, "first") })
		tx.OnSucceed(func() { order = append(order, "second") })
		tx.OnDiscard(func() { order = append(order, "discarded") })

		require.NoError(t, transaction.WithTx(operation.UpsertProtocolVersionCount(1, 3))(tx))

		// uncommitted writes are invisible outside the unit of work
		var count uint64
		err := db.View(operation.RetrieveProtocolVersionCount(1, &count))
		require.ErrorIs(t, err, storage.ErrNotFound)

		// and visible inside
		require.NoError(t, operation.RetrieveProtocolVersionCount(1, &count)(tx.DBTxn))
		assert.Equal(t, uint64(3), count)

		require.NoError(t, tx.Commit())
		assert.Equal(t, []string{"first", "second"}, order)

		require.NoError(t, db.View(operation.RetrieveProtocolVersionCount(1, &count)))
		assert.Equal(t, uint64(3), count)

		// finishing twice is not allowed, discarding afterwards is a no-op
		require.Error(t, tx.Commit())
		tx.Discard()
		assert.Equal(t, []string{"first", "second"}, order)
	})
}

func TestTx_Discard(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		discarded := 0
		tx := transaction.Begin(db)
		tx.OnSucceed(func() { t.Fatal("unit of work must not succeed") })
		tx.OnDiscard(func() { discarded++ })

		require.NoError(t, transaction.WithTx(operation.UpsertProtocolVersionCount(1, 3))(tx))
		tx.Discard()
		tx.Discard()
		assert.Equal(t, 1, discarded)

		var count uint64
		err := db.View(operation.RetrieveProtocolVersionCount(1, &count))
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestTx_CommitConflict(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		discarded := false
		tx := transaction.Begin(db)
		tx.OnDiscard(func() { discarded = true })

		// read then write a key that someone else commits in between
		var count uint64
		err := operation.RetrieveProtocolVersionCount(1, &count)(tx.DBTxn)
		require.ErrorIs(t, err, storage.ErrNotFound)
		require.NoError(t, db.Update(operation.UpsertProtocolVersionCount(1, 5)))
		require.NoError(t, transaction.WithTx(operation.UpsertProtocolVersionCount(1, 1))(tx))

		err = tx.Commit()
		require.ErrorIs(t, err, badger.ErrConflict)
		assert.True(t, discarded)
	})
}

func TestUpdate(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		exception := errors.New("exception")
		err := transaction.Update(db, func(tx *transaction.Tx) error {
			err := transaction.WithTx(operation.UpsertProtocolVersionCount(2, 1))(tx)
			require.NoError(t, err)
			return exception
		})
		require.ErrorIs(t, err, exception)

		var count uint64
		err = db.View(operation.RetrieveProtocolVersionCount(2, &count))
		require.ErrorIs(t, err, storage.ErrNotFound)

		err = transaction.Update(db, transaction.WithTx(operation.UpsertProtocolVersionCount(2, 1)))
		require.NoError(t, err)
		require.NoError(t, db.View(operation.RetrieveProtocolVersionCount(2, &count)))
		assert.Equal(t, uint64(1), count)
	})
}
