package operation

import (
	"math"
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveabci/blockstate/model/platform"
	"github.com/driveabci/blockstate/storage"
	"github.com/driveabci/blockstate/utils/unittest"
)

func TestProtocolVersionCount(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		var count uint64
		err := db.View(RetrieveProtocolVersionCount(1, &count))
		require.ErrorIs(t, err, storage.ErrNotFound)

		// counts must survive the encoding across the full range
		for _, expected := range []uint64{0, 1, 127, 128, 1 << 32, math.MaxUint64} {
			require.NoError(t, db.Update(UpsertProtocolVersionCount(1, expected)))

			err = db.View(RetrieveProtocolVersionCount(1, &count))
			require.NoError(t, err)
			assert.Equal(t, expected, count)
		}
	})
}

func TestTraverseProtocolVersionCounts(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		expected := map[platform.Version]uint64{1: 4, 2: 0, 7: 11, math.MaxUint32: 1}
		for version, count := range expected {
			require.NoError(t, db.Update(UpsertProtocolVersionCount(version, count)))
		}
		// votes share no prefix with counts
		require.NoError(t, db.Update(UpsertValidatorVote(unittest.IdentifierFixture(), 3)))

		actual := make(map[platform.Version]uint64)
		require.NoError(t, db.View(TraverseProtocolVersionCounts(actual)))
		assert.Equal(t, expected, actual)
	})
}

func TestValidatorVotes(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		validators := unittest.IdentifierListFixture(3)

		var version platform.Version
		err := db.View(RetrieveValidatorVote(validators[0], &version))
		require.ErrorIs(t, err, storage.ErrNotFound)

		expected := make(map[platform.Identifier]platform.Version)
		for i, validator := range validators {
			expected[validator] = platform.Version(i + 1)
			require.NoError(t, db.Update(UpsertValidatorVote(validator, platform.Version(i+1))))
		}

		// a validator moving its vote overwrites the record
		expected[validators[0]] = 5
		require.NoError(t, db.Update(UpsertValidatorVote(validators[0], 5)))

		err = db.View(RetrieveValidatorVote(validators[0], &version))
		require.NoError(t, err)
		assert.Equal(t, platform.Version(5), version)

		actual := make(map[platform.Identifier]platform.Version)
		require.NoError(t, db.View(TraverseValidatorVotes(actual)))
		assert.Equal(t, expected, actual)
	})
}
