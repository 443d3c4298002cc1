package operation

import (
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v4"

	"github.com/driveabci/blockstate/model/platform"
	"github.com/driveabci/blockstate/utils/unittest"
)

func TestCodec_Compressed(t *testing.T) {
	contract := unittest.ContractFixture(unittest.WithKeywords("a", "b"))

	val, err := encodeEntity(contract)
	require.NoError(t, err)

	raw, err := msgpack.Marshal(contract)
	require.NoError(t, err)
	uncompressed, err := snappy.Decode(nil, val)
	require.NoError(t, err)
	assert.Equal(t, raw, uncompressed)

	var decoded platform.Contract
	require.NoError(t, decodeValue(val, &decoded))
	assert.Equal(t, *contract, decoded)
}

func TestCodec_UncompressedValue(t *testing.T) {
	raw, err := msgpack.Marshal(uint64(1 << 40))
	require.NoError(t, err)

	var count uint64
	err = decodeValue(raw, &count)
	require.Error(t, err)
	assert.True(t, isErrUncompressedValue(err))
}

func TestCodec_CompressionDisabled(t *testing.T) {
	setCompressDisabled()
	defer func() { compressEnabled = true }()

	val, err := encodeEntity(uint64(42))
	require.NoError(t, err)

	raw, err := msgpack.Marshal(uint64(42))
	require.NoError(t, err)
	assert.Equal(t, raw, val)

	var count uint64
	require.NoError(t, decodeValue(val, &count))
	assert.Equal(t, uint64(42), count)
}
