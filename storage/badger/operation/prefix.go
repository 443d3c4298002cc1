package operation

import (
	"encoding/binary"
	"fmt"

	"github.com/driveabci/blockstate/model/platform"
)

const (
	// codes for the protocol upgrade tally
	codeProtocolVersionCount = 10 // version → number of validators voting for it
	codeValidatorVote        = 11 // validator → version it currently votes for

	// codes for derived objects
	codeContract = 20 // contract ID → contract record
)

func makePrefix(code byte, keys ...interface{}) []byte {
	prefix := make([]byte, 1)
	prefix[0] = code
	for _, key := range keys {
		prefix = append(prefix, b(key)...)
	}
	return prefix
}

func b(v interface{}) []byte {
	switch i := v.(type) {
	case uint8:
		return []byte{i}
	case uint32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, i)
		return b
	case uint64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, i)
		return b
	case platform.Version:
		return b(uint32(i))
	case platform.Identifier:
		return i[:]
	default:
		panic(fmt.Sprintf("unsupported type to convert (%T)", v))
	}
}

// versionFromKey parses the version out of a key created with
// makePrefix(code, version).
func versionFromKey(key []byte) (platform.Version, error) {
	if len(key) != 1+4 {
		return 0, fmt.Errorf("unexpected key length %d for version key", len(key))
	}
	return platform.Version(binary.BigEndian.Uint32(key[1:])), nil
}

// identifierFromKey parses the identifier out of a key created with
// makePrefix(code, identifier).
func identifierFromKey(key []byte) (platform.Identifier, error) {
	var id platform.Identifier
	if len(key) != 1+platform.IdentifierLen {
		return id, fmt.Errorf("unexpected key length %d for identifier key", len(key))
	}
	copy(id[:], key[1:])
	return id, nil
}
