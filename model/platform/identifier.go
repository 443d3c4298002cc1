package platform

import (
	"encoding/hex"
	"fmt"
)

// IdentifierLen is the length of an Identifier in bytes.
const IdentifierLen = 32

// Identifier is a 32-byte content identifier. It names data contracts and
// validators (the validator's pro-tx hash) alike.
type Identifier [IdentifierLen]byte

// ZeroID is the lowest value in the 32-byte ID space.
var ZeroID = Identifier{}

// HexStringToIdentifier converts a hex string to an identifier. The input
// must be 64 characters long and contain only valid hex characters.
func HexStringToIdentifier(hexString string) (Identifier, error) {
	var identifier Identifier
	if len(hexString) != hex.EncodedLen(IdentifierLen) {
		return identifier, fmt.Errorf("malformed input, expected %d characters, got %d", hex.EncodedLen(IdentifierLen), len(hexString))
	}
	_, err := hex.Decode(identifier[:], []byte(hexString))
	if err != nil {
		return identifier, err
	}
	return identifier, nil
}

// MustHexStringToIdentifier converts a hex string to an identifier and panics
// on malformed input. Only meant for constants and tests.
func MustHexStringToIdentifier(hexString string) Identifier {
	id, err := HexStringToIdentifier(hexString)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the hex string representation of the identifier.
func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero returns true when the identifier equals ZeroID.
func (id Identifier) IsZero() bool {
	return id == ZeroID
}

func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identifier) UnmarshalText(text []byte) error {
	var err error
	*id, err = HexStringToIdentifier(string(text))
	return err
}
