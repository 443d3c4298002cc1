package unittest

import (
	crand "crypto/rand"
	"fmt"
	"math/rand"

	"github.com/driveabci/blockstate/model/platform"
)

func IdentifierFixture() platform.Identifier {
	var id platform.Identifier
	_, _ = crand.Read(id[:])
	return id
}

// IdentifierListFixture returns a list of n random identifiers.
func IdentifierListFixture(n int) []platform.Identifier {
	list := make([]platform.Identifier, n)
	for i := range list {
		list[i] = IdentifierFixture()
	}
	return list
}

func WithContractVersion(version uint32) func(*platform.Contract) {
	return func(contract *platform.Contract) {
		contract.Version = version
	}
}

func WithOwner(ownerID platform.Identifier) func(*platform.Contract) {
	return func(contract *platform.Contract) {
		contract.OwnerID = ownerID
	}
}

func WithKeywords(keywords ...string) func(*platform.Contract) {
	return func(contract *platform.Contract) {
		contract.Keywords = keywords
	}
}

// ContractFixture returns a contract with a random ID, owner and schema.
func ContractFixture(opts ...func(*platform.Contract)) *platform.Contract {
	contract := &platform.Contract{
		ID:       IdentifierFixture(),
		OwnerID:  IdentifierFixture(),
		Version:  1,
		Schema:   []byte(fmt.Sprintf(`{"note":{"type":"object","properties":{"message":{"type":"string","position":%d}}}}`, rand.Intn(100))),
		Keywords: []string{"fixture"},
	}
	for _, apply := range opts {
		apply(contract)
	}
	return contract
}

// ContractFetchInfoFixture returns the cached form of a random contract.
func ContractFetchInfoFixture(opts ...func(*platform.Contract)) *platform.ContractFetchInfo {
	contract := ContractFixture(opts...)
	return &platform.ContractFetchInfo{
		Contract:    contract,
		StorageSize: uint64(len(contract.Schema)),
	}
}

// CompatibilityMapFixture returns a map for versions 1 to latest in which
// every version only accepts peers running the same or the previous version.
func CompatibilityMapFixture(latest platform.Version) platform.CompatibilityMap {
	m := make(platform.CompatibilityMap, latest)
	for v := platform.Version(1); v <= latest; v++ {
		if v == 1 {
			m[v] = 1
			continue
		}
		m[v] = v - 1
	}
	return m
}
