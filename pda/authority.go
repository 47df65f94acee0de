package pda

import "github.com/blocto/solana-go-sdk/common"

// SeedSigner is one outgoing call that accepts program address signatures.
type SeedSigner interface {
	SignWithSeeds(seeds ...[]byte) error
}

// DerivedAuthority is a verified program address. The bump never leaves it,
// the only thing it can do is sign a call.
type DerivedAuthority struct {
	seeds   [][]byte
	bump    uint8
	address common.PublicKey
}

func (a *DerivedAuthority) Address() common.PublicKey {
	return a.address
}

func (a *DerivedAuthority) SignFor(call SeedSigner) error {
	seeds := append(append([][]byte{}, a.seeds...), []byte{a.bump})
	return call.SignWithSeeds(seeds...)
}
