package pda

import (
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	TagConfiguration = "nft_pda"
	TagCollection    = "collection_pda"
	TagMint          = "mint_pda"
)

var ErrAddressMismatch = errors.New("address mismatch")

type derivation struct {
	address common.PublicKey
	bump    uint8
}

// Deriver maps a (tag, owner) pair to the canonical program address of one
// program. Results are pure, so they are kept in a bounded cache.
type Deriver struct {
	program common.PublicKey
	cache   *lru.Cache[string, derivation]
}

func NewDeriver(program common.PublicKey, cacheSize int) *Deriver {
	if cacheSize < 1 {
		cacheSize = 1
	}
	cache, err := lru.New[string, derivation](cacheSize)
	if err != nil {
		panic(err)
	}
	return &Deriver{program: program, cache: cache}
}

func (d *Deriver) Program() common.PublicKey {
	return d.program
}

func (d *Deriver) Derive(tag string, owner common.PublicKey) (common.PublicKey, uint8, error) {
	return d.find(tag, owner, nil)
}

// DeriveMint is the address of the token mint labelled label under the
// configuration config. Only the program can sign for it.
func (d *Deriver) DeriveMint(config common.PublicKey, label string) (common.PublicKey, uint8, error) {
	return d.find(TagMint, config, []byte(label))
}

func (d *Deriver) find(tag string, owner common.PublicKey, label []byte) (common.PublicKey, uint8, error) {
	key := tag + ":" + owner.ToBase58() + ":" + string(label)
	if dv, ok := d.cache.Get(key); ok {
		return dv.address, dv.bump, nil
	}
	addr, bump, err := common.FindProgramAddress(seeds(tag, owner, label), d.program)
	if err != nil {
		return common.PublicKey{}, 0, fmt.Errorf("derive %s %s: %w", tag, owner.ToBase58(), err)
	}
	d.cache.Add(key, derivation{address: addr, bump: bump})
	return addr, bump, nil
}

// Verify returns the canonical bump of expected, or ErrAddressMismatch when
// expected is not the address derived from tag and owner.
func (d *Deriver) Verify(expected common.PublicKey, tag string, owner common.PublicKey) (uint8, error) {
	return d.verify(expected, tag, owner, nil)
}

func (d *Deriver) verify(expected common.PublicKey, tag string, owner common.PublicKey, label []byte) (uint8, error) {
	addr, bump, err := d.find(tag, owner, label)
	if err != nil {
		return 0, err
	}
	if addr != expected {
		return 0, fmt.Errorf("%w: %s is not %s of %s", ErrAddressMismatch, expected.ToBase58(), tag, owner.ToBase58())
	}
	return bump, nil
}

// Authority proves control of expected and returns the signing capability.
func (d *Deriver) Authority(expected common.PublicKey, tag string, owner common.PublicKey) (*DerivedAuthority, error) {
	return d.authority(expected, tag, owner, nil)
}

func (d *Deriver) MintAuthority(expected, config common.PublicKey, label string) (*DerivedAuthority, error) {
	return d.authority(expected, TagMint, config, []byte(label))
}

func (d *Deriver) authority(expected common.PublicKey, tag string, owner common.PublicKey, label []byte) (*DerivedAuthority, error) {
	bump, err := d.verify(expected, tag, owner, label)
	if err != nil {
		return nil, err
	}
	return &DerivedAuthority{
		seeds:   seeds(tag, owner, label),
		bump:    bump,
		address: expected,
	}, nil
}

func seeds(tag string, owner common.PublicKey, label []byte) [][]byte {
	s := [][]byte{[]byte(tag), owner.Bytes()}
	if len(label) > 0 {
		s = append(s, label)
	}
	return s
}
