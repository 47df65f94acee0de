package pda

import (
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"
)

var testProgram = common.PublicKeyFromString("As35BqTErxt7neUhzZik8P194q9zdFJmuzcLYu1BvpNh")

func TestDeriveDistinct(t *testing.T) {
	require := require.New(t)
	d := NewDeriver(testProgram, 16)

	c1, c2 := types.NewAccount().PublicKey, types.NewAccount().PublicKey
	a1, _, err := d.Derive(TagConfiguration, c1)
	require.Nil(err)
	a2, _, err := d.Derive(TagConfiguration, c2)
	require.Nil(err)
	require.NotEqual(a1, a2)

	b1, _, err := d.Derive(TagCollection, c1)
	require.Nil(err)
	require.NotEqual(a1, b1)
}

func TestDeriveReproducible(t *testing.T) {
	require := require.New(t)
	owner := types.NewAccount().PublicKey

	a1, bump1, err := NewDeriver(testProgram, 1).Derive(TagConfiguration, owner)
	require.Nil(err)
	a2, bump2, err := NewDeriver(testProgram, 0).Derive(TagConfiguration, owner)
	require.Nil(err)
	require.Equal(a1, a2)
	require.Equal(bump1, bump2)

	addr, bump, err := common.FindProgramAddress([][]byte{[]byte(TagConfiguration), owner.Bytes()}, testProgram)
	require.Nil(err)
	require.Equal(addr, a1)
	require.Equal(bump, bump1)
}

func TestVerify(t *testing.T) {
	require := require.New(t)
	d := NewDeriver(testProgram, 16)
	owner := types.NewAccount().PublicKey

	addr, bump, err := d.Derive(TagCollection, owner)
	require.Nil(err)
	vb, err := d.Verify(addr, TagCollection, owner)
	require.Nil(err)
	require.Equal(bump, vb)

	_, err = d.Verify(addr, TagConfiguration, owner)
	require.ErrorIs(err, ErrAddressMismatch)
	_, err = d.Verify(addr, TagCollection, types.NewAccount().PublicKey)
	require.ErrorIs(err, ErrAddressMismatch)
	_, err = NewDeriver(types.NewAccount().PublicKey, 16).Verify(addr, TagCollection, owner)
	require.ErrorIs(err, ErrAddressMismatch)
}

type seedRecorder struct {
	seeds [][]byte
}

func (sr *seedRecorder) SignWithSeeds(seeds ...[]byte) error {
	sr.seeds = seeds
	return nil
}

func TestDerivedAuthoritySignFor(t *testing.T) {
	require := require.New(t)
	d := NewDeriver(testProgram, 16)
	owner := types.NewAccount().PublicKey

	addr, _, err := d.Derive(TagConfiguration, owner)
	require.Nil(err)
	authority, err := d.Authority(addr, TagConfiguration, owner)
	require.Nil(err)
	require.Equal(addr, authority.Address())

	var sr seedRecorder
	require.Nil(authority.SignFor(&sr))
	require.Len(sr.seeds, 3)
	signed, err := common.CreateProgramAddress(sr.seeds, testProgram)
	require.Nil(err)
	require.Equal(addr, signed)

	_, err = d.Authority(types.NewAccount().PublicKey, TagConfiguration, owner)
	require.ErrorIs(err, ErrAddressMismatch)
}

func TestMintAuthority(t *testing.T) {
	require := require.New(t)
	d := NewDeriver(testProgram, 16)
	config := types.NewAccount().PublicKey

	m1, _, err := d.DeriveMint(config, "member:1")
	require.Nil(err)
	m2, _, err := d.DeriveMint(config, "member:2")
	require.Nil(err)
	require.NotEqual(m1, m2)
	cfg, _, err := d.Derive(TagMint, config)
	require.Nil(err)
	require.NotEqual(m1, cfg)

	authority, err := d.MintAuthority(m1, config, "member:1")
	require.Nil(err)
	var sr seedRecorder
	require.Nil(authority.SignFor(&sr))
	require.Len(sr.seeds, 4)
	signed, err := common.CreateProgramAddress(sr.seeds, testProgram)
	require.Nil(err)
	require.Equal(m1, signed)

	_, err = d.MintAuthority(m1, config, "member:2")
	require.ErrorIs(err, ErrAddressMismatch)
}
