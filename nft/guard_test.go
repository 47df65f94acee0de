package nft

import (
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"
)

func TestGuards(t *testing.T) {
	require := require.New(t)
	creator, stranger := types.NewAccount().PublicKey, types.NewAccount().PublicKey
	config, token := types.NewAccount().PublicKey, types.NewAccount().PublicKey
	cfg := &NftConfiguration{Creator: creator}

	require.Nil(RequireCreator(cfg, creator))
	require.ErrorIs(RequireCreator(cfg, stranger), ErrUnauthorized)
	require.Nil(RequireManager(cfg, creator))
	require.ErrorIs(RequireManager(cfg, stranger), ErrInvalidManager)
	require.False(errors.Is(ErrInvalidManager, ErrUnauthorized))

	ca := &CollectionAuthority{Authority: config}
	require.Nil(RequireAuthorityMatch(ca, config))
	require.ErrorIs(RequireAuthorityMatch(ca, stranger), ErrInvalidCollectionAuthority)
	require.ErrorIs(RequireCollectionTokenMatch(ca, token), ErrInvalidCollectionMint)
	ca.CollectionToken = token
	require.Nil(RequireCollectionTokenMatch(ca, token))
	require.ErrorIs(RequireCollectionTokenMatch(ca, stranger), ErrInvalidCollectionMint)
}

func TestErrors(t *testing.T) {
	require := require.New(t)
	require.Equal(ErrInvalidTokenId, ErrorByCode(6004))
	require.Nil(ErrorByCode(7000))
	require.Equal("Error Code: Unauthorized. Error Number: 6000. Error Message: You are not authorized to perform this action.", ErrUnauthorized.Error())
}

func TestRecords(t *testing.T) {
	require := require.New(t)
	cfg := &NftConfiguration{
		Creator: types.NewAccount().PublicKey,
		Name:    "Dogs",
		Symbol:  "DOG",
		BaseURI: "https://x/",
		Price:   1000000,
		Bump:    254,
	}
	decoded, err := DecodeNftConfiguration(cfg.Marshal())
	require.Nil(err)
	require.Equal(cfg, decoded)

	ca := &CollectionAuthority{Authority: types.NewAccount().PublicKey, Bump: 253}
	data := ca.Marshal()
	require.LessOrEqual(len(data), CollectionAuthoritySize)
	_, err = DecodeNftConfiguration(data)
	require.NotNil(err)
	decoded2, err := DecodeCollectionAuthority(data)
	require.Nil(err)
	require.Equal(ca, decoded2)
	require.False(decoded2.Minted())
}
