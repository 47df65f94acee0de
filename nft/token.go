package nft

import (
	"github.com/MixinNetwork/pdamint/ledger"
	"github.com/MixinNetwork/pdamint/pda"
	"github.com/blocto/solana-go-sdk/common"
)

// Token is the set of accounts behind one issued non fungible token.
type Token struct {
	Mint          common.PublicKey
	Holding       common.PublicKey
	Metadata      common.PublicKey
	MasterEdition common.PublicKey
	Uri           string
}

func buildToken(mint, holder common.PublicKey, uri string) (*Token, error) {
	holding, _, err := common.FindAssociatedTokenAddress(holder, mint)
	if err != nil {
		return nil, err
	}
	metadata, err := ledger.MetadataAddress(mint)
	if err != nil {
		return nil, err
	}
	edition, err := ledger.MasterEditionAddress(mint)
	if err != nil {
		return nil, err
	}
	return &Token{
		Mint:          mint,
		Holding:       holding,
		Metadata:      metadata,
		MasterEdition: edition,
		Uri:           uri,
	}, nil
}

type issuance struct {
	token     *Token
	authority common.PublicKey
	mint      *pda.DerivedAuthority
	config    *pda.DerivedAuthority
	data      *ledger.MetadataData
	details   *ledger.CollectionDetails
}

// issue creates the mint, its holding account, one unit, the metadata and
// the master edition, in this order. The mint authority pays for all of it.
func issue(rt *ledger.Runtime, is *issuance) error {
	mint, authority := is.token.Mint, is.authority
	if is.mint.Address() != mint {
		panic(mint.ToBase58())
	}

	rt.Msg("Creating mint account...")
	inv := rt.Invoke()
	err := is.mint.SignFor(inv)
	if err != nil {
		return err
	}
	err = inv.CreateAccount(authority, mint, rt.MinimumBalance(ledger.MintSize), ledger.MintSize, ledger.TokenProgramID)
	if err != nil {
		return err
	}

	rt.Msg("Initializing mint account...")
	err = rt.Invoke().InitializeMint(mint, 0, authority, &authority)
	if err != nil {
		return err
	}

	rt.Msg("Creating token account...")
	holding, err := rt.Invoke().CreateAssociatedAccount(authority, authority, mint)
	if err != nil {
		return err
	}
	if holding != is.token.Holding {
		panic(holding.ToBase58())
	}

	rt.Msg("Minting token to token account...")
	err = rt.Invoke().MintTo(mint, holding, authority, 1)
	if err != nil {
		return err
	}

	rt.Msg("Creating metadata account...")
	inv = rt.Invoke()
	err = is.config.SignFor(inv)
	if err != nil {
		return err
	}
	err = inv.CreateMetadata(ledger.CreateMetadataParam{
		Metadata:          is.token.Metadata,
		Mint:              mint,
		MintAuthority:     authority,
		Payer:             authority,
		UpdateAuthority:   is.config.Address(),
		Data:              *is.data,
		IsMutable:         true,
		CollectionDetails: is.details,
	})
	if err != nil {
		return err
	}

	rt.Msg("Creating master edition metadata account...")
	inv = rt.Invoke()
	err = is.config.SignFor(inv)
	if err != nil {
		return err
	}
	var maxSupply uint64
	return inv.CreateMasterEdition(ledger.CreateMasterEditionParam{
		Edition:         is.token.MasterEdition,
		Mint:            mint,
		UpdateAuthority: is.config.Address(),
		MintAuthority:   authority,
		Metadata:        is.token.Metadata,
		Payer:           authority,
		MaxSupply:       &maxSupply,
	})
}
