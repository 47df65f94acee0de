package ledger_test

import (
	"strings"
	"testing"

	"github.com/MixinNetwork/pdamint/ledger"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"
)

func testData(name, uri string, creator common.PublicKey) ledger.MetadataData {
	return ledger.MetadataData{
		Name:                 name,
		Symbol:               "TST",
		Uri:                  uri,
		SellerFeeBasisPoints: 500,
		Creators:             &[]token_metadata.Creator{{Address: creator, Share: 100}},
	}
}

func createMint(rt *ledger.Runtime, payer, mint common.PublicKey) error {
	inv := rt.Invoke()
	err := inv.CreateAccount(payer, mint, rt.MinimumBalance(ledger.MintSize), ledger.MintSize, ledger.TokenProgramID)
	if err != nil {
		return err
	}
	return rt.Invoke().InitializeMint(mint, 0, payer, &payer)
}

func TestTokenMint(t *testing.T) {
	require := require.New(t)
	ctx, l := testLedger(t)
	program := types.NewAccount().PublicKey
	alice := fundedAccount(t, ctx, l, 10*testSol)
	mint := types.NewAccount()

	var holding common.PublicKey
	params := ledger.TransactionParam{Signers: []types.Account{alice, mint}}
	_, err := l.Execute(ctx, program, params, func(rt *ledger.Runtime) error {
		err := createMint(rt, alice.PublicKey, mint.PublicKey)
		if err != nil {
			return err
		}
		holding, err = rt.Invoke().CreateAssociatedAccount(alice.PublicKey, alice.PublicKey, mint.PublicKey)
		if err != nil {
			return err
		}
		return rt.Invoke().MintTo(mint.PublicKey, holding, alice.PublicKey, 7)
	})
	require.Nil(err)

	expected, _, err := common.FindAssociatedTokenAddress(alice.PublicKey, mint.PublicKey)
	require.Nil(err)
	require.Equal(expected, holding)

	acc, err := l.ReadAccount(mint.PublicKey)
	require.Nil(err)
	m, err := ledger.DecodeMint(acc)
	require.Nil(err)
	require.Equal(uint64(7), m.Supply)
	require.Equal(alice.PublicKey, *m.MintAuthority)
	acc, err = l.ReadAccount(holding)
	require.Nil(err)
	ta, err := ledger.DecodeTokenAccount(acc)
	require.Nil(err)
	require.Equal(uint64(7), ta.Amount)
	require.Equal(alice.PublicKey, ta.Owner)

	bob := fundedAccount(t, ctx, l, testSol)
	_, err = l.Execute(ctx, program, ledger.TransactionParam{Signers: []types.Account{bob}}, func(rt *ledger.Runtime) error {
		return rt.Invoke().MintTo(mint.PublicKey, holding, bob.PublicKey, 1)
	})
	require.ErrorIs(err, ledger.ErrOwnerMismatch)

	_, err = l.Execute(ctx, program, params, func(rt *ledger.Runtime) error {
		return rt.Invoke().InitializeMint(mint.PublicKey, 0, alice.PublicKey, nil)
	})
	require.ErrorIs(err, ledger.ErrAlreadyInitialized)
}

func TestMetadataLifecycle(t *testing.T) {
	require := require.New(t)
	ctx, l := testLedger(t)
	program := types.NewAccount().PublicKey
	alice := fundedAccount(t, ctx, l, 10*testSol)
	item, collection := types.NewAccount(), types.NewAccount()

	metadata, err := ledger.MetadataAddress(item.PublicKey)
	require.Nil(err)
	edition, err := ledger.MasterEditionAddress(item.PublicKey)
	require.Nil(err)
	collectionMetadata, err := ledger.MetadataAddress(collection.PublicKey)
	require.Nil(err)
	collectionEdition, err := ledger.MasterEditionAddress(collection.PublicKey)
	require.Nil(err)

	var zero uint64
	issue := func(rt *ledger.Runtime, mint common.PublicKey, md, me common.PublicKey, details *ledger.CollectionDetails) error {
		err := createMint(rt, alice.PublicKey, mint)
		if err != nil {
			return err
		}
		holding, err := rt.Invoke().CreateAssociatedAccount(alice.PublicKey, alice.PublicKey, mint)
		if err != nil {
			return err
		}
		err = rt.Invoke().MintTo(mint, holding, alice.PublicKey, 1)
		if err != nil {
			return err
		}
		err = rt.Invoke().CreateMetadata(ledger.CreateMetadataParam{
			Metadata:          md,
			Mint:              mint,
			MintAuthority:     alice.PublicKey,
			Payer:             alice.PublicKey,
			UpdateAuthority:   alice.PublicKey,
			Data:              testData("Item", "https://x/item.json", alice.PublicKey),
			IsMutable:         true,
			CollectionDetails: details,
		})
		if err != nil {
			return err
		}
		return rt.Invoke().CreateMasterEdition(ledger.CreateMasterEditionParam{
			Edition:         me,
			Mint:            mint,
			UpdateAuthority: alice.PublicKey,
			MintAuthority:   alice.PublicKey,
			Metadata:        md,
			Payer:           alice.PublicKey,
			MaxSupply:       &zero,
		})
	}

	params := ledger.TransactionParam{Signers: []types.Account{alice, item, collection}}
	_, err = l.Execute(ctx, program, params, func(rt *ledger.Runtime) error {
		err := issue(rt, collection.PublicKey, collectionMetadata, collectionEdition, &ledger.CollectionDetails{})
		if err != nil {
			return err
		}
		return issue(rt, item.PublicKey, metadata, edition, nil)
	})
	require.Nil(err)

	acc, err := l.ReadAccount(item.PublicKey)
	require.Nil(err)
	m, err := ledger.DecodeMint(acc)
	require.Nil(err)
	require.Equal(edition, *m.MintAuthority)
	require.Equal(edition, *m.FreezeAuthority)

	single := ledger.TransactionParam{Signers: []types.Account{alice}}
	_, err = l.Execute(ctx, program, single, func(rt *ledger.Runtime) error {
		holding, _, _ := common.FindAssociatedTokenAddress(alice.PublicKey, item.PublicKey)
		return rt.Invoke().MintTo(item.PublicKey, holding, alice.PublicKey, 1)
	})
	require.ErrorIs(err, ledger.ErrOwnerMismatch)

	verify := ledger.SetAndVerifySizedCollectionItemParam{
		Metadata:                metadata,
		CollectionAuthority:     alice.PublicKey,
		Payer:                   alice.PublicKey,
		UpdateAuthority:         alice.PublicKey,
		CollectionMint:          collection.PublicKey,
		CollectionMetadata:      collectionMetadata,
		CollectionMasterEdition: collectionEdition,
	}
	_, err = l.Execute(ctx, program, single, func(rt *ledger.Runtime) error {
		return rt.Invoke().SetAndVerifySizedCollectionItem(verify)
	})
	require.Nil(err)
	_, err = l.Execute(ctx, program, single, func(rt *ledger.Runtime) error {
		return rt.Invoke().SetAndVerifySizedCollectionItem(verify)
	})
	require.ErrorIs(err, ledger.ErrCollectionAlreadyVerified)

	acc, err = l.ReadAccount(metadata)
	require.Nil(err)
	md, err := ledger.DecodeMetadata(acc)
	require.Nil(err)
	require.True(md.Collection.Verified)
	require.Equal(collection.PublicKey, md.Collection.Key)
	acc, err = l.ReadAccount(collectionMetadata)
	require.Nil(err)
	cmd, err := ledger.DecodeMetadata(acc)
	require.Nil(err)
	require.Equal(uint64(1), cmd.CollectionDetails.Size)

	data := testData("Renamed", "https://x/renamed.json", alice.PublicKey)
	_, err = l.Execute(ctx, program, single, func(rt *ledger.Runtime) error {
		return rt.Invoke().UpdateMetadata(ledger.UpdateMetadataParam{
			Metadata:        metadata,
			UpdateAuthority: alice.PublicKey,
			Data:            &data,
		})
	})
	require.Nil(err)
	acc, err = l.ReadAccount(metadata)
	require.Nil(err)
	md, err = ledger.DecodeMetadata(acc)
	require.Nil(err)
	require.Equal("Renamed", md.Data.Name)
	require.True(md.Collection.Verified)

	long := testData(strings.Repeat("n", ledger.MaxNameLength+1), "https://x", alice.PublicKey)
	_, err = l.Execute(ctx, program, single, func(rt *ledger.Runtime) error {
		return rt.Invoke().UpdateMetadata(ledger.UpdateMetadataParam{
			Metadata:        metadata,
			UpdateAuthority: alice.PublicKey,
			Data:            &long,
		})
	})
	require.ErrorIs(err, ledger.ErrNameTooLong)

	bob := fundedAccount(t, ctx, l, testSol)
	_, err = l.Execute(ctx, program, ledger.TransactionParam{Signers: []types.Account{bob}}, func(rt *ledger.Runtime) error {
		return rt.Invoke().UpdateMetadata(ledger.UpdateMetadataParam{
			Metadata:        metadata,
			UpdateAuthority: bob.PublicKey,
			Data:            &data,
		})
	})
	require.ErrorIs(err, ledger.ErrUpdateAuthorityIncorrect)
}

func TestCollectionAuthorityRecord(t *testing.T) {
	require := require.New(t)
	ctx, l := testLedger(t)
	program := types.NewAccount().PublicKey
	alice := fundedAccount(t, ctx, l, 10*testSol)
	delegate := types.NewAccount().PublicKey
	mint := types.NewAccount()

	metadata, err := ledger.MetadataAddress(mint.PublicKey)
	require.Nil(err)
	record, bump, err := ledger.CollectionAuthorityRecordAddress(mint.PublicKey, delegate)
	require.Nil(err)

	approve := ledger.ApproveCollectionAuthorityParam{
		Record:          record,
		NewAuthority:    delegate,
		UpdateAuthority: alice.PublicKey,
		Payer:           alice.PublicKey,
		Metadata:        metadata,
		Mint:            mint.PublicKey,
	}
	params := ledger.TransactionParam{Signers: []types.Account{alice, mint}}
	_, err = l.Execute(ctx, program, params, func(rt *ledger.Runtime) error {
		err := createMint(rt, alice.PublicKey, mint.PublicKey)
		if err != nil {
			return err
		}
		err = rt.Invoke().CreateMetadata(ledger.CreateMetadataParam{
			Metadata:        metadata,
			Mint:            mint.PublicKey,
			MintAuthority:   alice.PublicKey,
			Payer:           alice.PublicKey,
			UpdateAuthority: alice.PublicKey,
			Data:            testData("Item", "https://x/item.json", alice.PublicKey),
			IsMutable:       true,
		})
		if err != nil {
			return err
		}
		return rt.Invoke().ApproveCollectionAuthority(approve)
	})
	require.Nil(err)

	acc, err := l.ReadAccount(record)
	require.Nil(err)
	r, err := ledger.DecodeCollectionAuthorityRecord(acc)
	require.Nil(err)
	require.Equal(bump, r.Bump)
	require.Equal(alice.PublicKey, *r.UpdateAuthority)

	_, err = l.Execute(ctx, program, params, func(rt *ledger.Runtime) error {
		return rt.Invoke().ApproveCollectionAuthority(approve)
	})
	require.ErrorIs(err, ledger.ErrAccountAlreadyInUse)

	approve.Record = types.NewAccount().PublicKey
	_, err = l.Execute(ctx, program, params, func(rt *ledger.Runtime) error {
		return rt.Invoke().ApproveCollectionAuthority(approve)
	})
	require.ErrorIs(err, ledger.ErrDerivedKeyInvalid)
}

func TestValidateMetadataData(t *testing.T) {
	creator := types.NewAccount().PublicKey
	for _, c := range []struct {
		name string
		edit func(d *ledger.MetadataData)
		err  error
	}{
		{"valid", func(d *ledger.MetadataData) {}, nil},
		{"name", func(d *ledger.MetadataData) { d.Name = strings.Repeat("a", 33) }, ledger.ErrNameTooLong},
		{"symbol", func(d *ledger.MetadataData) { d.Symbol = strings.Repeat("a", 11) }, ledger.ErrSymbolTooLong},
		{"uri", func(d *ledger.MetadataData) { d.Uri = strings.Repeat("a", 201) }, ledger.ErrUriTooLong},
		{"fee", func(d *ledger.MetadataData) { d.SellerFeeBasisPoints = 10001 }, ledger.ErrInvalidBasisPoints},
		{"shares", func(d *ledger.MetadataData) { (*d.Creators)[0].Share = 99 }, ledger.ErrShareTotalMustBe100},
		{"no creators", func(d *ledger.MetadataData) { d.Creators = nil }, nil},
	} {
		t.Run(c.name, func(t *testing.T) {
			d := testData("Item", "https://x/item.json", creator)
			c.edit(&d)
			err := ledger.ValidateMetadataData(&d)
			if c.err == nil {
				require.Nil(t, err)
			} else {
				require.ErrorIs(t, err, c.err)
			}
		})
	}
}
