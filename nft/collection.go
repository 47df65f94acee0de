package nft

import (
	"context"
	"fmt"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/pdamint/ledger"
	"github.com/MixinNetwork/pdamint/pda"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

type MintCollectionParam struct {
	TraceId string
	Manager common.PublicKey
	Caller  types.Account
}

// MintCollection issues the one of one collection token to the caller, who
// must be the manager, and records it on the collection authority. The
// collection authority is then approved as delegate of the collection.
func (p *Program) MintCollection(ctx context.Context, mp MintCollectionParam) (*Token, *ledger.Transaction, error) {
	mint, err := p.mintAuthority(mp.Manager, collectionLabel)
	if err != nil {
		return nil, nil, err
	}

	var token *Token
	signers := []types.Account{mp.Caller}
	params := ledger.TransactionParam{TraceId: mp.TraceId, Memo: "mint_collection", Signers: signers}
	tx, err := p.host.Execute(ctx, p.Id(), params, func(rt *ledger.Runtime) error {
		config, cfg, err := p.loadConfiguration(rt, mp.Manager)
		if err != nil {
			return err
		}
		err = RequireManager(cfg, mp.Caller.PublicKey)
		if err != nil {
			return err
		}
		collection, ca, err := p.loadCollectionAuthority(rt, mp.Manager)
		if err != nil {
			return err
		}
		err = RequireAuthorityMatch(ca, config)
		if err != nil {
			return err
		}
		if ca.Minted() {
			return fmt.Errorf("%w: collection %s", ledger.ErrAccountAlreadyInUse, ca.CollectionToken.ToBase58())
		}

		authority, err := p.deriver.Authority(config, pda.TagConfiguration, mp.Manager)
		if err != nil {
			return err
		}
		token, err = buildToken(mint.Address(), mp.Caller.PublicKey, cfg.BaseURI+"collection.json")
		if err != nil {
			return err
		}
		err = issue(rt, &issuance{
			token:     token,
			authority: mp.Caller.PublicKey,
			mint:      mint,
			config:    authority,
			data:      tokenData(cfg.Name, cfg.Symbol, token.Uri, mp.Manager),
			details:   &ledger.CollectionDetails{Size: 0},
		})
		if err != nil {
			return err
		}

		ca.CollectionToken = mint.Address()
		err = rt.StoreProgramData(collection, ca.Marshal())
		if err != nil {
			return err
		}
		err = p.approveCollectionAuthority(rt, authority, collection, mp.Caller.PublicKey, mint.Address())
		if err != nil {
			return err
		}
		rt.Msg("Token mint process completed successfully.")
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if token == nil {
		token, err = p.readIssuedToken(mint.Address(), mp.Caller.PublicKey)
	}
	return token, tx, err
}

type SetCollectionParam struct {
	TraceId string
	Manager common.PublicKey
	Payer   types.Account
	Mint    common.PublicKey
}

// SetCollection approves the collection authority as delegate over the
// metadata of mint. It does nothing when the approval record already exists.
func (p *Program) SetCollection(ctx context.Context, sp SetCollectionParam) (*ledger.Transaction, error) {
	params := ledger.TransactionParam{TraceId: sp.TraceId, Memo: "set_collection", Signers: []types.Account{sp.Payer}}
	return p.host.Execute(ctx, p.Id(), params, func(rt *ledger.Runtime) error {
		config, cfg, err := p.loadConfiguration(rt, sp.Manager)
		if err != nil {
			return err
		}
		err = RequireManager(cfg, sp.Manager)
		if err != nil {
			return err
		}
		collection, err := p.CollectionAddress(sp.Manager)
		if err != nil {
			return err
		}
		authority, err := p.deriver.Authority(config, pda.TagConfiguration, sp.Manager)
		if err != nil {
			return err
		}
		return p.approveCollectionAuthority(rt, authority, collection, sp.Payer.PublicKey, sp.Mint)
	})
}

func (p *Program) approveCollectionAuthority(rt *ledger.Runtime, config *pda.DerivedAuthority, collection, payer, mint common.PublicKey) error {
	record, _, err := ledger.CollectionAuthorityRecordAddress(mint, collection)
	if err != nil {
		return err
	}
	metadata, err := ledger.MetadataAddress(mint)
	if err != nil {
		return err
	}

	rt.Msg("Approve collection authority...")
	acc, err := rt.ReadAccount(record)
	if err != nil || acc.HoldsData() {
		return err
	}
	inv := rt.Invoke()
	err = config.SignFor(inv)
	if err != nil {
		return err
	}
	return inv.ApproveCollectionAuthority(ledger.ApproveCollectionAuthorityParam{
		Record:          record,
		NewAuthority:    collection,
		UpdateAuthority: config.Address(),
		Payer:           payer,
		Metadata:        metadata,
		Mint:            mint,
	})
}

type SetAndVerifyCollectionParam struct {
	TraceId        string
	Manager        common.PublicKey
	Payer          types.Account
	Mint           common.PublicKey
	CollectionMint common.PublicKey
}

// SetAndVerifyCollection verifies an issued member token as part of the
// collection. It is the repair path when the verification of Mint failed.
func (p *Program) SetAndVerifyCollection(ctx context.Context, vp SetAndVerifyCollectionParam) (*ledger.Transaction, error) {
	params := ledger.TransactionParam{TraceId: vp.TraceId, Memo: "set_and_verify_collection", Signers: []types.Account{vp.Payer}}
	tx, err := p.host.Execute(ctx, p.Id(), params, func(rt *ledger.Runtime) error {
		config, cfg, err := p.loadConfiguration(rt, vp.Manager)
		if err != nil {
			return err
		}
		err = RequireManager(cfg, vp.Manager)
		if err != nil {
			return err
		}
		collection, ca, err := p.loadCollectionAuthority(rt, vp.Manager)
		if err != nil {
			return err
		}
		err = RequireCollectionTokenMatch(ca, vp.CollectionMint)
		if err != nil {
			return err
		}
		return p.verifyCollectionItem(rt, config, collection, vp.Manager, vp.Payer.PublicKey, vp.Mint, vp.CollectionMint)
	})
	if err != nil {
		logger.Verbosef("Program.SetAndVerifyCollection(%s, %s) => %v\n", vp.Manager.ToBase58(), vp.Mint.ToBase58(), err)
	}
	return tx, err
}

func (p *Program) verifyCollectionItem(rt *ledger.Runtime, config, collection, manager, payer, mint, collectionMint common.PublicKey) error {
	authority, err := p.deriver.Authority(collection, pda.TagCollection, manager)
	if err != nil {
		return err
	}
	record, _, err := ledger.CollectionAuthorityRecordAddress(collectionMint, collection)
	if err != nil {
		return err
	}
	metadata, err := ledger.MetadataAddress(mint)
	if err != nil {
		return err
	}
	collectionMetadata, err := ledger.MetadataAddress(collectionMint)
	if err != nil {
		return err
	}
	collectionEdition, err := ledger.MasterEditionAddress(collectionMint)
	if err != nil {
		return err
	}

	rt.Msg("Set and verify collection...")
	inv := rt.Invoke()
	err = authority.SignFor(inv)
	if err != nil {
		return err
	}
	return inv.SetAndVerifySizedCollectionItem(ledger.SetAndVerifySizedCollectionItemParam{
		Metadata:                metadata,
		CollectionAuthority:     collection,
		Payer:                   payer,
		UpdateAuthority:         config,
		CollectionMint:          collectionMint,
		CollectionMetadata:      collectionMetadata,
		CollectionMasterEdition: collectionEdition,
		AuthorityRecord:         &record,
	})
}
