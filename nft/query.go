package nft

import (
	"fmt"

	"github.com/MixinNetwork/pdamint/ledger"
	"github.com/blocto/solana-go-sdk/common"
)

func (p *Program) ReadConfiguration(manager common.PublicKey) (*NftConfiguration, error) {
	config, err := p.ConfigurationAddress(manager)
	if err != nil {
		return nil, err
	}
	data, err := p.readProgramData(config)
	if err != nil || data == nil {
		return nil, err
	}
	return DecodeNftConfiguration(data)
}

func (p *Program) ReadCollectionAuthority(manager common.PublicKey) (*CollectionAuthority, error) {
	collection, err := p.CollectionAddress(manager)
	if err != nil {
		return nil, err
	}
	data, err := p.readProgramData(collection)
	if err != nil || data == nil {
		return nil, err
	}
	return DecodeCollectionAuthority(data)
}

func (p *Program) readProgramData(key common.PublicKey) ([]byte, error) {
	acc, err := p.host.ReadAccount(key)
	if err != nil || acc == nil {
		return nil, err
	}
	if acc.Owner != p.Id() {
		return nil, fmt.Errorf("%w: %s owned by %s", ledger.ErrInvalidAccountOwner, key.ToBase58(), acc.Owner.ToBase58())
	}
	return acc.Data, nil
}

// TokenState is the ledger view of one issued token.
type TokenState struct {
	Mint          *ledger.Mint
	Metadata      *ledger.Metadata
	MasterEdition *ledger.MasterEdition
}

// ReadToken returns nil when mint was never issued.
func (p *Program) ReadToken(mint common.PublicKey) (*TokenState, error) {
	acc, err := p.host.ReadAccount(mint)
	if err != nil || acc == nil {
		return nil, err
	}
	m, err := ledger.DecodeMint(acc)
	if err != nil {
		return nil, err
	}
	ts := &TokenState{Mint: m}

	metadata, err := ledger.MetadataAddress(mint)
	if err != nil {
		return nil, err
	}
	acc, err = p.host.ReadAccount(metadata)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		ts.Metadata, err = ledger.DecodeMetadata(acc)
		if err != nil {
			return nil, err
		}
	}

	edition, err := ledger.MasterEditionAddress(mint)
	if err != nil {
		return nil, err
	}
	acc, err = p.host.ReadAccount(edition)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		ts.MasterEdition, err = ledger.DecodeMasterEdition(acc)
		if err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// ReadTokenBalance returns the amount of mint held by owner.
func (p *Program) ReadTokenBalance(owner, mint common.PublicKey) (uint64, error) {
	holding, _, err := common.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return 0, err
	}
	acc, err := p.host.ReadAccount(holding)
	if err != nil || acc == nil {
		return 0, err
	}
	ta, err := ledger.DecodeTokenAccount(acc)
	if err != nil {
		return 0, err
	}
	return ta.Amount, nil
}

func (p *Program) readIssuedToken(mint, holder common.PublicKey) (*Token, error) {
	ts, err := p.ReadToken(mint)
	if err != nil {
		return nil, err
	}
	if ts == nil || ts.Metadata == nil {
		return nil, fmt.Errorf("%w: token %s", ledger.ErrAccountNotFound, mint.ToBase58())
	}
	return buildToken(mint, holder, ts.Metadata.Data.Uri)
}
