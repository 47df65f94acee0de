package nft

import (
	"context"
	"fmt"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/pdamint/ledger"
	"github.com/MixinNetwork/pdamint/pda"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/types"
)

const SellerFeeBasisPoints = 200

// Host runs one program invocation atomically, *ledger.Ledger is the host.
type Host interface {
	Execute(ctx context.Context, program common.PublicKey, p ledger.TransactionParam, fn func(rt *ledger.Runtime) error) (*ledger.Transaction, error)
	ReadAccount(key common.PublicKey) (*ledger.Account, error)
}

type Program struct {
	host    Host
	deriver *pda.Deriver
}

func NewProgram(host Host, deriver *pda.Deriver) *Program {
	return &Program{host: host, deriver: deriver}
}

func (p *Program) Id() common.PublicKey {
	return p.deriver.Program()
}

func (p *Program) ConfigurationAddress(manager common.PublicKey) (common.PublicKey, error) {
	addr, _, err := p.deriver.Derive(pda.TagConfiguration, manager)
	return addr, err
}

func (p *Program) CollectionAddress(manager common.PublicKey) (common.PublicKey, error) {
	addr, _, err := p.deriver.Derive(pda.TagCollection, manager)
	return addr, err
}

// CollectionMint is the mint of the collection token of manager. Mints are
// program addresses fixed per namespace, so a token can only be created once.
func (p *Program) CollectionMint(manager common.PublicKey) (common.PublicKey, error) {
	return p.mintAddress(manager, collectionLabel)
}

func (p *Program) MemberMint(manager common.PublicKey, tokenId uint64) (common.PublicKey, error) {
	return p.mintAddress(manager, memberLabel(tokenId))
}

const collectionLabel = "collection"

func memberLabel(tokenId uint64) string {
	return fmt.Sprintf("member:%d", tokenId)
}

func (p *Program) mintAddress(manager common.PublicKey, label string) (common.PublicKey, error) {
	config, err := p.ConfigurationAddress(manager)
	if err != nil {
		return common.PublicKey{}, err
	}
	mint, _, err := p.deriver.DeriveMint(config, label)
	return mint, err
}

func (p *Program) mintAuthority(manager common.PublicKey, label string) (*pda.DerivedAuthority, error) {
	mint, err := p.mintAddress(manager, label)
	if err != nil {
		return nil, err
	}
	config, err := p.ConfigurationAddress(manager)
	if err != nil {
		return nil, err
	}
	return p.deriver.MintAuthority(mint, config, label)
}

type InitializeParam struct {
	TraceId string
	Manager types.Account
	Name    string
	Symbol  string
	BaseURI string
	Price   uint64
}

// Initialize creates the configuration and the collection authority of the
// manager together, paid by the manager.
func (p *Program) Initialize(ctx context.Context, ip InitializeParam) (*ledger.Transaction, error) {
	manager := ip.Manager.PublicKey
	params := ledger.TransactionParam{TraceId: ip.TraceId, Memo: "initialize", Signers: []types.Account{ip.Manager}}
	return p.host.Execute(ctx, p.Id(), params, func(rt *ledger.Runtime) error {
		config, configBump, err := p.deriver.Derive(pda.TagConfiguration, manager)
		if err != nil {
			return err
		}
		collection, collectionBump, err := p.deriver.Derive(pda.TagCollection, manager)
		if err != nil {
			return err
		}

		cfg := &NftConfiguration{
			Creator: manager,
			Name:    ip.Name,
			Symbol:  ip.Symbol,
			BaseURI: ip.BaseURI,
			Price:   ip.Price,
			Bump:    configBump,
		}
		err = p.createRecord(rt, manager, config, pda.TagConfiguration, NftConfigurationSize, cfg.Marshal())
		if err != nil {
			return err
		}
		ca := &CollectionAuthority{Authority: config, Bump: collectionBump}
		err = p.createRecord(rt, manager, collection, pda.TagCollection, CollectionAuthoritySize, ca.Marshal())
		if err != nil {
			return err
		}
		rt.Msg("Initialized %s for %s", config.ToBase58(), manager.ToBase58())
		return nil
	})
}

func (p *Program) createRecord(rt *ledger.Runtime, manager, address common.PublicKey, tag string, space uint64, data []byte) error {
	authority, err := p.deriver.Authority(address, tag, manager)
	if err != nil {
		return err
	}
	inv := rt.Invoke()
	err = authority.SignFor(inv)
	if err != nil {
		return err
	}
	err = inv.CreateAccount(manager, address, rt.MinimumBalance(space), space, p.Id())
	if err != nil {
		return err
	}
	return rt.StoreProgramData(address, data)
}

type SetMetadataParam struct {
	TraceId string
	Manager common.PublicKey
	Caller  types.Account
	Name    string
	Symbol  string
	BaseURI string
}

func (p *Program) SetMetadata(ctx context.Context, sp SetMetadataParam) (*ledger.Transaction, error) {
	params := ledger.TransactionParam{TraceId: sp.TraceId, Memo: "set_metadata", Signers: []types.Account{sp.Caller}}
	return p.host.Execute(ctx, p.Id(), params, func(rt *ledger.Runtime) error {
		config, cfg, err := p.loadConfiguration(rt, sp.Manager)
		if err != nil {
			return err
		}
		err = RequireCreator(cfg, sp.Caller.PublicKey)
		if err != nil {
			return err
		}
		cfg.Name, cfg.Symbol, cfg.BaseURI = sp.Name, sp.Symbol, sp.BaseURI
		return rt.StoreProgramData(config, cfg.Marshal())
	})
}

type SetPriceParam struct {
	TraceId string
	Manager common.PublicKey
	Caller  types.Account
	Price   uint64
}

func (p *Program) SetPrice(ctx context.Context, sp SetPriceParam) (*ledger.Transaction, error) {
	params := ledger.TransactionParam{TraceId: sp.TraceId, Memo: "set_price", Signers: []types.Account{sp.Caller}}
	return p.host.Execute(ctx, p.Id(), params, func(rt *ledger.Runtime) error {
		config, cfg, err := p.loadConfiguration(rt, sp.Manager)
		if err != nil {
			return err
		}
		err = RequireCreator(cfg, sp.Caller.PublicKey)
		if err != nil {
			return err
		}
		logger.Verbosef("Program.SetPrice(%s) %d => %d\n", config.ToBase58(), cfg.Price, sp.Price)
		cfg.Price = sp.Price
		return rt.StoreProgramData(config, cfg.Marshal())
	})
}

type UpdateMetadataAccountParam struct {
	TraceId string
	Manager common.PublicKey
	Caller  types.Account
	Mint    common.PublicKey
	Name    string
	Symbol  string
	Uri     string
}

// UpdateMetadataAccount rewrites the metadata of a token issued under the
// configuration, signed as the configuration. Collection membership stays.
func (p *Program) UpdateMetadataAccount(ctx context.Context, up UpdateMetadataAccountParam) (*ledger.Transaction, error) {
	params := ledger.TransactionParam{TraceId: up.TraceId, Memo: "update_metadata_account", Signers: []types.Account{up.Caller}}
	return p.host.Execute(ctx, p.Id(), params, func(rt *ledger.Runtime) error {
		config, cfg, err := p.loadConfiguration(rt, up.Manager)
		if err != nil {
			return err
		}
		err = RequireCreator(cfg, up.Caller.PublicKey)
		if err != nil {
			return err
		}
		authority, err := p.deriver.Authority(config, pda.TagConfiguration, up.Manager)
		if err != nil {
			return err
		}
		metadata, err := ledger.MetadataAddress(up.Mint)
		if err != nil {
			return err
		}

		rt.Msg("Updating metadata account...")
		inv := rt.Invoke()
		err = authority.SignFor(inv)
		if err != nil {
			return err
		}
		mutable := true
		return inv.UpdateMetadata(ledger.UpdateMetadataParam{
			Metadata:        metadata,
			UpdateAuthority: config,
			Data:            tokenData(up.Name, up.Symbol, up.Uri, up.Manager),
			IsMutable:       &mutable,
		})
	})
}

func (p *Program) loadConfiguration(rt *ledger.Runtime, manager common.PublicKey) (common.PublicKey, *NftConfiguration, error) {
	config, err := p.ConfigurationAddress(manager)
	if err != nil {
		return config, nil, err
	}
	data, err := rt.LoadProgramData(config)
	if err != nil {
		return config, nil, err
	}
	cfg, err := DecodeNftConfiguration(data)
	return config, cfg, err
}

func (p *Program) loadCollectionAuthority(rt *ledger.Runtime, manager common.PublicKey) (common.PublicKey, *CollectionAuthority, error) {
	collection, err := p.CollectionAddress(manager)
	if err != nil {
		return collection, nil, err
	}
	data, err := rt.LoadProgramData(collection)
	if err != nil {
		return collection, nil, err
	}
	ca, err := DecodeCollectionAuthority(data)
	return collection, ca, err
}

func tokenData(name, symbol, uri string, creator common.PublicKey) *ledger.MetadataData {
	return &ledger.MetadataData{
		Name:                 name,
		Symbol:               symbol,
		Uri:                  uri,
		SellerFeeBasisPoints: SellerFeeBasisPoints,
		Creators: &[]token_metadata.Creator{{
			Address:  creator,
			Verified: false,
			Share:    100,
		}},
	}
}
