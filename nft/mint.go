package nft

import (
	"context"
	"fmt"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/pdamint/ledger"
	"github.com/MixinNetwork/pdamint/pda"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/fox-one/mixin-sdk-go"
	"github.com/gofrs/uuid"
)

type MintParam struct {
	TraceId        string
	Manager        common.PublicKey
	Payer          types.Account
	CollectionMint common.PublicKey
	TokenId        uint64
}

type MintResult struct {
	Token
	TokenId      uint64
	Transaction  *ledger.Transaction
	Verification *ledger.Transaction
	Verified     bool
}

func ValidTokenId(id uint64) bool {
	return id == 1 || id == 2
}

// Mint sells member token id to the payer at the configured price, then
// verifies it as part of the collection. The two steps commit separately,
// when the verification fails the result carries the issued token with
// Verified false together with the error, and SetAndVerifyCollection repairs it.
func (p *Program) Mint(ctx context.Context, mp MintParam) (*MintResult, error) {
	if !ValidTokenId(mp.TokenId) {
		return nil, ErrInvalidTokenId
	}
	mint, err := p.mintAuthority(mp.Manager, memberLabel(mp.TokenId))
	if err != nil {
		return nil, err
	}
	if mp.TraceId == "" {
		mp.TraceId = uuid.Must(uuid.NewV4()).String()
	}
	suffix := fmt.Sprintf("%d.json", mp.TokenId)

	var token *Token
	signers := []types.Account{mp.Payer}
	params := ledger.TransactionParam{TraceId: mp.TraceId, Memo: "mint", Signers: signers}
	tx, err := p.host.Execute(ctx, p.Id(), params, func(rt *ledger.Runtime) error {
		config, cfg, err := p.loadConfiguration(rt, mp.Manager)
		if err != nil {
			return err
		}
		err = RequireManager(cfg, mp.Manager)
		if err != nil {
			return err
		}
		_, ca, err := p.loadCollectionAuthority(rt, mp.Manager)
		if err != nil {
			return err
		}
		err = RequireCollectionTokenMatch(ca, mp.CollectionMint)
		if err != nil {
			return err
		}
		authority, err := p.deriver.Authority(config, pda.TagConfiguration, mp.Manager)
		if err != nil {
			return err
		}

		rt.Msg("Initiating transfer of %d lamports...", cfg.Price)
		err = rt.Invoke().Transfer(mp.Payer.PublicKey, config, cfg.Price)
		if err != nil {
			return err
		}

		token, err = buildToken(mint.Address(), mp.Payer.PublicKey, cfg.BaseURI+suffix)
		if err != nil {
			return err
		}
		err = issue(rt, &issuance{
			token:     token,
			authority: mp.Payer.PublicKey,
			mint:      mint,
			config:    authority,
			data:      tokenData(cfg.Name, cfg.Symbol, token.Uri, mp.Manager),
		})
		if err != nil {
			return err
		}
		rt.Msg("Token mint process completed successfully.")
		return nil
	})
	if err != nil {
		return nil, err
	}
	if token == nil {
		token, err = p.readIssuedToken(mint.Address(), mp.Payer.PublicKey)
		if err != nil {
			return nil, err
		}
	}

	res := &MintResult{Token: *token, TokenId: mp.TokenId, Transaction: tx}
	verification, err := p.SetAndVerifyCollection(ctx, SetAndVerifyCollectionParam{
		TraceId:        mixin.UniqueConversationID(mp.TraceId, "set_and_verify_collection"),
		Manager:        mp.Manager,
		Payer:          mp.Payer,
		Mint:           mint.Address(),
		CollectionMint: mp.CollectionMint,
	})
	if err != nil {
		logger.Printf("Program.Mint(%s, %d) issued %s unverified => %v\n", mp.Manager.ToBase58(), mp.TokenId, mint.Address().ToBase58(), err)
		return res, err
	}
	res.Verification = verification
	res.Verified = true
	return res, nil
}
