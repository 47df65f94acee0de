package ledger

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/token"
)

const (
	MintSize         = token.MintAccountSize
	TokenAccountSize = token.TokenAccountSize
)

type Mint struct {
	MintAuthority   *common.PublicKey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *common.PublicKey
}

type TokenAccount struct {
	Mint   common.PublicKey
	Owner  common.PublicKey
	Amount uint64
}

func DecodeMint(acc *Account) (*Mint, error) {
	var m Mint
	err := decodeState(acc, TokenProgramID, &m)
	if err != nil {
		return nil, err
	}
	if !m.IsInitialized {
		return nil, fmt.Errorf("%w: %s", ErrUninitializedAccount, acc.Address.ToBase58())
	}
	return &m, nil
}

func DecodeTokenAccount(acc *Account) (*TokenAccount, error) {
	var ta TokenAccount
	err := decodeState(acc, TokenProgramID, &ta)
	if err != nil {
		return nil, err
	}
	return &ta, nil
}

func (inv *Invocation) InitializeMint(mint common.PublicKey, decimals uint8, mintAuthority common.PublicKey, freezeAuthority *common.PublicKey) error {
	err := inv.begin()
	if err != nil {
		return err
	}
	acc, err := inv.rt.mustReadAccount(mint)
	if err != nil {
		return err
	}
	if acc.Owner != TokenProgramID {
		return fmt.Errorf("%w: %s owned by %s", ErrInvalidAccountOwner, mint.ToBase58(), acc.Owner.ToBase58())
	}
	if len(acc.Data) > 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, mint.ToBase58())
	}
	if acc.Space < MintSize {
		return fmt.Errorf("%w: %s", ErrAccountDataTooSmall, mint.ToBase58())
	}
	if acc.Lamports < inv.rt.MinimumBalance(acc.Space) {
		return fmt.Errorf("%w: %s", ErrNotRentExempt, mint.ToBase58())
	}
	authority := mintAuthority
	inv.rt.Msg("InitializeMint %s decimals %d", mint.ToBase58(), decimals)
	return inv.rt.writeState(acc, Mint{
		MintAuthority:   &authority,
		Decimals:        decimals,
		IsInitialized:   true,
		FreezeAuthority: freezeAuthority,
	})
}

// CreateAssociatedAccount creates the canonical token account of owner for
// mint and returns its address.
func (inv *Invocation) CreateAssociatedAccount(payer, owner, mint common.PublicKey) (common.PublicKey, error) {
	err := inv.begin(payer)
	if err != nil {
		return common.PublicKey{}, err
	}
	address, _, err := common.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidSeeds, err)
	}
	macc, err := inv.rt.mustReadAccount(mint)
	if err != nil {
		return common.PublicKey{}, err
	}
	_, err = DecodeMint(macc)
	if err != nil {
		return common.PublicKey{}, err
	}
	if err := inv.requireSystemAccount(payer); err != nil {
		return common.PublicKey{}, err
	}
	acc, err := inv.rt.allocate(payer, address, inv.rt.MinimumBalance(TokenAccountSize), TokenAccountSize, TokenProgramID)
	if err != nil {
		return common.PublicKey{}, err
	}
	inv.rt.Msg("CreateAssociatedAccount %s owner %s mint %s", address.ToBase58(), owner.ToBase58(), mint.ToBase58())
	return address, inv.rt.writeState(acc, TokenAccount{Mint: mint, Owner: owner})
}

func (inv *Invocation) MintTo(mint, destination, authority common.PublicKey, amount uint64) error {
	err := inv.begin(authority)
	if err != nil {
		return err
	}
	macc, err := inv.rt.mustReadAccount(mint)
	if err != nil {
		return err
	}
	m, err := DecodeMint(macc)
	if err != nil {
		return err
	}
	if m.MintAuthority == nil {
		return ErrFixedSupply
	}
	if *m.MintAuthority != authority {
		return fmt.Errorf("%w: %s", ErrOwnerMismatch, authority.ToBase58())
	}
	dacc, err := inv.rt.mustReadAccount(destination)
	if err != nil {
		return err
	}
	ta, err := DecodeTokenAccount(dacc)
	if err != nil {
		return err
	}
	if ta.Mint != mint {
		return fmt.Errorf("%w: %s", ErrMintMismatch, destination.ToBase58())
	}
	if m.Supply+amount < m.Supply {
		return ErrArithmeticOverflow
	}
	m.Supply += amount
	ta.Amount += amount
	err = inv.rt.writeState(macc, *m)
	if err != nil {
		return err
	}
	inv.rt.Msg("MintTo %s amount %d", destination.ToBase58(), amount)
	return inv.rt.writeState(dacc, *ta)
}

// setMintAuthorities hands both authorities of mint to the given key.
func (inv *Invocation) setMintAuthorities(macc *Account, m *Mint, to common.PublicKey) error {
	mint, freeze := to, to
	m.MintAuthority = &mint
	if m.FreezeAuthority != nil {
		m.FreezeAuthority = &freeze
	}
	return inv.rt.writeState(macc, *m)
}
