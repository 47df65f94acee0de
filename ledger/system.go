package ledger

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
)

func (inv *Invocation) CreateAccount(payer, newAccount common.PublicKey, lamports, space uint64, owner common.PublicKey) error {
	err := inv.begin(payer, newAccount)
	if err != nil {
		return err
	}
	if err := inv.requireSystemAccount(payer); err != nil {
		return err
	}
	_, err = inv.rt.allocate(payer, newAccount, lamports, space, owner)
	if err != nil {
		return err
	}
	inv.rt.Msg("CreateAccount %s space %d owner %s", newAccount.ToBase58(), space, owner.ToBase58())
	return nil
}

func (inv *Invocation) Transfer(from, to common.PublicKey, lamports uint64) error {
	err := inv.begin(from)
	if err != nil {
		return err
	}
	if err := inv.requireSystemAccount(from); err != nil {
		return err
	}
	src, err := inv.rt.mustReadAccount(from)
	if err != nil {
		return err
	}
	if src.Lamports < lamports {
		return fmt.Errorf("%w: %s has %d needs %d", ErrInsufficientFunds, from.ToBase58(), src.Lamports, lamports)
	}
	src.Lamports -= lamports
	err = inv.rt.txn.WriteAccount(src)
	if err != nil {
		return err
	}
	return inv.rt.credit(to, lamports)
}

func (inv *Invocation) requireSystemAccount(key common.PublicKey) error {
	acc, err := inv.rt.txn.ReadAccount(key)
	if err != nil {
		return err
	}
	if acc == nil {
		return fmt.Errorf("%w: %s", ErrInsufficientFunds, key.ToBase58())
	}
	if acc.Owner != SystemProgramID || acc.Space > 0 {
		return fmt.Errorf("%w: %s owned by %s", ErrInvalidAccountOwner, key.ToBase58(), acc.Owner.ToBase58())
	}
	return nil
}
