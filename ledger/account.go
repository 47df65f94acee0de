package ledger

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/near/borsh-go"
)

var (
	SystemProgramID          = common.SystemProgramID
	TokenProgramID           = common.TokenProgramID
	AssociatedTokenProgramID = common.SPLAssociatedTokenAccountProgramID
	TokenMetadataProgramID   = common.MetaplexTokenMetaProgramID
)

// Account is the ledger entry at one address. Space is the allocated size,
// Data holds the serialized state written so far and never exceeds Space.
type Account struct {
	Address  common.PublicKey
	Owner    common.PublicKey
	Lamports uint64
	Space    uint64
	Data     []byte
}

func (acc *Account) HoldsData() bool {
	return acc != nil && acc.Space > 0
}

func decodeState(acc *Account, owner common.PublicKey, state interface{}) error {
	if acc == nil {
		return ErrAccountNotFound
	}
	if acc.Owner != owner {
		return fmt.Errorf("%w: %s owned by %s", ErrInvalidAccountOwner, acc.Address.ToBase58(), acc.Owner.ToBase58())
	}
	if len(acc.Data) == 0 {
		return fmt.Errorf("%w: %s", ErrUninitializedAccount, acc.Address.ToBase58())
	}
	err := borsh.Deserialize(state, acc.Data)
	if err != nil {
		return fmt.Errorf("%w: %s %v", ErrInvalidAccountData, acc.Address.ToBase58(), err)
	}
	return nil
}
