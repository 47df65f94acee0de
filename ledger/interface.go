package ledger

import (
	"github.com/blocto/solana-go-sdk/common"
)

type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)

	RunTransaction(fn func(txn Txn) error) error

	ReadAccount(key common.PublicKey) (*Account, error)
	ListAccountsByOwner(owner common.PublicKey, limit int) ([]*Account, error)

	WriteTransaction(tx *Transaction) error
	ReadTransaction(traceId string) (*Transaction, error)
	ListTransactions(state int, limit int) ([]*Transaction, error)
}

// Txn is one all-or-nothing unit, nothing written through it is visible
// before the enclosing RunTransaction returns nil.
type Txn interface {
	ReadAccount(key common.PublicKey) (*Account, error)
	WriteAccount(acc *Account) error
	WriteTransaction(tx *Transaction) error
}
