package store

import (
	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/pdamint/ledger"
	solana "github.com/blocto/solana-go-sdk/common"
	"github.com/dgraph-io/badger/v3"
)

const (
	prefixAccountPayload = "ACCOUNT:PAYLOAD:"
	prefixAccountOwner   = "ACCOUNT:OWNER:"
)

func (bs *BadgerStore) ReadAccount(key solana.PublicKey) (*ledger.Account, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readAccount(txn, key)
}

func (bs *BadgerStore) ListAccountsByOwner(owner solana.PublicKey, limit int) ([]*ledger.Account, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = append([]byte(prefixAccountOwner), owner.Bytes()...)
	it := txn.NewIterator(opts)
	defer it.Close()

	var accounts []*ledger.Account
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		key := it.Item().Key()
		addr := solana.PublicKeyFromBytes(key[len(opts.Prefix):])
		acc, err := bs.readAccount(txn, addr)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			panic(addr.ToBase58())
		}
		accounts = append(accounts, acc)
		if len(accounts) == limit {
			break
		}
	}
	return accounts, nil
}

func (bs *BadgerStore) writeAccount(txn *badger.Txn, acc *ledger.Account) error {
	if uint64(len(acc.Data)) > acc.Space {
		panic(acc.Address.ToBase58())
	}
	old, err := bs.readAccount(txn, acc.Address)
	if err != nil {
		return err
	}
	if old != nil && old.Owner != acc.Owner {
		err = txn.Delete(buildAccountOwnerKey(old))
		if err != nil {
			return err
		}
	}

	key := append([]byte(prefixAccountPayload), acc.Address.Bytes()...)
	val := common.MsgpackMarshalPanic(acc)
	err = txn.Set(key, val)
	if err != nil {
		return err
	}
	return txn.Set(buildAccountOwnerKey(acc), []byte{1})
}

func (bs *BadgerStore) readAccount(txn *badger.Txn, address solana.PublicKey) (*ledger.Account, error) {
	key := append([]byte(prefixAccountPayload), address.Bytes()...)
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var acc ledger.Account
	err = common.MsgpackUnmarshal(val, &acc)
	return &acc, err
}

func buildAccountOwnerKey(acc *ledger.Account) []byte {
	key := append([]byte(prefixAccountOwner), acc.Owner.Bytes()...)
	return append(key, acc.Address.Bytes()...)
}
