package store

import (
	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/pdamint/ledger"
	"github.com/dgraph-io/badger/v3"
)

const (
	prefixTransactionPayload = "TRANSACTION:PAYLOAD:"
	prefixTransactionState   = "TRANSACTION:STATE:"
)

func (bs *BadgerStore) WriteTransaction(tx *ledger.Transaction) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return bs.writeTransaction(txn, tx)
	})
}

func (bs *BadgerStore) ReadTransaction(traceId string) (*ledger.Transaction, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readTransaction(txn, traceId)
}

func (bs *BadgerStore) ListTransactions(state int, limit int) ([]*ledger.Transaction, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(transactionStatePrefix(state))
	it := txn.NewIterator(opts)
	defer it.Close()

	var txs []*ledger.Transaction
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		key := it.Item().Key()
		id := string(key[len(opts.Prefix)+8:])
		tx, err := bs.readTransaction(txn, id)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
		if len(txs) == limit {
			break
		}
	}
	return txs, nil
}

func (bs *BadgerStore) writeTransaction(txn *badger.Txn, tx *ledger.Transaction) error {
	err := bs.resetOldTransaction(txn, tx)
	if err != nil {
		return err
	}
	key := []byte(prefixTransactionPayload + tx.TraceId)
	val := common.MsgpackMarshalPanic(tx)
	err = txn.Set(key, val)
	if err != nil {
		return err
	}

	key = buildTransactionTimedKey(tx)
	return txn.Set(key, []byte{1})
}

func (bs *BadgerStore) readTransaction(txn *badger.Txn, traceId string) (*ledger.Transaction, error) {
	key := []byte(prefixTransactionPayload + traceId)
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
	var tx ledger.Transaction
	err = common.MsgpackUnmarshal(val, &tx)
	return &tx, err
}

func (bs *BadgerStore) resetOldTransaction(txn *badger.Txn, tx *ledger.Transaction) error {
	old, err := bs.readTransaction(txn, tx.TraceId)
	if err != nil || old == nil {
		return err
	}
	if old.State == ledger.TransactionStateCommitted {
		panic(old.TraceId)
	}
	return txn.Delete(buildTransactionTimedKey(old))
}

func buildTransactionTimedKey(tx *ledger.Transaction) []byte {
	prefix := transactionStatePrefix(tx.State)
	key := append([]byte(prefix), tsToBytes(tx.UpdatedAt)...)
	return append(key, []byte(tx.TraceId)...)
}

func transactionStatePrefix(state int) string {
	prefix := prefixTransactionState
	switch state {
	case ledger.TransactionStateInitial:
		return prefix + "initiall"
	case ledger.TransactionStateCommitted:
		return prefix + "committd"
	case ledger.TransactionStateFailed:
		return prefix + "faileddd"
	}
	panic(state)
}
