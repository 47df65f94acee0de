package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

// Ledger executes programs against the store. Every Execute is one atomic
// unit and executions never interleave.
type Ledger struct {
	sync.Mutex
	store Store
	clock *Clock
	rent  Rent
}

func BuildLedger(ctx context.Context, store Store, conf *Configuration) (*Ledger, error) {
	if conf.Rent.LamportsPerByteYear == 0 || conf.Rent.ExemptionThreshold == 0 {
		return nil, fmt.Errorf("invalid rent %d %d", conf.Rent.LamportsPerByteYear, conf.Rent.ExemptionThreshold)
	}
	clock, err := NewClock(store)
	if err != nil {
		return nil, err
	}
	return &Ledger{
		store: store,
		clock: clock,
		rent:  conf.Rent,
	}, nil
}

func (l *Ledger) Rent() Rent {
	return l.rent
}

// Execute runs fn as program with the given signers. When fn or any call it
// makes fails, nothing fn wrote survives and the error is returned as is.
func (l *Ledger) Execute(ctx context.Context, program common.PublicKey, p TransactionParam, fn func(rt *Runtime) error) (*Transaction, error) {
	if len(p.Signers) == 0 {
		return nil, fmt.Errorf("%w: no signers", ErrInvalidTransaction)
	}
	return l.execute(ctx, program, p.TraceId, p.Memo, p.Signers, fn)
}

func (l *Ledger) Airdrop(ctx context.Context, to common.PublicKey, lamports uint64) (*Transaction, error) {
	return l.execute(ctx, SystemProgramID, "", "airdrop", nil, func(rt *Runtime) error {
		rt.Msg("Airdrop %d lamports to %s", lamports, to.ToBase58())
		return rt.credit(to, lamports)
	})
}

func (l *Ledger) execute(ctx context.Context, program common.PublicKey, traceId, memo string, signers []types.Account, fn func(rt *Runtime) error) (*Transaction, error) {
	tx, keys, err := l.buildTransaction(ctx, program, traceId, memo, signers)
	if err != nil {
		return nil, err
	}

	l.Lock()
	defer l.Unlock()

	old, err := l.store.ReadTransaction(tx.TraceId)
	if err != nil {
		return nil, err
	}
	if old != nil && old.State == TransactionStateCommitted {
		if !old.sameOperation(tx) {
			return nil, fmt.Errorf("%w: trace id %s taken by %s", ErrInvalidTransaction, tx.TraceId, old.Memo)
		}
		logger.Verbosef("Ledger.Execute(%s) replay of %s\n", memo, old.Signature)
		return old, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx.CreatedAt = l.clock.Now()
	err = l.store.RunTransaction(func(txn Txn) error {
		rt := newRuntime(ctx, txn, program, keys, l.rent)
		err := fn(rt)
		tx.Logs = rt.logs
		if err != nil {
			return err
		}
		tx.State = TransactionStateCommitted
		tx.UpdatedAt = tx.CreatedAt
		return txn.WriteTransaction(tx)
	})
	if err != nil {
		l.recordFailure(tx, err)
		logger.Verbosef("Ledger.Execute(%s) %s => %v\n", memo, tx.TraceId, err)
		return nil, err
	}
	logger.Printf("Ledger.Execute(%s) %s %s\n", memo, tx.TraceId, tx.Signature)
	return tx, nil
}

func (l *Ledger) ReadAccount(key common.PublicKey) (*Account, error) {
	return l.store.ReadAccount(key)
}

func (l *Ledger) Balance(key common.PublicKey) (uint64, error) {
	acc, err := l.store.ReadAccount(key)
	if err != nil || acc == nil {
		return 0, err
	}
	return acc.Lamports, nil
}

func (l *Ledger) ListAccountsByOwner(owner common.PublicKey, limit int) ([]*Account, error) {
	return l.store.ListAccountsByOwner(owner, limit)
}

func (l *Ledger) ReadTransaction(traceId string) (*Transaction, error) {
	return l.store.ReadTransaction(traceId)
}

func (l *Ledger) ListTransactions(state int, limit int) ([]*Transaction, error) {
	return l.store.ListTransactions(state, limit)
}
