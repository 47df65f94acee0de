package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/MixinNetwork/pdamint/ledger"
	"github.com/MixinNetwork/pdamint/store"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"
)

const testSol = 1000000000

func testLedger(t *testing.T) (context.Context, *ledger.Ledger) {
	ctx := context.Background()
	db, err := store.OpenBadger(ctx, "")
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })
	l, err := ledger.BuildLedger(ctx, db, ledger.DefaultConfiguration())
	require.Nil(t, err)
	return ctx, l
}

func fundedAccount(t *testing.T, ctx context.Context, l *ledger.Ledger, lamports uint64) types.Account {
	acc := types.NewAccount()
	_, err := l.Airdrop(ctx, acc.PublicKey, lamports)
	require.Nil(t, err)
	return acc
}

func TestRentMinimumBalance(t *testing.T) {
	rent := ledger.DefaultConfiguration().Rent
	require.Equal(t, uint64(1461600), rent.MinimumBalance(82))
	require.Equal(t, uint64(890880), rent.MinimumBalance(0))
}

func TestTransfer(t *testing.T) {
	require := require.New(t)
	ctx, l := testLedger(t)
	program := types.NewAccount().PublicKey

	alice := fundedAccount(t, ctx, l, testSol)
	bob := types.NewAccount().PublicKey

	tx, err := l.Execute(ctx, program, ledger.TransactionParam{Memo: "pay", Signers: []types.Account{alice}}, func(rt *ledger.Runtime) error {
		rt.Msg("paying %s", bob.ToBase58())
		return rt.Invoke().Transfer(alice.PublicKey, bob, 400)
	})
	require.Nil(err)
	require.Equal(ledger.TransactionStateCommitted, tx.State)
	require.Equal([]string{"Program log: paying " + bob.ToBase58()}, tx.Logs)
	require.Equal([]string{alice.PublicKey.ToBase58()}, tx.Signers)

	balance, err := l.Balance(alice.PublicKey)
	require.Nil(err)
	require.Equal(uint64(testSol-400), balance)
	balance, err = l.Balance(bob)
	require.Nil(err)
	require.Equal(uint64(400), balance)

	_, err = l.Execute(ctx, program, ledger.TransactionParam{Signers: []types.Account{alice}}, func(rt *ledger.Runtime) error {
		return rt.Invoke().Transfer(alice.PublicKey, bob, 2*testSol)
	})
	require.ErrorIs(err, ledger.ErrInsufficientFunds)

	_, err = l.Execute(ctx, program, ledger.TransactionParam{Signers: []types.Account{alice}}, func(rt *ledger.Runtime) error {
		return rt.Invoke().Transfer(bob, alice.PublicKey, 100)
	})
	require.ErrorIs(err, ledger.ErrMissingSignature)

	_, err = l.Execute(ctx, program, ledger.TransactionParam{}, func(rt *ledger.Runtime) error {
		return nil
	})
	require.ErrorIs(err, ledger.ErrInvalidTransaction)

	failed, err := l.ListTransactions(ledger.TransactionStateFailed, 10)
	require.Nil(err)
	require.Len(failed, 2)
	require.NotEmpty(failed[0].Origin)
	require.NotEqual(failed[0].Origin, failed[0].TraceId)
}

func TestExecuteDiscardsOnError(t *testing.T) {
	require := require.New(t)
	ctx, l := testLedger(t)
	program := types.NewAccount().PublicKey

	alice := fundedAccount(t, ctx, l, testSol)
	bob := types.NewAccount().PublicKey
	boom := errors.New("boom")

	_, err := l.Execute(ctx, program, ledger.TransactionParam{Signers: []types.Account{alice}}, func(rt *ledger.Runtime) error {
		err := rt.Invoke().Transfer(alice.PublicKey, bob, 500)
		if err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(err, boom)

	balance, err := l.Balance(alice.PublicKey)
	require.Nil(err)
	require.Equal(uint64(testSol), balance)
	acc, err := l.ReadAccount(bob)
	require.Nil(err)
	require.Nil(acc)
}

func TestExecuteReplay(t *testing.T) {
	require := require.New(t)
	ctx, l := testLedger(t)
	program := types.NewAccount().PublicKey
	alice := fundedAccount(t, ctx, l, testSol)

	runs := 0
	params := ledger.TransactionParam{
		TraceId: "9f2f6d2e-3b1a-4c8e-9a42-0f1b5e7c2d11",
		Signers: []types.Account{alice},
	}
	fn := func(rt *ledger.Runtime) error {
		runs++
		return rt.Invoke().Transfer(alice.PublicKey, program, 10)
	}
	first, err := l.Execute(ctx, program, params, fn)
	require.Nil(err)
	second, err := l.Execute(ctx, program, params, fn)
	require.Nil(err)
	require.Equal(1, runs)
	require.Equal(first.Signature, second.Signature)

	balance, err := l.Balance(program)
	require.Nil(err)
	require.Equal(uint64(10), balance)

	bob := fundedAccount(t, ctx, l, testSol)
	_, err = l.Execute(ctx, program, ledger.TransactionParam{TraceId: params.TraceId, Memo: "other", Signers: params.Signers}, fn)
	require.ErrorIs(err, ledger.ErrInvalidTransaction)
	_, err = l.Execute(ctx, program, ledger.TransactionParam{TraceId: params.TraceId, Signers: []types.Account{bob}}, fn)
	require.ErrorIs(err, ledger.ErrInvalidTransaction)
	_, err = l.Execute(ctx, types.NewAccount().PublicKey, params, fn)
	require.ErrorIs(err, ledger.ErrInvalidTransaction)
	require.Equal(1, runs)

	params.TraceId = "not-a-uuid"
	_, err = l.Execute(ctx, program, params, fn)
	require.ErrorIs(err, ledger.ErrInvalidTransaction)
}

func TestSignWithSeeds(t *testing.T) {
	require := require.New(t)
	ctx, l := testLedger(t)
	program := types.NewAccount().PublicKey
	alice := fundedAccount(t, ctx, l, testSol)

	vault, bump, err := common.FindProgramAddress([][]byte{[]byte("vault"), alice.PublicKey.Bytes()}, program)
	require.Nil(err)
	space := uint64(16)
	lamports := l.Rent().MinimumBalance(space)

	params := ledger.TransactionParam{Signers: []types.Account{alice}}
	_, err = l.Execute(ctx, program, params, func(rt *ledger.Runtime) error {
		return rt.Invoke().CreateAccount(alice.PublicKey, vault, lamports, space, program)
	})
	require.ErrorIs(err, ledger.ErrMissingSignature)

	_, err = l.Execute(ctx, program, params, func(rt *ledger.Runtime) error {
		inv := rt.Invoke()
		err := inv.SignWithSeeds([]byte("vault"), alice.PublicKey.Bytes(), []byte{bump})
		if err != nil {
			return err
		}
		err = inv.CreateAccount(alice.PublicKey, vault, lamports, space, program)
		if err != nil {
			return err
		}
		return rt.StoreProgramData(vault, []byte("hello"))
	})
	require.Nil(err)

	acc, err := l.ReadAccount(vault)
	require.Nil(err)
	require.Equal(program, acc.Owner)
	require.Equal([]byte("hello"), acc.Data)
	require.True(acc.HoldsData())

	_, err = l.Execute(ctx, program, params, func(rt *ledger.Runtime) error {
		return rt.StoreProgramData(vault, make([]byte, space+1))
	})
	require.ErrorIs(err, ledger.ErrAccountDataTooSmall)

	_, err = l.Execute(ctx, program, params, func(rt *ledger.Runtime) error {
		inv := rt.Invoke()
		err := inv.SignWithSeeds([]byte("vault"), alice.PublicKey.Bytes(), []byte{bump})
		if err != nil {
			return err
		}
		return inv.CreateAccount(alice.PublicKey, vault, lamports, space, program)
	})
	require.ErrorIs(err, ledger.ErrAccountAlreadyInUse)

	owned, err := l.ListAccountsByOwner(program, 10)
	require.Nil(err)
	require.Len(owned, 1)
}

func TestCreateAccountPrefunded(t *testing.T) {
	require := require.New(t)
	ctx, l := testLedger(t)
	program := types.NewAccount().PublicKey
	alice := fundedAccount(t, ctx, l, testSol)

	vault, bump, err := common.FindProgramAddress([][]byte{[]byte("vault"), alice.PublicKey.Bytes()}, program)
	require.Nil(err)
	space := uint64(16)
	lamports := l.Rent().MinimumBalance(space)
	_, err = l.Airdrop(ctx, vault, 1)
	require.Nil(err)

	params := ledger.TransactionParam{Signers: []types.Account{alice}}
	create := func(rt *ledger.Runtime) error {
		inv := rt.Invoke()
		err := inv.SignWithSeeds([]byte("vault"), alice.PublicKey.Bytes(), []byte{bump})
		if err != nil {
			return err
		}
		return inv.CreateAccount(alice.PublicKey, vault, lamports, space, program)
	}
	_, err = l.Execute(ctx, program, params, create)
	require.Nil(err)

	acc, err := l.ReadAccount(vault)
	require.Nil(err)
	require.Equal(program, acc.Owner)
	require.Equal(space, acc.Space)
	require.Equal(lamports, acc.Lamports)
	balance, err := l.Balance(alice.PublicKey)
	require.Nil(err)
	require.Equal(uint64(testSol)-lamports+1, balance)

	_, err = l.Execute(ctx, program, params, create)
	require.ErrorIs(err, ledger.ErrAccountAlreadyInUse)
}

func TestClockMonotonic(t *testing.T) {
	require := require.New(t)
	db, err := store.OpenBadger(context.Background(), "")
	require.Nil(err)
	defer db.Close()

	clock, err := ledger.NewClock(db)
	require.Nil(err)
	last := clock.Now()
	for i := 0; i < 100; i++ {
		now := clock.Now()
		require.True(now.After(last))
		last = now
	}

	restarted, err := ledger.NewClock(db)
	require.Nil(err)
	require.True(restarted.Now().After(last))
}
