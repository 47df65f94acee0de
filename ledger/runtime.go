package ledger

import (
	"context"
	"fmt"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/near/borsh-go"
)

// Runtime is the view one executing program has of the ledger.
type Runtime struct {
	ctx     context.Context
	txn     Txn
	program common.PublicKey
	signers map[common.PublicKey]bool
	rent    Rent
	logs    []string
}

func newRuntime(ctx context.Context, txn Txn, program common.PublicKey, signers []common.PublicKey, rent Rent) *Runtime {
	rt := &Runtime{
		ctx:     ctx,
		txn:     txn,
		program: program,
		signers: make(map[common.PublicKey]bool),
		rent:    rent,
	}
	for _, k := range signers {
		rt.signers[k] = true
	}
	return rt
}

func (rt *Runtime) Program() common.PublicKey {
	return rt.program
}

func (rt *Runtime) IsSigner(key common.PublicKey) bool {
	return rt.signers[key]
}

func (rt *Runtime) MinimumBalance(space uint64) uint64 {
	return rt.rent.MinimumBalance(space)
}

func (rt *Runtime) Msg(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	rt.logs = append(rt.logs, "Program log: "+line)
	logger.Verbosef("%s %s\n", rt.program.ToBase58(), line)
}

func (rt *Runtime) ReadAccount(key common.PublicKey) (*Account, error) {
	return rt.txn.ReadAccount(key)
}

// LoadProgramData returns the data of an account owned by the executing program.
func (rt *Runtime) LoadProgramData(key common.PublicKey) ([]byte, error) {
	acc, err := rt.txn.ReadAccount(key)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, key.ToBase58())
	}
	if acc.Owner != rt.program {
		return nil, fmt.Errorf("%w: %s owned by %s", ErrInvalidAccountOwner, key.ToBase58(), acc.Owner.ToBase58())
	}
	return acc.Data, nil
}

func (rt *Runtime) StoreProgramData(key common.PublicKey, data []byte) error {
	acc, err := rt.txn.ReadAccount(key)
	if err != nil {
		return err
	}
	if acc == nil {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, key.ToBase58())
	}
	if acc.Owner != rt.program {
		return fmt.Errorf("%w: %s owned by %s", ErrInvalidAccountOwner, key.ToBase58(), acc.Owner.ToBase58())
	}
	return rt.writeData(acc, data)
}

// Invoke starts one cross program call carrying the transaction signers.
func (rt *Runtime) Invoke() *Invocation {
	inv := &Invocation{rt: rt, signers: make(map[common.PublicKey]bool)}
	for k := range rt.signers {
		inv.signers[k] = true
	}
	return inv
}

func (rt *Runtime) writeData(acc *Account, data []byte) error {
	if uint64(len(data)) > acc.Space {
		return fmt.Errorf("%w: %s needs %d has %d", ErrAccountDataTooSmall, acc.Address.ToBase58(), len(data), acc.Space)
	}
	acc.Data = data
	return rt.txn.WriteAccount(acc)
}

func (rt *Runtime) writeState(acc *Account, state interface{}) error {
	data, err := borsh.Serialize(state)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAccountData, err)
	}
	return rt.writeData(acc, data)
}

func (rt *Runtime) mustReadAccount(key common.PublicKey) (*Account, error) {
	acc, err := rt.txn.ReadAccount(key)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, key.ToBase58())
	}
	return acc, nil
}

func (rt *Runtime) credit(to common.PublicKey, lamports uint64) error {
	acc, err := rt.txn.ReadAccount(to)
	if err != nil {
		return err
	}
	if acc == nil {
		acc = &Account{Address: to, Owner: SystemProgramID}
	}
	if acc.Lamports+lamports < acc.Lamports {
		return ErrArithmeticOverflow
	}
	acc.Lamports += lamports
	return rt.txn.WriteAccount(acc)
}

// allocate funds and assigns a new account, payer must already be checked.
// A system account that only holds lamports is taken over and topped up.
func (rt *Runtime) allocate(payer, address common.PublicKey, lamports, space uint64, owner common.PublicKey) (*Account, error) {
	acc, err := rt.txn.ReadAccount(address)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		acc = &Account{Address: address, Owner: SystemProgramID}
	}
	if acc.Space > 0 || acc.Owner != SystemProgramID || address == payer {
		return nil, fmt.Errorf("%w: %s", ErrAccountAlreadyInUse, address.ToBase58())
	}
	var topup uint64
	if acc.Lamports < lamports {
		topup = lamports - acc.Lamports
	}
	if topup > 0 {
		from, err := rt.txn.ReadAccount(payer)
		if err != nil {
			return nil, err
		}
		if from == nil || from.Lamports < topup {
			return nil, fmt.Errorf("%w: %s needs %d", ErrInsufficientFunds, payer.ToBase58(), topup)
		}
		from.Lamports -= topup
		err = rt.txn.WriteAccount(from)
		if err != nil {
			return nil, err
		}
	}
	acc.Owner = owner
	acc.Lamports += topup
	acc.Space = space
	acc.Data = nil
	return acc, rt.txn.WriteAccount(acc)
}

// Invocation is one outgoing call. Program addresses of the executing program
// join its signers only through SignWithSeeds.
type Invocation struct {
	rt      *Runtime
	signers map[common.PublicKey]bool
}

func (inv *Invocation) SignWithSeeds(seeds ...[]byte) error {
	addr, err := common.CreateProgramAddress(seeds, inv.rt.program)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeeds, err)
	}
	inv.signers[addr] = true
	return nil
}

func (inv *Invocation) begin(signers ...common.PublicKey) error {
	if err := inv.rt.ctx.Err(); err != nil {
		return err
	}
	for _, k := range signers {
		if !inv.signers[k] {
			return fmt.Errorf("%w: %s", ErrMissingSignature, k.ToBase58())
		}
	}
	return nil
}
