package ledger

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"slices"
	"time"

	"github.com/MixinNetwork/mixin/crypto"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/fox-one/mixin-sdk-go"
	"github.com/gofrs/uuid"
	"github.com/mr-tron/base58"
)

const (
	TransactionStateInitial   = 10
	TransactionStateCommitted = 11
	TransactionStateFailed    = 12
)

type TransactionParam struct {
	TraceId string
	Memo    string
	Signers []types.Account
}

type Transaction struct {
	TraceId   string
	Origin    string
	Signature string
	Program   string
	Memo      string
	Signers   []string
	Logs      []string
	State     int
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (tx *Transaction) StateName() string {
	switch tx.State {
	case TransactionStateInitial:
		return "initial"
	case TransactionStateCommitted:
		return "committed"
	case TransactionStateFailed:
		return "failed"
	}
	panic(tx.State)
}

// a committed trace id only replays the operation it was committed for
func (tx *Transaction) sameOperation(other *Transaction) bool {
	return tx.Program == other.Program && tx.Memo == other.Memo && slices.Equal(tx.Signers, other.Signers)
}

// the caller should decide a unique trace id so that a committed operation is never applied twice
func (l *Ledger) buildTransaction(ctx context.Context, program common.PublicKey, traceId, memo string, signers []types.Account) (*Transaction, []common.PublicKey, error) {
	if traceId == "" {
		traceId = uuid.Must(uuid.NewV4()).String()
	}
	id, err := uuid.FromString(traceId)
	if err != nil || id.String() == uuid.Nil.String() {
		return nil, nil, fmt.Errorf("%w: trace id %s", ErrInvalidTransaction, traceId)
	}

	keys := make([]common.PublicKey, len(signers))
	msg := append(program.Bytes(), []byte(id.String()+memo)...)
	for i, s := range signers {
		keys[i] = s.PublicKey
		msg = append(msg, s.PublicKey.Bytes()...)
	}
	digest := crypto.NewHash(msg)

	tx := &Transaction{
		TraceId:   id.String(),
		Program:   program.ToBase58(),
		Memo:      memo,
		Signature: base58.Encode(digest[:]),
		State:     TransactionStateInitial,
	}
	for i, s := range signers {
		if len(s.PrivateKey) != ed25519.PrivateKeySize {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingSignature, s.PublicKey.ToBase58())
		}
		sig := ed25519.Sign(s.PrivateKey, digest[:])
		if !ed25519.Verify(ed25519.PublicKey(s.PublicKey.Bytes()), digest[:], sig) {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingSignature, s.PublicKey.ToBase58())
		}
		if i == 0 {
			tx.Signature = base58.Encode(sig)
		}
		tx.Signers = append(tx.Signers, s.PublicKey.ToBase58())
	}
	return tx, keys, nil
}

// failed attempts are kept under their own id, the trace id stays free for a retry
func (l *Ledger) recordFailure(tx *Transaction, cause error) {
	failed := *tx
	failed.Origin = tx.TraceId
	failed.TraceId = mixin.UniqueConversationID(tx.TraceId, fmt.Sprint(tx.CreatedAt.UnixNano()))
	failed.State = TransactionStateFailed
	failed.Error = cause.Error()
	failed.UpdatedAt = tx.CreatedAt
	err := l.store.WriteTransaction(&failed)
	if err != nil {
		panic(err)
	}
}
