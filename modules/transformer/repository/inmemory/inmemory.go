// Package inmemory provides a TransformerDataGateway kept in process memory.
package inmemory

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/datagateway"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/samber/lo"
)

var ErrTxAlreadyExists = errors.New("Transaction already exists. Call Commit() or Rollback() first.")

var _ datagateway.TransformerDataGatewayWithTx = (*Repository)(nil)

type state struct {
	utxos    []*entity.UTXO
	pending  []*entity.PendingClaimRecord
	settled  map[omniverse.TxId]*entity.SettledClaim
	outbound []*entity.OutboundRecord
}

func newState() *state {
	return &state{
		settled: make(map[omniverse.TxId]*entity.SettledClaim),
	}
}

// clone copies the indexes. Stored entities are never mutated in place, so they are shared.
func (s *state) clone() *state {
	settled := make(map[omniverse.TxId]*entity.SettledClaim, len(s.settled))
	for k, v := range s.settled {
		settled[k] = v
	}
	return &state{
		utxos:    append([]*entity.UTXO(nil), s.utxos...),
		pending:  append([]*entity.PendingClaimRecord(nil), s.pending...),
		settled:  settled,
		outbound: append([]*entity.OutboundRecord(nil), s.outbound...),
	}
}

type store struct {
	lock  sync.RWMutex
	state *state
}

// Repository works on a snapshot while a transaction is open and swaps it in on Commit.
// Transactions are not merged: callers must not run concurrent write transactions.
type Repository struct {
	store *store
	tx    *state
}

func NewRepository() *Repository {
	return &Repository{
		store: &store{state: newState()},
	}
}

func (r *Repository) BeginTransformerTx(ctx context.Context) (datagateway.TransformerDataGatewayWithTx, error) {
	if r.tx != nil {
		return nil, errors.WithStack(ErrTxAlreadyExists)
	}
	r.store.lock.RLock()
	snapshot := r.store.state.clone()
	r.store.lock.RUnlock()
	return &Repository{
		store: r.store,
		tx:    snapshot,
	}, nil
}

func (r *Repository) Commit(ctx context.Context) error {
	if r.tx == nil {
		return nil
	}
	r.store.lock.Lock()
	r.store.state = r.tx
	r.store.lock.Unlock()
	r.tx = nil
	return nil
}

func (r *Repository) Rollback(ctx context.Context) error {
	r.tx = nil
	return nil
}

// view reads the open transaction, or the store under its read lock when there is none.
func (r *Repository) view(fn func(s *state)) {
	if r.tx != nil {
		fn(r.tx)
		return
	}
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()
	fn(r.store.state)
}

// update applies fn to the open transaction, or atomically to the store when there is none.
func (r *Repository) update(fn func(s *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.lock.Lock()
	defer r.store.lock.Unlock()
	next := r.store.state.clone()
	if err := fn(next); err != nil {
		return err
	}
	r.store.state = next
	return nil
}

// paginate returns items[offset:offset+limit], clamped to the slice bounds. limit <= 0 means no limit.
func paginate[T any](items []T, limit int32, offset int32) []T {
	start := lo.Clamp(int(offset), 0, len(items))
	end := len(items)
	if limit > 0 && start+int(limit) < end {
		end = start + int(limit)
	}
	return items[start:end]
}
