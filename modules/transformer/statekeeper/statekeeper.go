// Package statekeeper answers whether an Omniverse transaction has been included in the ledger.
package statekeeper

import (
	"context"
	"sync"

	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
)

type Oracle interface {
	IsIncluded(ctx context.Context, tx omniverse.Transfer) (bool, error)
}

var _ Oracle = (*Static)(nil)

// Static answers from a fixed set of included transaction ids.
type Static struct {
	mu        sync.RWMutex
	acceptAll bool
	included  map[omniverse.TxId]struct{}
}

func NewStatic(txIds ...omniverse.TxId) *Static {
	s := &Static{
		included: make(map[omniverse.TxId]struct{}, len(txIds)),
	}
	for _, txId := range txIds {
		s.included[txId] = struct{}{}
	}
	return s
}

// NewAcceptAll returns an oracle that reports every transaction as included.
func NewAcceptAll() *Static {
	s := NewStatic()
	s.acceptAll = true
	return s
}

func (s *Static) Include(txIds ...omniverse.TxId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, txId := range txIds {
		s.included[txId] = struct{}{}
	}
}

func (s *Static) IsIncluded(ctx context.Context, tx omniverse.Transfer) (bool, error) {
	if s.acceptAll {
		return true, nil
	}
	txId, err := tx.TxId()
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.included[txId]
	return ok, nil
}
