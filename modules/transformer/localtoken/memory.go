package localtoken

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/uint128"
)

var _ Ledger = (*Memory)(nil)

// Memory is an in-process ERC20 style ledger.
type Memory struct {
	mu         sync.RWMutex
	balances   map[common.Address]uint128.Uint128
	allowances map[common.Address]map[common.Address]uint128.Uint128
	payments   map[common.Hash]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		balances:   make(map[common.Address]uint128.Uint128),
		allowances: make(map[common.Address]map[common.Address]uint128.Uint128),
		payments:   make(map[common.Hash]struct{}),
	}
}

func (m *Memory) Mint(ctx context.Context, to common.Address, amount uint128.Uint128) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, overflow := m.balances[to].AddOverflow(amount)
	if overflow {
		return errors.WithStack(errs.OverflowUint128)
	}
	m.balances[to] = balance
	return nil
}

// Approve sets the amount spender may move out of owner's account.
func (m *Memory) Approve(ctx context.Context, owner, spender common.Address, amount uint128.Uint128) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.allowances[owner] == nil {
		m.allowances[owner] = make(map[common.Address]uint128.Uint128)
	}
	m.allowances[owner][spender] = amount
	return nil
}

func (m *Memory) Allowance(ctx context.Context, owner, spender common.Address) (uint128.Uint128, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.allowances[owner][spender], nil
}

func (m *Memory) BalanceOf(ctx context.Context, owner common.Address) (uint128.Uint128, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[owner], nil
}

func (m *Memory) Transfer(ctx context.Context, from, to common.Address, amount uint128.Uint128) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.move(from, to, amount)
}

func (m *Memory) Pay(ctx context.Context, reference common.Hash, from, to common.Address, amount uint128.Uint128) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[reference]; ok {
		return nil
	}
	if err := m.move(from, to, amount); err != nil {
		return err
	}
	m.payments[reference] = struct{}{}
	return nil
}

func (m *Memory) TransferFrom(ctx context.Context, from, to common.Address, amount uint128.Uint128) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	allowance := m.allowances[from][to]
	if allowance.Cmp(amount) < 0 {
		return errors.WithStack(&InsufficientAllowanceError{
			Spender:   to,
			Allowance: allowance,
			Needed:    amount,
		})
	}
	if err := m.move(from, to, amount); err != nil {
		return err
	}
	m.allowances[from][to] = allowance.Sub(amount)
	return nil
}

// move requires m.mu to be held.
func (m *Memory) move(from, to common.Address, amount uint128.Uint128) error {
	balance := m.balances[from]
	if balance.Cmp(amount) < 0 {
		return errors.WithStack(&InsufficientBalanceError{
			Sender:  from,
			Balance: balance,
			Needed:  amount,
		})
	}
	if from == to {
		return nil
	}
	credited, overflow := m.balances[to].AddOverflow(amount)
	if overflow {
		return errors.WithStack(errs.OverflowUint128)
	}
	m.balances[from] = balance.Sub(amount)
	m.balances[to] = credited
	return nil
}
