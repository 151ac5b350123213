// Package localtoken is the account based token ledger paid out by the transformer.
package localtoken

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/uint128"
)

// Ledger moves local tokens between accounts.
type Ledger interface {
	BalanceOf(ctx context.Context, owner common.Address) (uint128.Uint128, error)
	// TransferFrom moves amount from `from` to `to`, consuming the allowance `from` granted to `to`.
	TransferFrom(ctx context.Context, from, to common.Address, amount uint128.Uint128) error
	Transfer(ctx context.Context, from, to common.Address, amount uint128.Uint128) error
	// Pay is Transfer applied at most once per reference. Paying a reference again returns nil without moving tokens.
	Pay(ctx context.Context, reference common.Hash, from, to common.Address, amount uint128.Uint128) error
}

var (
	ErrInsufficientAllowance = errs.ErrorKind("insufficient allowance")
	ErrInsufficientBalance   = errs.ErrorKind("insufficient balance")
)

type InsufficientAllowanceError struct {
	Spender   common.Address
	Allowance uint128.Uint128
	Needed    uint128.Uint128
}

func (e *InsufficientAllowanceError) Error() string {
	return fmt.Sprintf("insufficient allowance: spender %s has %s, needs %s", e.Spender, e.Allowance, e.Needed)
}

func (e *InsufficientAllowanceError) Is(target error) bool {
	return target == ErrInsufficientAllowance
}

type InsufficientBalanceError struct {
	Sender  common.Address
	Balance uint128.Uint128
	Needed  uint128.Uint128
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: sender %s has %s, needs %s", e.Sender, e.Balance, e.Needed)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
