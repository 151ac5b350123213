package usecase

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
)

var (
	ErrPublicKeyNotMatch        = errs.ErrorKind("public key not match")
	ErrNotSupportedAsset        = errs.ErrorKind("not supported asset")
	ErrInvalidSignature         = omniverse.ErrInvalidSignature
	ErrNotIncluded              = errs.ErrorKind("transaction not included")
	ErrNoOmniverseTokenReceived = errs.ErrorKind("no omniverse token received")
	ErrTransactionDuplicated    = errs.ErrorKind("transaction duplicated")
	ErrRecordNotFound           = errs.ErrorKind("record not found")
	ErrNotEnoughLocalToken      = errs.ErrorKind("not enough local token")
	ErrInsufficientLiquidity    = errs.ErrorKind("insufficient liquidity")
	ErrInvalidAmount            = errs.ErrorKind("invalid amount")
	ErrUnauthorizedCaller       = errs.ErrorKind("unauthorized caller")
	ErrInvalidNonce             = errs.ErrorKind("invalid nonce")
)

// PublicKeyNotMatchError reports the first input address (Expected) and the address derived from the submitted key (Actual).
type PublicKeyNotMatchError struct {
	Expected omniverse.Address
	Actual   omniverse.Address
}

func (e *PublicKeyNotMatchError) Error() string {
	return fmt.Sprintf("public key not match: expected %s, actual %s", e.Expected, e.Actual)
}

func (e *PublicKeyNotMatchError) Is(target error) bool { return target == ErrPublicKeyNotMatch }

type NotSupportedAssetError struct {
	AssetId omniverse.AssetId
}

func (e *NotSupportedAssetError) Error() string {
	return fmt.Sprintf("not supported asset %s", e.AssetId)
}

func (e *NotSupportedAssetError) Is(target error) bool { return target == ErrNotSupportedAsset }

type NotIncludedError struct {
	TxId omniverse.TxId
}

func (e *NotIncludedError) Error() string {
	return fmt.Sprintf("transaction %s not included", e.TxId)
}

func (e *NotIncludedError) Is(target error) bool { return target == ErrNotIncluded }

type TransactionDuplicatedError struct {
	TxId omniverse.TxId
}

func (e *TransactionDuplicatedError) Error() string {
	return fmt.Sprintf("transaction %s duplicated", e.TxId)
}

func (e *TransactionDuplicatedError) Is(target error) bool {
	return target == ErrTransactionDuplicated || target == errs.Conflict
}

type RecordNotFoundError struct {
	TxId omniverse.TxId
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("record %s not found", e.TxId)
}

func (e *RecordNotFoundError) Is(target error) bool {
	return target == ErrRecordNotFound || target == errs.NotFound
}

// NotEnoughLocalTokenError is retryable: the pending claim is kept.
type NotEnoughLocalTokenError struct {
	Required  uint128.Uint128
	Available uint128.Uint128
}

func (e *NotEnoughLocalTokenError) Error() string {
	return fmt.Sprintf("not enough local token: required %s, available %s", e.Required, e.Available)
}

func (e *NotEnoughLocalTokenError) Is(target error) bool { return target == ErrNotEnoughLocalToken }

type InsufficientLiquidityError struct {
	AssetId   omniverse.AssetId
	Required  uint128.Uint128
	Available uint128.Uint128
}

func (e *InsufficientLiquidityError) Error() string {
	return fmt.Sprintf("insufficient liquidity of asset %s: required %s, available %s", e.AssetId, e.Required, e.Available)
}

func (e *InsufficientLiquidityError) Is(target error) bool { return target == ErrInsufficientLiquidity }

// UnauthorizedCallerError reports the account named by a request (Caller) and the account that signed it (Signer).
type UnauthorizedCallerError struct {
	Caller common.Address
	Signer common.Address
}

func (e *UnauthorizedCallerError) Error() string {
	return fmt.Sprintf("request for %s signed by %s", e.Caller, e.Signer)
}

func (e *UnauthorizedCallerError) Is(target error) bool {
	return target == ErrUnauthorizedCaller || target == errs.Unauthorized
}

type InvalidNonceError struct {
	Caller   common.Address
	Expected uint64
	Actual   uint64
}

func (e *InvalidNonceError) Error() string {
	return fmt.Sprintf("invalid nonce for %s: expected %d, got %d", e.Caller, e.Expected, e.Actual)
}

func (e *InvalidNonceError) Is(target error) bool {
	return target == ErrInvalidNonce || target == errs.Conflict
}
