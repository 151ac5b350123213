package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/localtoken"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/usecase"
)

var publicErrorCodes = []struct {
	kind error
	code string
}{
	{usecase.ErrPublicKeyNotMatch, "public_key_not_match"},
	{usecase.ErrNotSupportedAsset, "not_supported_asset"},
	{usecase.ErrInvalidSignature, "invalid_signature"},
	{usecase.ErrNotIncluded, "not_included"},
	{usecase.ErrNoOmniverseTokenReceived, "no_omniverse_token_received"},
	{usecase.ErrTransactionDuplicated, "transaction_duplicated"},
	{usecase.ErrRecordNotFound, "record_not_found"},
	{usecase.ErrNotEnoughLocalToken, "not_enough_local_token"},
	{usecase.ErrInsufficientLiquidity, "insufficient_liquidity"},
	{usecase.ErrInvalidAmount, "invalid_amount"},
	{usecase.ErrUnauthorizedCaller, "unauthorized_caller"},
	{usecase.ErrInvalidNonce, "invalid_nonce"},
	{localtoken.ErrInsufficientAllowance, "insufficient_allowance"},
	{localtoken.ErrInsufficientBalance, "insufficient_balance"},
	{errs.InvalidArgument, "invalid_argument"},
	{errs.OverflowUint128, "overflow"},
	{errs.Conflict, "conflict"},
	{errs.NotFound, "not_found"},
}

// toPublicError exposes domain errors to the caller. Anything else is returned unchanged and ends up as a 500.
func toPublicError(err error, prefix string) error {
	for _, c := range publicErrorCodes {
		if errors.Is(err, c.kind) {
			return errs.WithPublicMessageCode(err, prefix, c.code)
		}
	}
	return errors.Wrap(err, prefix)
}
