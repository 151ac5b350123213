package usecase

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/datagateway"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
)

// OutboundRequest is signed by a local account to convert its tokens to Omniverse.
// Nonce must equal the number of outbound records the account already has.
type OutboundRequest struct {
	Caller    common.Address
	Recipient omniverse.Address
	Amount    uint128.Uint128
	Nonce     uint64
}

// Hash returns the EIP-191 personal message digest of r, bound to the transformer at address transformer.
func (r OutboundRequest) Hash(transformer omniverse.Address) common.Hash {
	message := fmt.Sprintf("Omniverse transformer %s\ncaller: %s\nrecipient: %s\namount: %s\nnonce: %d",
		transformer, r.Caller.Hex(), r.Recipient, r.Amount, r.Nonce)
	return common.BytesToHash(accounts.TextHash([]byte(message)))
}

// SignOutboundRequest returns the r||s||v signature of r by key, v being 27 or 28.
func SignOutboundRequest(key *btcec.PrivateKey, transformer omniverse.Address, r OutboundRequest) ([]byte, error) {
	signature, err := crypto.Sign(r.Hash(transformer).Bytes(), key.ToECDSA())
	if err != nil {
		return nil, errors.Wrap(err, "can't sign outbound request")
	}
	signature[crypto.RecoveryIDOffset] += 27
	return signature, nil
}

func recoverSigner(digest common.Hash, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, errors.Wrapf(ErrUnauthorizedCaller, "signature length %d", len(signature))
	}
	sig := append([]byte(nil), signature...)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return common.Address{}, errors.Wrap(ErrUnauthorizedCaller, err.Error())
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// OutboundNonce returns the nonce the next signed request of caller must carry.
func (u *Usecase) OutboundNonce(ctx context.Context, caller common.Address) (uint64, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return outboundNonce(ctx, u.transformerDg, caller)
}

func outboundNonce(ctx context.Context, dg datagateway.TransformerReaderDataGateway, caller common.Address) (uint64, error) {
	count, err := dg.CountOutboundRecords(ctx, caller)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count outbound records")
	}
	return uint64(count), nil
}

// ConvertToOmniverseSigned runs ConvertToOmniverse for req.Caller once signature proves the caller signed req.
// A request is accepted once: the conversion moves the caller's nonce forward.
func (u *Usecase) ConvertToOmniverseSigned(ctx context.Context, req OutboundRequest, signature []byte) (*entity.OutboundRecord, error) {
	signer, err := recoverSigner(req.Hash(u.identity.Address), signature)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if signer != req.Caller {
		return nil, errors.WithStack(&UnauthorizedCallerError{Caller: req.Caller, Signer: signer})
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	nonce, err := outboundNonce(ctx, u.transformerDg, req.Caller)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if req.Nonce != nonce {
		return nil, errors.WithStack(&InvalidNonceError{Caller: req.Caller, Expected: nonce, Actual: req.Nonce})
	}
	return u.convertToOmniverse(ctx, req.Caller, req.Recipient, req.Amount)
}
