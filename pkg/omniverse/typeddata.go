package omniverse

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/gaze-network/omniverse-transformer/common/errs"
)

// SignatureLength is the length of an r||s||v signature.
const SignatureLength = 65

// ErrInvalidSignature is returned when a signature is malformed or was not produced by the expected signer.
var ErrInvalidSignature = errs.ErrorKind("invalid signature")

const (
	DefaultDomainName              = "Omniverse Transaction"
	DefaultDomainVersion           = "1"
	DefaultDomainChainId           = 1
	DefaultDomainVerifyingContract = "0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC"
)

var transferTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Transfer": {
		{Name: "asset_id", Type: "bytes32"},
		{Name: "inputs", Type: "Input[]"},
		{Name: "outputs", Type: "Output[]"},
		{Name: "fee_inputs", Type: "Input[]"},
		{Name: "fee_outputs", Type: "Output[]"},
	},
	"Input": {
		{Name: "txid", Type: "bytes32"},
		{Name: "index", Type: "uint32"},
		{Name: "amount", Type: "uint128"},
		{Name: "address", Type: "bytes32"},
	},
	"Output": {
		{Name: "amount", Type: "uint128"},
		{Name: "address", Type: "bytes32"},
	},
}

// Domain is the EIP-712 domain Omniverse transfers are signed under.
type Domain struct {
	Name              string
	Version           string
	ChainId           int64
	VerifyingContract common.Address
}

// DefaultDomain returns the domain used by the Omniverse ledger.
func DefaultDomain() Domain {
	return Domain{
		Name:              DefaultDomainName,
		Version:           DefaultDomainVersion,
		ChainId:           DefaultDomainChainId,
		VerifyingContract: common.HexToAddress(DefaultDomainVerifyingContract),
	}
}

// TypedDataHash returns the EIP-712 digest of t. The signature field is not part of the digest.
func (d Domain) TypedDataHash(t Transfer) (common.Hash, error) {
	typedData := apitypes.TypedData{
		Types:       transferTypes,
		PrimaryType: "Transfer",
		Domain: apitypes.TypedDataDomain{
			Name:              d.Name,
			Version:           d.Version,
			ChainId:           (*math.HexOrDecimal256)(big.NewInt(d.ChainId)),
			VerifyingContract: d.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"asset_id":    hexutil.Bytes(t.AssetId.Bytes()),
			"inputs":      typedInputs(t.Inputs),
			"outputs":     typedOutputs(t.Outputs),
			"fee_inputs":  typedInputs(t.FeeInputs),
			"fee_outputs": typedOutputs(t.FeeOutputs),
		},
	}
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "can't hash typed data")
	}
	return common.BytesToHash(digest), nil
}

// Sign signs t with key and returns the r||s||v signature, v being 27 or 28.
func (d Domain) Sign(key *btcec.PrivateKey, t Transfer) ([]byte, error) {
	digest, err := d.TypedDataHash(t)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	compact, err := ecdsa.SignCompact(key, digest.Bytes(), false)
	if err != nil {
		return nil, errors.Wrap(err, "can't sign transfer")
	}
	// compact layout is header||r||s with header = 27 + recovery id
	signature := make([]byte, SignatureLength)
	copy(signature, compact[1:])
	signature[64] = compact[0]
	return signature, nil
}

// ValidateSignature checks signature is in canonical r||s||v form: v is 27 or 28 and s is in the lower half
// of the curve order. The signature is part of the transaction id, so any other encoding of the same
// signature would be another transaction.
func ValidateSignature(signature []byte) error {
	if len(signature) != SignatureLength {
		return errors.Wrapf(ErrInvalidSignature, "signature length %d", len(signature))
	}
	if v := signature[64]; v != 27 && v != 28 {
		return errors.Wrapf(ErrInvalidSignature, "recovery id %d, expected 27 or 28", v)
	}
	var s btcec.ModNScalar
	if overflow := s.SetByteSlice(signature[32:64]); overflow || s.IsZero() {
		return errors.Wrap(ErrInvalidSignature, "s out of range")
	}
	if s.IsOverHalfOrder() {
		return errors.Wrap(ErrInvalidSignature, "s is not in the lower half order")
	}
	return nil
}

// Recover returns the public key that produced signature over t. Only canonical signatures are accepted.
func (d Domain) Recover(t Transfer, signature []byte) (*btcec.PublicKey, error) {
	if err := ValidateSignature(signature); err != nil {
		return nil, errors.WithStack(err)
	}
	digest, err := d.TypedDataHash(t)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	compact := make([]byte, SignatureLength)
	compact[0] = signature[64]
	copy(compact[1:], signature[:64])
	pub, _, err := ecdsa.RecoverCompact(compact, digest.Bytes())
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return pub, nil
}

// Verify checks that signature over t was produced by the owner of expected.
func (d Domain) Verify(t Transfer, signature []byte, expected Address) error {
	pub, err := d.Recover(t, signature)
	if err != nil {
		return errors.WithStack(err)
	}
	if signer := AddressFromPublicKey(pub); signer != expected {
		return errors.Wrapf(ErrInvalidSignature, "signed by %s, expected %s", signer, expected)
	}
	return nil
}

func typedInputs(inputs []Input) []interface{} {
	result := make([]interface{}, 0, len(inputs))
	for _, in := range inputs {
		result = append(result, map[string]interface{}{
			"txid":    hexutil.Bytes(in.TxId.Bytes()),
			"index":   new(big.Int).SetUint64(uint64(in.Index)),
			"amount":  in.Amount.Big(),
			"address": hexutil.Bytes(in.Address.Bytes()),
		})
	}
	return result
}

func typedOutputs(outputs []Output) []interface{} {
	result := make([]interface{}, 0, len(outputs))
	for _, out := range outputs {
		result = append(result, map[string]interface{}{
			"amount":  out.Amount.Big(),
			"address": hexutil.Bytes(out.Address.Bytes()),
		})
	}
	return result
}
