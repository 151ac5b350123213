// Package omniverse implements the Omniverse transaction wire format: addresses, the canonical
// ABI encoding of transfers, commitment hashes and EIP-712 typed-data signatures.
package omniverse

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/uint128"
)

// AddressLength is the byte length of an Omniverse address.
const AddressLength = 32

type (
	// AssetId identifies an Omniverse asset.
	AssetId = common.Hash

	// TxId is the commitment hash of a transaction's canonical encoding.
	TxId = common.Hash
)

// Address is an Omniverse address: the x-coordinate of the owner's secp256k1 public key.
type Address [AddressLength]byte

// HexToAddress parses a 0x-prefixed 32-byte hex string.
func HexToAddress(s string) (Address, error) {
	var a Address
	if err := a.UnmarshalText([]byte(s)); err != nil {
		return Address{}, errors.Wrap(errs.InvalidArgument, err.Error())
	}
	return a, nil
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string { return hexutil.Encode(a[:]) }

func (a Address) String() string { return a.Hex() }

func (a Address) IsZero() bool { return a == Address{} }

func (a Address) MarshalText() ([]byte, error) {
	return hexutil.Bytes(a[:]).MarshalText()
}

func (a *Address) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Address", input, a[:])
}

// Input references an unspent output consumed by a transaction.
type Input struct {
	TxId    TxId            `json:"txid"`
	Index   uint32          `json:"index"`
	Amount  uint128.Uint128 `json:"amount"`
	Address Address         `json:"omniAddress"`
}

// Output credits an amount to an address.
type Output struct {
	Address Address         `json:"omniAddress"`
	Amount  uint128.Uint128 `json:"amount"`
}

// Transfer moves an asset between Omniverse addresses. Fee inputs and outputs are
// denominated in the fee asset.
type Transfer struct {
	AssetId    AssetId       `json:"assetId"`
	Signature  hexutil.Bytes `json:"signature"`
	Inputs     []Input       `json:"inputs"`
	Outputs    []Output      `json:"outputs"`
	FeeInputs  []Input       `json:"feeInputs"`
	FeeOutputs []Output      `json:"feeOutputs"`
}

// Sender returns the address of the first input, which must be the signer.
func (t *Transfer) Sender() (Address, bool) {
	if len(t.Inputs) == 0 {
		return Address{}, false
	}
	return t.Inputs[0].Address, true
}

// OutputIndex returns the output index of Outputs[i] (fee=false) or FeeOutputs[i] (fee=true).
// Fee outputs are numbered after the regular outputs.
func (t *Transfer) OutputIndex(i int, fee bool) uint32 {
	if fee {
		return uint32(len(t.Outputs) + i)
	}
	return uint32(i)
}

// AmountTo sums the regular outputs credited to addr.
func (t *Transfer) AmountTo(addr Address) (uint128.Uint128, error) {
	total := uint128.Zero
	for _, out := range t.Outputs {
		if out.Address != addr {
			continue
		}
		sum, overflow := total.AddOverflow(out.Amount)
		if overflow {
			return uint128.Zero, errors.WithStack(errs.OverflowUint128)
		}
		total = sum
	}
	return total, nil
}

// Clone returns a deep copy of the transfer.
func (t Transfer) Clone() Transfer {
	var signature hexutil.Bytes
	if t.Signature != nil {
		signature = append(hexutil.Bytes{}, t.Signature...)
	}
	return Transfer{
		AssetId:    t.AssetId,
		Signature:  signature,
		Inputs:     append([]Input(nil), t.Inputs...),
		Outputs:    append([]Output(nil), t.Outputs...),
		FeeInputs:  append([]Input(nil), t.FeeInputs...),
		FeeOutputs: append([]Output(nil), t.FeeOutputs...),
	}
}
