package omniverse

import (
	"math/big"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/samber/lo"
)

var (
	abiInputComponents = []abi.ArgumentMarshaling{
		{Name: "txid", Type: "bytes32"},
		{Name: "index", Type: "uint64"},
		{Name: "amount", Type: "uint128"},
		{Name: "address", Type: "bytes32"},
	}
	abiOutputComponents = []abi.ArgumentMarshaling{
		{Name: "address", Type: "bytes32"},
		{Name: "amount", Type: "uint128"},
	}

	// tuple(bytes32, bytes, tuple(bytes32, uint64, uint128, bytes32)[], tuple(bytes32, uint128)[],
	//       tuple(bytes32, uint64, uint128, bytes32)[], tuple(bytes32, uint128)[])
	transferArguments = abi.Arguments{{
		Type: utils.Must(abi.NewType("tuple", "", []abi.ArgumentMarshaling{
			{Name: "assetId", Type: "bytes32"},
			{Name: "signature", Type: "bytes"},
			{Name: "inputs", Type: "tuple[]", Components: abiInputComponents},
			{Name: "outputs", Type: "tuple[]", Components: abiOutputComponents},
			{Name: "feeInputs", Type: "tuple[]", Components: abiInputComponents},
			{Name: "feeOutputs", Type: "tuple[]", Components: abiOutputComponents},
		})),
	}}
)

// field order must follow the tuple components, decoding copies fields by position.
type abiInput struct {
	Txid    [32]byte
	Index   uint64
	Amount  *big.Int
	Address [32]byte
}

type abiOutput struct {
	Address [32]byte
	Amount  *big.Int
}

type abiTransfer struct {
	AssetId    [32]byte
	Signature  []byte
	Inputs     []abiInput
	Outputs    []abiOutput
	FeeInputs  []abiInput
	FeeOutputs []abiOutput
}

// Encode returns the canonical ABI encoding of the transfer, signature included.
func Encode(t Transfer) ([]byte, error) {
	encoded, err := transferArguments.Pack(abiTransfer{
		AssetId:    t.AssetId,
		Signature:  lo.Ternary(t.Signature == nil, []byte{}, []byte(t.Signature)),
		Inputs:     lo.Map(t.Inputs, func(in Input, _ int) abiInput { return toABIInput(in) }),
		Outputs:    lo.Map(t.Outputs, func(out Output, _ int) abiOutput { return toABIOutput(out) }),
		FeeInputs:  lo.Map(t.FeeInputs, func(in Input, _ int) abiInput { return toABIInput(in) }),
		FeeOutputs: lo.Map(t.FeeOutputs, func(out Output, _ int) abiOutput { return toABIOutput(out) }),
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't abi encode transfer")
	}
	return encoded, nil
}

// Decode parses a canonical ABI encoded transfer.
func Decode(data []byte) (tx Transfer, err error) {
	values, err := transferArguments.Unpack(data)
	if err != nil {
		return Transfer{}, errors.Wrap(errs.InvalidArgument, "malformed transfer encoding: "+err.Error())
	}
	if len(values) != 1 {
		return Transfer{}, errors.Wrapf(errs.InvalidArgument, "expected 1 decoded value, got %d", len(values))
	}

	// abi.ConvertType panics when the shapes disagree.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(errs.InvalidArgument, "can't convert decoded transfer: %v", r)
		}
	}()
	decoded := abi.ConvertType(values[0], new(abiTransfer)).(*abiTransfer)

	tx = Transfer{
		AssetId: decoded.AssetId,
	}
	if len(decoded.Signature) > 0 {
		tx.Signature = decoded.Signature
	}
	if tx.Inputs, err = fromABIInputs(decoded.Inputs); err != nil {
		return Transfer{}, errors.Wrap(err, "inputs")
	}
	if tx.Outputs, err = fromABIOutputs(decoded.Outputs); err != nil {
		return Transfer{}, errors.Wrap(err, "outputs")
	}
	if tx.FeeInputs, err = fromABIInputs(decoded.FeeInputs); err != nil {
		return Transfer{}, errors.Wrap(err, "fee inputs")
	}
	if tx.FeeOutputs, err = fromABIOutputs(decoded.FeeOutputs); err != nil {
		return Transfer{}, errors.Wrap(err, "fee outputs")
	}
	return tx, nil
}

// CommitmentHash returns the keccak256 commitment of an encoded transaction.
func CommitmentHash(encoded []byte) TxId {
	return crypto.Keccak256Hash(encoded)
}

// TxId returns the commitment hash of the transfer's canonical encoding.
func (t *Transfer) TxId() (TxId, error) {
	encoded, err := Encode(*t)
	if err != nil {
		return TxId{}, errors.WithStack(err)
	}
	return CommitmentHash(encoded), nil
}

func toABIInput(in Input) abiInput {
	return abiInput{
		Txid:    in.TxId,
		Index:   uint64(in.Index),
		Amount:  in.Amount.Big(),
		Address: in.Address,
	}
}

func toABIOutput(out Output) abiOutput {
	return abiOutput{
		Address: out.Address,
		Amount:  out.Amount.Big(),
	}
}

func fromABIInputs(inputs []abiInput) ([]Input, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	result := make([]Input, 0, len(inputs))
	for i, in := range inputs {
		if in.Index > uint64(^uint32(0)) {
			return nil, errors.Wrapf(errs.InvalidArgument, "input %d: index %d overflows uint32", i, in.Index)
		}
		amount, err := uint128.FromBig(in.Amount)
		if err != nil {
			return nil, errors.Wrapf(errs.OverflowUint128, "input %d: amount", i)
		}
		result = append(result, Input{
			TxId:    in.Txid,
			Index:   uint32(in.Index),
			Amount:  amount,
			Address: in.Address,
		})
	}
	return result, nil
}

func fromABIOutputs(outputs []abiOutput) ([]Output, error) {
	if len(outputs) == 0 {
		return nil, nil
	}
	result := make([]Output, 0, len(outputs))
	for i, out := range outputs {
		amount, err := uint128.FromBig(out.Amount)
		if err != nil {
			return nil, errors.Wrapf(errs.OverflowUint128, "output %d: amount", i)
		}
		result = append(result, Output{
			Address: out.Address,
			Amount:  amount,
		})
	}
	return result, nil
}
