package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gofiber/fiber/v2"
)

// convertToLocalRequest carries the transfer either as JSON or as its ABI encoding in RawTx.
type convertToLocalRequest struct {
	Tx        *transfer     `json:"tx"`
	RawTx     hexutil.Bytes `json:"rawTx"`
	PublicKey hexutil.Bytes `json:"publicKey"`
}

func (r convertToLocalRequest) Validate() error {
	var errList []error
	if r.Tx == nil && len(r.RawTx) == 0 {
		errList = append(errList, errors.New("one of 'tx' or 'rawTx' is required"))
	}
	if r.Tx != nil && len(r.RawTx) > 0 {
		errList = append(errList, errors.New("only one of 'tx' or 'rawTx' is allowed"))
	}
	if len(r.PublicKey) == 0 {
		errList = append(errList, errors.New("'publicKey' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (r convertToLocalRequest) transfer() (omniverse.Transfer, error) {
	if r.Tx != nil {
		tx, err := r.Tx.toTransfer()
		if err != nil {
			return omniverse.Transfer{}, errs.WithPublicMessage(err, "invalid 'tx'")
		}
		return tx, nil
	}
	tx, err := omniverse.Decode(r.RawTx)
	if err != nil {
		return omniverse.Transfer{}, errs.WithPublicMessage(err, "invalid 'rawTx'")
	}
	return tx, nil
}

type convertToLocalResponse = HttpResponse[inboundRecord]

func (h *HttpHandler) ConvertToLocal(ctx *fiber.Ctx) (err error) {
	var req convertToLocalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	tx, err := req.transfer()
	if err != nil {
		return errors.WithStack(err)
	}

	record, err := h.usecase.ConvertToLocal(ctx.UserContext(), tx, req.PublicKey)
	if err != nil {
		return toPublicError(err, "error during ConvertToLocal")
	}

	result := mapInboundRecord(record)
	return errors.WithStack(ctx.JSON(convertToLocalResponse{Result: &result}))
}
