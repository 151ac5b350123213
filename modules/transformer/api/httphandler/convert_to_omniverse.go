package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/usecase"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gofiber/fiber/v2"
)

// convertToOmniverseRequest must be signed by caller, see usecase.OutboundRequest.
type convertToOmniverseRequest struct {
	Caller    string        `json:"caller"`
	Recipient string        `json:"recipient"`
	Amount    string        `json:"amount"`
	Nonce     uint64        `json:"nonce"`
	Signature hexutil.Bytes `json:"signature"`
}

func (r convertToOmniverseRequest) Validate() error {
	var errList []error
	if !common.IsHexAddress(r.Caller) {
		errList = append(errList, errors.New("'caller' is not a valid address"))
	}
	if _, err := omniverse.HexToAddress(r.Recipient); err != nil {
		errList = append(errList, errors.New("'recipient' is not a valid omniverse address"))
	}
	if _, err := parseAmount(r.Amount); err != nil {
		errList = append(errList, errors.New("'amount' is not a valid amount"))
	}
	if len(r.Signature) == 0 {
		errList = append(errList, errors.New("'signature' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type convertToOmniverseResponse = HttpResponse[outboundRecord]

func (h *HttpHandler) ConvertToOmniverse(ctx *fiber.Ctx) (err error) {
	var req convertToOmniverseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	recipient, _ := omniverse.HexToAddress(req.Recipient)
	amount, _ := parseAmount(req.Amount)
	record, err := h.usecase.ConvertToOmniverseSigned(ctx.UserContext(), usecase.OutboundRequest{
		Caller:    common.HexToAddress(req.Caller),
		Recipient: recipient,
		Amount:    amount,
		Nonce:     req.Nonce,
	}, req.Signature)
	if err != nil {
		return toPublicError(err, "error during ConvertToOmniverse")
	}

	result, err := mapOutboundRecord(record)
	if err != nil {
		return errors.Wrap(err, "can't map outbound record")
	}
	return errors.WithStack(ctx.JSON(convertToOmniverseResponse{Result: &result}))
}

type getNonceResult struct {
	Nonce uint64 `json:"nonce"`
}

type getNonceResponse = HttpResponse[getNonceResult]

// GetNonce returns the nonce the owner's next ConvertToOmniverse request must be signed with.
func (h *HttpHandler) GetNonce(ctx *fiber.Ctx) (err error) {
	owner, err := parseOwner(ctx.Params("owner"))
	if err != nil {
		return errors.WithStack(err)
	}
	nonce, err := h.usecase.OutboundNonce(ctx.UserContext(), owner)
	if err != nil {
		return errors.Wrap(err, "error during GetNonce")
	}
	return errors.WithStack(ctx.JSON(getNonceResponse{Result: &getNonceResult{Nonce: nonce}}))
}
