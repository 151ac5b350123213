package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type claimRequest struct {
	TxId string `params:"txId"`
}

func (r claimRequest) Validate() error {
	var errList []error
	if _, err := parseTxId(r.TxId); err != nil {
		errList = append(errList, errors.New("'txId' is not a valid transaction id"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type claimResponse = HttpResponse[settledClaim]

func (h *HttpHandler) Claim(ctx *fiber.Ctx) (err error) {
	var req claimRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	txId, _ := parseTxId(req.TxId)
	claim, err := h.usecase.Claim(ctx.UserContext(), txId)
	if err != nil {
		return toPublicError(err, "error during Claim")
	}

	result := mapSettledClaim(claim)
	return errors.WithStack(ctx.JSON(claimResponse{Result: &result}))
}

type claimAllRequest struct {
	Owner string `params:"owner"`
}

func (r claimAllRequest) Validate() error {
	var errList []error
	if !common.IsHexAddress(r.Owner) {
		errList = append(errList, errors.New("'owner' is not a valid address"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type claimAllResult struct {
	Claimed []settledClaim   `json:"claimed"`
	Skipped []omniverse.TxId `json:"skipped"`
}

type claimAllResponse = HttpResponse[claimAllResult]

func (h *HttpHandler) ClaimAll(ctx *fiber.Ctx) (err error) {
	var req claimAllRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.usecase.ClaimAll(ctx.UserContext(), common.HexToAddress(req.Owner))
	if err != nil {
		return toPublicError(err, "error during ClaimAll")
	}

	resp := claimAllResponse{
		Result: &claimAllResult{
			Claimed: lo.Map(result.Claimed, func(claim *entity.SettledClaim, _ int) settledClaim {
				return mapSettledClaim(claim)
			}),
			Skipped: lo.Ternary(result.Skipped == nil, []omniverse.TxId{}, result.Skipped),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

func parseTxId(s string) (omniverse.TxId, error) {
	var txId omniverse.TxId
	if err := txId.UnmarshalText([]byte(s)); err != nil {
		return omniverse.TxId{}, errors.WithStack(err)
	}
	return txId, nil
}
