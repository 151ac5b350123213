package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getUTXOsRequest struct {
	AssetId string `query:"assetId"`
}

func (r getUTXOsRequest) Validate() error {
	var errList []error
	if r.AssetId != "" {
		if _, err := parseTxId(r.AssetId); err != nil {
			errList = append(errList, errors.New("'assetId' is not a valid asset id"))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getUTXOsResponse = HttpResponse[[]utxo]

// GetUTXOs lists the transformer's liquidity, of the transformed asset unless assetId is given.
func (h *HttpHandler) GetUTXOs(ctx *fiber.Ctx) (err error) {
	var req getUTXOsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	assetId := h.usecase.AssetId()
	if req.AssetId != "" {
		assetId, _ = parseTxId(req.AssetId)
	}

	utxos, err := h.usecase.GetUTXOs(ctx.UserContext(), assetId)
	if err != nil {
		return errors.Wrap(err, "error during GetUTXOs")
	}

	result := lo.Map(utxos, func(u *entity.UTXO, _ int) utxo { return mapUTXO(u) })
	return errors.WithStack(ctx.JSON(getUTXOsResponse{Result: &result}))
}

// newUTXO is a deposit of liquidity. AssetId is required: the zero id is the fee asset.
type newUTXO struct {
	AssetId *omniverse.AssetId `json:"assetId"`
	TxId    omniverse.TxId     `json:"txid"`
	Index   uint32             `json:"index"`
	Amount  string             `json:"amount"`
	Owner   omniverse.Address  `json:"omniAddress"`
}

type addUTXOsRequest struct {
	UTXOs []newUTXO `json:"utxos"`
}

func (r addUTXOsRequest) Validate() error {
	var errList []error
	if len(r.UTXOs) == 0 {
		errList = append(errList, errors.New("'utxos' is required"))
	}
	for i, u := range r.UTXOs {
		if u.AssetId == nil {
			errList = append(errList, errors.Errorf("'utxos[%d].assetId' is required", i))
		}
		if _, err := parseAmount(u.Amount); err != nil {
			errList = append(errList, errors.Errorf("'utxos[%d].amount' is not a valid amount", i))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type addUTXOsResult struct {
	Added int `json:"added"`
}

type addUTXOsResponse = HttpResponse[addUTXOsResult]

// AddUTXOs deposits transformer liquidity. Mounted behind the admin token.
func (h *HttpHandler) AddUTXOs(ctx *fiber.Ctx) (err error) {
	var req addUTXOsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	utxos := make([]*entity.UTXO, 0, len(req.UTXOs))
	for _, u := range req.UTXOs {
		amount, _ := parseAmount(u.Amount)
		utxos = append(utxos, &entity.UTXO{
			Owner:   u.Owner,
			AssetId: *u.AssetId,
			TxId:    u.TxId,
			Index:   u.Index,
			Amount:  amount,
		})
	}
	if err := h.usecase.AddUTXOs(ctx.UserContext(), utxos); err != nil {
		return toPublicError(err, "error during AddUTXOs")
	}

	return errors.WithStack(ctx.JSON(addUTXOsResponse{Result: &addUTXOsResult{Added: len(utxos)}}))
}
