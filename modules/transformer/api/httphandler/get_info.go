package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/usecase"
	"github.com/gaze-network/omniverse-transformer/pkg/decimals"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

type getInfoResult struct {
	AssetId            omniverse.AssetId `json:"assetId"`
	FeeAssetId         omniverse.AssetId `json:"feeAssetId"`
	FeeAmount          string            `json:"feeAmount"`
	PriceRate          string            `json:"priceRate"`
	Price              string            `json:"price"`
	TransformerAddress omniverse.Address `json:"transformerAddress"`
	LocalAddress       common.Address    `json:"localAddress"`
	LocalBalance       string            `json:"localBalance"`
	AssetLiquidity     string            `json:"assetLiquidity"`
	FeeLiquidity       string            `json:"feeLiquidity"`
}

type getInfoResponse = HttpResponse[getInfoResult]

func (h *HttpHandler) GetInfo(ctx *fiber.Ctx) (err error) {
	var (
		localBalance   uint128.Uint128
		assetLiquidity uint128.Uint128
		feeLiquidity   uint128.Uint128
	)

	eg, ectx := errgroup.WithContext(ctx.UserContext())
	eg.Go(func() error {
		balance, err := h.usecase.LocalToken().BalanceOf(ectx, h.usecase.LocalAddress())
		if err != nil {
			return errors.Wrap(err, "error during BalanceOf")
		}
		localBalance = balance
		return nil
	})
	eg.Go(func() error {
		total, err := h.usecase.Liquidity(ectx, h.usecase.AssetId())
		if err != nil {
			return errors.Wrap(err, "error during Liquidity")
		}
		assetLiquidity = total
		return nil
	})
	eg.Go(func() error {
		total, err := h.usecase.Liquidity(ectx, h.usecase.FeeAssetId())
		if err != nil {
			return errors.Wrap(err, "error during Liquidity")
		}
		feeLiquidity = total
		return nil
	})
	if err := eg.Wait(); err != nil {
		return errors.WithStack(err)
	}

	resp := getInfoResponse{
		Result: &getInfoResult{
			AssetId:            h.usecase.AssetId(),
			FeeAssetId:         h.usecase.FeeAssetId(),
			FeeAmount:          h.usecase.FeeAmount().String(),
			PriceRate:          h.usecase.PriceRate().String(),
			Price:              decimals.ToDecimal(h.usecase.PriceRate(), usecase.PriceDecimals).String(),
			TransformerAddress: h.usecase.TransformerAddress(),
			LocalAddress:       h.usecase.LocalAddress(),
			LocalBalance:       localBalance.String(),
			AssetLiquidity:     assetLiquidity.String(),
			FeeLiquidity:       feeLiquidity.String(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
