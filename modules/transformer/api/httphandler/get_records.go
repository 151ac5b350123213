package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	getRecordsDefaultLimit = 20
	getRecordsMaxLimit     = 100
)

type getRecordsRequest struct {
	Owner  string `params:"owner"`
	Limit  int32  `query:"limit"`
	Offset int32  `query:"offset"`
}

func (r getRecordsRequest) Validate() error {
	var errList []error
	if !common.IsHexAddress(r.Owner) {
		errList = append(errList, errors.New("'owner' is not a valid address"))
	}
	if r.Limit < 0 {
		errList = append(errList, errors.New("'limit' must be non-negative"))
	}
	if r.Limit > getRecordsMaxLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", getRecordsMaxLimit))
	}
	if r.Offset < 0 {
		errList = append(errList, errors.New("'offset' must be non-negative"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func parseGetRecordsRequest(ctx *fiber.Ctx) (getRecordsRequest, error) {
	var req getRecordsRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return req, errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return req, errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return req, errors.WithStack(err)
	}
	if req.Limit == 0 {
		req.Limit = getRecordsDefaultLimit
	}
	return req, nil
}

type getRecordsResult[T any] struct {
	List  []T   `json:"list"`
	Total int64 `json:"total"`
}

type getOutboundRecordsResponse = HttpResponse[getRecordsResult[outboundRecord]]

func (h *HttpHandler) GetOutboundRecords(ctx *fiber.Ctx) (err error) {
	req, err := parseGetRecordsRequest(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	owner := common.HexToAddress(req.Owner)

	var (
		records []*entity.OutboundRecord
		total   int64
	)
	eg, ectx := errgroup.WithContext(ctx.UserContext())
	eg.Go(func() error {
		result, err := h.usecase.GetOutboundRecords(ectx, owner, req.Limit, req.Offset)
		if err != nil {
			return errors.Wrap(err, "error during GetOutboundRecords")
		}
		records = result
		return nil
	})
	eg.Go(func() error {
		result, err := h.usecase.CountOutboundRecords(ectx, owner)
		if err != nil {
			return errors.Wrap(err, "error during CountOutboundRecords")
		}
		total = result
		return nil
	})
	if err := eg.Wait(); err != nil {
		return errors.WithStack(err)
	}

	list := make([]outboundRecord, 0, len(records))
	for _, record := range records {
		mapped, err := mapOutboundRecord(record)
		if err != nil {
			return errors.Wrap(err, "can't map outbound record")
		}
		list = append(list, mapped)
	}

	resp := getOutboundRecordsResponse{
		Result: &getRecordsResult[outboundRecord]{
			List:  list,
			Total: total,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getInboundRecordsResponse = HttpResponse[getRecordsResult[inboundRecord]]

func (h *HttpHandler) GetInboundRecords(ctx *fiber.Ctx) (err error) {
	req, err := parseGetRecordsRequest(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	owner := common.HexToAddress(req.Owner)

	var (
		records []*entity.PendingClaimRecord
		total   int64
	)
	eg, ectx := errgroup.WithContext(ctx.UserContext())
	eg.Go(func() error {
		result, err := h.usecase.GetInboundRecords(ectx, owner, req.Limit, req.Offset)
		if err != nil {
			return errors.Wrap(err, "error during GetInboundRecords")
		}
		records = result
		return nil
	})
	eg.Go(func() error {
		result, err := h.usecase.CountInboundRecords(ectx, owner)
		if err != nil {
			return errors.Wrap(err, "error during CountInboundRecords")
		}
		total = result
		return nil
	})
	if err := eg.Wait(); err != nil {
		return errors.WithStack(err)
	}

	resp := getInboundRecordsResponse{
		Result: &getRecordsResult[inboundRecord]{
			List:  lo.Map(records, func(record *entity.PendingClaimRecord, _ int) inboundRecord { return mapInboundRecord(record) }),
			Total: total,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
