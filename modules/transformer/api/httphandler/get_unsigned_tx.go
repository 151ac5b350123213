package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type getUnsignedTxResponse = HttpResponse[outboundRecord]

func (h *HttpHandler) GetUnsignedTx(ctx *fiber.Ctx) (err error) {
	record, err := h.usecase.GetUnsignedTx(ctx.UserContext())
	if err != nil {
		return toPublicError(err, "error during GetUnsignedTx")
	}

	result, err := mapOutboundRecord(record)
	if err != nil {
		return errors.Wrap(err, "can't map outbound record")
	}
	return errors.WithStack(ctx.JSON(getUnsignedTxResponse{Result: &result}))
}
