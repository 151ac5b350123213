package httphandler

import (
	"crypto/subtle"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/transformer")

	r.Get("/info", h.GetInfo)
	r.Post("/omniverse", h.ConvertToOmniverse)
	r.Get("/nonce/:owner", h.GetNonce)
	r.Post("/local", h.ConvertToLocal)
	r.Post("/claims/owner/:owner", h.ClaimAll)
	r.Post("/claims/:txId", h.Claim)
	r.Get("/records/outbound/:owner", h.GetOutboundRecords)
	r.Get("/records/inbound/:owner", h.GetInboundRecords)
	r.Get("/unsigned-tx", h.GetUnsignedTx)
	r.Get("/utxos", h.GetUTXOs)
	if h.adminToken != "" {
		r.Post("/utxos", h.adminAuth(), h.AddUTXOs)
	}
	return nil
}

// adminAuth accepts requests carrying "Authorization: Bearer <admin token>".
func (h *HttpHandler) adminAuth() fiber.Handler {
	return keyauth.New(keyauth.Config{
		Validator: func(_ *fiber.Ctx, key string) (bool, error) {
			if subtle.ConstantTimeCompare([]byte(key), []byte(h.adminToken)) != 1 {
				return false, keyauth.ErrMissingOrMalformedAPIKey
			}
			return true, nil
		},
		ErrorHandler: func(_ *fiber.Ctx, err error) error {
			return errs.WithPublicMessageCode(errors.Wrap(errs.Unauthorized, err.Error()), "admin authentication required", "unauthorized")
		},
	})
}
