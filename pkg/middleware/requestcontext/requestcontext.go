package requestcontext

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Result any    `json:"result"`
	Error  string `json:"error,omitempty"`
}

type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

// rejection stops the request with status and message instead of a 500.
type rejection struct {
	status  int
	message string
}

func (r rejection) Error() string {
	return r.message
}

func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var err error
		ctx := c.UserContext()
		for i, opt := range opts {
			ctx, err = opt(ctx, c)
			if err != nil {
				var rejected rejection
				if errors.As(err, &rejected) {
					return c.Status(rejected.status).JSON(Response{Error: rejected.message})
				}

				logger.ErrorContext(ctx, "failed to extract request context",
					err,
					slog.String(logger.EventKey, "requestcontext/error"),
					slog.String(logger.ModuleKey, "requestcontext"),
					slog.Int("optionIndex", i),
				)
				return c.Status(http.StatusInternalServerError).JSON(Response{Error: "internal server error"})
			}
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
