package errorhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorHandler(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		body   map[string]any
	}{
		{
			name:   "unauthorized",
			err:    errs.WithPublicMessageCode(errors.Wrap(errs.Unauthorized, "signer mismatch"), "denied", "unauthorized_caller"),
			status: http.StatusUnauthorized,
			body:   map[string]any{"error": "denied: signer mismatch: Unauthorized", "code": "unauthorized_caller"},
		},
		{
			name:   "not found",
			err:    errs.WithPublicMessageCode(errors.WithStack(errs.NotFound), "", "not_found"),
			status: http.StatusNotFound,
			body:   map[string]any{"error": "Not Found", "code": "not_found"},
		},
		{
			name:   "conflict",
			err:    errors.Wrap(errs.WithPublicMessageCode(errors.Wrap(errs.Conflict, "nonce 0"), "replayed", "invalid_nonce"), "handler"),
			status: http.StatusConflict,
			body:   map[string]any{"error": "replayed: nonce 0: Conflict", "code": "invalid_nonce"},
		},
		{
			name:   "validation",
			err:    errs.WithPublicMessage(errors.New("'amount' is required"), "validation error"),
			status: http.StatusBadRequest,
			body:   map[string]any{"error": "validation error: 'amount' is required"},
		},
		{
			name:   "fiber error",
			err:    fiber.ErrMethodNotAllowed,
			status: http.StatusMethodNotAllowed,
		},
		{
			name:   "unhandled",
			err:    errors.New("database is on fire"),
			status: http.StatusInternalServerError,
			body:   map[string]any{"error": "Internal Server Error"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: NewHTTPErrorHandler()})
			app.Get("/", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.body == nil {
				return
			}
			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.body, body)
		})
	}
}
