package requestlogger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	app := fiber.New()
	app.Use(New(Config{
		WithRequestHeader:    true,
		HiddenRequestHeaders: []string{"Authorization"},
		SkipPaths:            []string{"/"},
	}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })

	testCases := []struct {
		path   string
		status int
	}{
		{"/", http.StatusOK},
		{"/ok", http.StatusOK},
		{"/missing", http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header.Set("Authorization", "secret")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
