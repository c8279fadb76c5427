package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"custmaker/pkg/apperr"
	"custmaker/pkg/ratelimit"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(admin fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(RequestID(), Recover(), RequestLogger())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/bad", func(c *fiber.Ctx) error { return apperr.InvalidInput("count", "must be positive") })
	app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })
	if admin != nil {
		app.Delete("/admin", admin, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	}
	return app
}

func decodeError(t *testing.T, body io.Reader) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestRequestID(t *testing.T) {
	app := newTestApp(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestErrorHandler_AppError(t *testing.T) {
	resp, err := newTestApp(nil).Test(httptest.NewRequest("GET", "/bad", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeError(t, resp.Body)
	assert.False(t, body.Success)
	assert.Equal(t, apperr.CodeInvalidInput, body.Error.Code)
	assert.Equal(t, "count", body.Error.Details["field"])
	assert.NotEmpty(t, body.RequestID)
}

func TestErrorHandler_NotFound(t *testing.T) {
	resp, err := newTestApp(nil).Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apperr.CodeNotFound, decodeError(t, resp.Body).Error.Code)
}

func TestRecover(t *testing.T) {
	resp, err := newTestApp(nil).Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, apperr.CodeInternalError, decodeError(t, resp.Body).Error.Code)
}

func TestAdminAuth(t *testing.T) {
	const secret = "test-secret"
	app := newTestApp(AdminAuth(secret, false))

	valid, err := SignAdminToken(secret, "ops")
	require.NoError(t, err)
	wrongKey, err := SignAdminToken("other-secret", "ops")
	require.NoError(t, err)
	notAdmin, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{Role: "viewer"}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"not bearer", "Basic " + valid, fiber.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, fiber.StatusUnauthorized},
		{"wrong role", "Bearer " + notAdmin, fiber.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", fiber.StatusUnauthorized},
		{"valid", "Bearer " + valid, fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("DELETE", "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAdminAuth_NoSecret(t *testing.T) {
	resp, err := newTestApp(AdminAuth("", true)).Test(httptest.NewRequest("DELETE", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = newTestApp(AdminAuth("", false)).Test(httptest.NewRequest("DELETE", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGenerationLimit(t *testing.T) {
	guard := ratelimit.NewGuard(nil, &ratelimit.Config{MaxConcurrent: 1, RequestsPerWindow: 2, Window: time.Minute})
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Post("/generate", GenerationLimit(guard), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/generate", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/generate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decodeError(t, resp.Body).Error.Code)
}
