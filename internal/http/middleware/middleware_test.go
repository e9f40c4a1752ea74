package middleware

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		// Check if it's readable in handler (from response body)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()

	// Logger depends on RequestID for the request_id field
	app.Use(RequestID())
	app.Use(LoggerTo(&buf))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotContains(t, logData, "owner", "unauthenticated requests carry no owner field")
}

func basicAuthHeader(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestBasicAuth(t *testing.T) {
	users := map[string]string{"user1@email.com": "password1"}

	newApp := func() *fiber.App {
		app := fiber.New()
		app.Use(BasicAuth(users))
		app.Get("/test", func(c *fiber.Ctx) error {
			return c.SendString(OwnerIDFromCtx(c))
		})
		return app
	}

	t.Run("valid credentials resolve a hashed owner id", func(t *testing.T) {
		app := newApp()
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(fiber.HeaderAuthorization, basicAuthHeader("user1@email.com", "password1"))

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		owner := buf.String()
		assert.Equal(t, HashOwnerID("user1@email.com"), owner)
		assert.NotContains(t, owner, "@", "owner id must be opaque, not the raw identity")
		assert.Len(t, owner, 64)
	})

	t.Run("missing credentials", func(t *testing.T) {
		app := newApp()
		req := httptest.NewRequest("GET", "/test", nil)

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		app := newApp()
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(fiber.HeaderAuthorization, basicAuthHeader("user1@email.com", "wrong"))

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown user", func(t *testing.T) {
		app := newApp()
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(fiber.HeaderAuthorization, basicAuthHeader("nobody@email.com", "password1"))

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		app := newApp()
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Basic not-base64!!!")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestHashOwnerIDStable(t *testing.T) {
	assert.Equal(t, HashOwnerID("a@b.c"), HashOwnerID("a@b.c"))
	assert.NotEqual(t, HashOwnerID("a@b.c"), HashOwnerID("x@y.z"))
}
