package middleware

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger is a middleware that logs each HTTP request as one JSON object per
// line. Fields:
// - request_id (taken from context locals set by RequestID middleware)
// - owner (hashed owner id when the request is authenticated)
// - method, path, status
// - bytes_out
// - latency (in milliseconds, as float)
func Logger() fiber.Handler {
	return LoggerTo(os.Stdout)
}

// LoggerTo is Logger with an explicit destination, for tests.
func LoggerTo(w io.Writer) fiber.Handler {
	enc := json.NewEncoder(w)

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// Collect fields after the handler executed to capture final status.
		fields := map[string]any{
			"request_id": requestID(c),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"bytes_out":  len(c.Response().Body()),
			"latency":    float64(time.Since(start).Microseconds()) / 1000.0,
		}
		if owner := OwnerIDFromCtx(c); owner != "" {
			fields["owner"] = owner
		}
		_ = enc.Encode(fields)

		return err
	}
}

func requestID(c *fiber.Ctx) string {
	rid, _ := c.Locals(RequestIDLocalKey).(string)
	return rid
}
