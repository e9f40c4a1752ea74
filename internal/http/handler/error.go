package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/YoonkyungKim/fragments/internal/convert"
	"github.com/YoonkyungKim/fragments/internal/http/middleware"
	"github.com/YoonkyungKim/fragments/internal/model"
	"github.com/YoonkyungKim/fragments/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking
// internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "NOT_FOUND", "TYPE_MISMATCH")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError classifies a service/model/convert error into its HTTP
// status class. Validation and type mismatch are caller-fixable (400),
// missing fragments are 404, policy-rejected conversions are 415, and
// execution faults (conversion or storage) are 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request")
	case errors.Is(err, service.ErrTypeMismatch):
		return writeError(c, fiber.StatusBadRequest, "TYPE_MISMATCH", "content type doesn't match the existing fragment's type")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "no fragment with this id")
	case errors.Is(err, convert.ErrUnsupportedConversion):
		return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_CONVERSION", "fragment cannot be returned as the requested type")
	case errors.Is(err, convert.ErrConversionFailed):
		return writeError(c, fiber.StatusInternalServerError, "CONVERSION_FAILED", "failed to convert fragment data")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="fragments"`)
			return writeError(c, status, "UNAUTHORIZED", "unauthorized")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
