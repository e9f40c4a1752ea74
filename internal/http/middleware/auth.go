package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// OwnerIDLocalKey is the key used to store the resolved owner id in Fiber's
// context locals.
const OwnerIDLocalKey = "owner_id"

// OwnerIDFromCtx returns the owner id resolved by BasicAuth, or "" when the
// request was not authenticated.
func OwnerIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(OwnerIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// HashOwnerID derives the opaque owner partition key from an authenticated
// identity (e.g., an email address). The raw identity never reaches storage
// keys or logs.
func HashOwnerID(identity string) string {
	sum := sha256.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:])
}

// BasicAuth returns a middleware that authenticates requests with HTTP Basic
// credentials against the configured user set and stores the hashed owner id
// in context locals. Unauthenticated requests get a 401 through the global
// error handler.
func BasicAuth(users map[string]string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, pass, ok := parseBasicAuth(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.ErrUnauthorized
		}

		want, found := users[user]
		// Compare even for unknown users to keep timing uniform.
		if subtle.ConstantTimeCompare([]byte(pass), []byte(want)) != 1 || !found {
			return fiber.ErrUnauthorized
		}

		c.Locals(OwnerIDLocalKey, HashOwnerID(user))
		return c.Next()
	}
}

func parseBasicAuth(header string) (user, pass string, ok bool) {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	user, pass, ok = strings.Cut(string(decoded), ":")
	return user, pass, ok
}
