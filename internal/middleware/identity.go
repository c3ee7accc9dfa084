package middleware

import (
	"bazaar-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccountHeader carries the caller's opaque account identity. Authentication
// of that identity belongs to the deployment's gateway, not this service.
const AccountHeader = "X-Account-Id"

const accountLocal = "account_id"

// Identity copies the account header into Locals for handlers.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(accountLocal, c.Get(AccountHeader))
		return c.Next()
	}
}

// RequireIdentity rejects state-changing requests that carry no account
// identity; the facade binds it as seller or buyer.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Caller(c) == "" {
			return response.Unauthorized(c, "Account identity required")
		}
		return c.Next()
	}
}

// Caller returns the caller's account identity, or "".
func Caller(c *fiber.Ctx) string {
	if id, ok := c.Locals(accountLocal).(string); ok {
		return id
	}
	return ""
}
