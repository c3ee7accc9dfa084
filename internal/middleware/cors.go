package middleware

import (
	"strings"

	"bazaar-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowedSuffix string
	AllowDev      bool
}

// CORS allows origins ending with AllowedSuffix, plus localhost when
// AllowDev is set. Credentials allowed.
func CORS(cfg CORSConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		// No origin (same-origin or tools): allow
		if origin == "" {
			return c.Next()
		}
		if allowed(cfg, origin) {
			setCORSHeaders(c, origin)
			if c.Method() == fiber.MethodOptions {
				return c.SendStatus(fiber.StatusNoContent)
			}
			return c.Next()
		}
		return response.Error(c, "Not allowed by CORS", fiber.StatusForbidden, nil)
	}
}

func allowed(cfg CORSConfig, origin string) bool {
	if cfg.AllowDev && (strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")) {
		return true
	}
	return cfg.AllowedSuffix != "" && strings.HasSuffix(strings.ToLower(origin), strings.ToLower(cfg.AllowedSuffix))
}

func setCORSHeaders(c *fiber.Ctx, origin string) {
	c.Set("Access-Control-Allow-Origin", origin)
	c.Set("Access-Control-Allow-Credentials", "true")
	c.Set("Access-Control-Allow-Headers", "Content-Type, "+AccountHeader)
	c.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
}
