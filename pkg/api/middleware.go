package api

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vaporstack/vapor/internal/logger"
	"github.com/vaporstack/vapor/internal/ratelimit"
)

// apiKeyAuth gates every route behind the shared-secret header check.
// Requests that fail the check never reach a handler.
func apiKeyAuth(apiKey string) fiber.Handler {
	secret := []byte(apiKey)

	return func(c *fiber.Ctx) error {
		presented := []byte(c.Get("X-API-Key"))
		if subtle.ConstantTimeCompare(presented, secret) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or missing API Key"})
		}
		return c.Next()
	}
}

// securityHeaders adds the standard hardening headers to every response,
// including error responses.
func securityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Content-Security-Policy", "default-src 'none'")
		return c.Next()
	}
}

// rateLimit rejects requests above the configured rate with 429. Runs
// before the auth check.
func rateLimit(limiter *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !limiter.Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
		}
		return c.Next()
	}
}

// requestLogger logs one line per request at debug level.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug("%s %s -> %d (%s)",
			c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))
		return err
	}
}
