package middleware

import "github.com/gofiber/fiber/v2"

// SecurityHeaders adds security headers to all responses. The dashboard loads
// plotly from its CDN, so scripts from that host are allowed.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Content-Security-Policy",
			"default-src 'self'; script-src 'self' 'unsafe-inline' https://cdn.plot.ly; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'")
		return c.Next()
	}
}
