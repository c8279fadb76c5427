package middleware

import (
	"math"
	"strconv"

	"custmaker/pkg/apperr"
	"custmaker/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// GenerationLimit throttles generation requests per admin subject, or per
// client IP when the request is unauthenticated.
func GenerationLimit(guard *ratelimit.Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, _ := c.Locals("subject").(string)
		if key == "" {
			key = c.IP()
		}

		result, release := guard.Acquire(c.UserContext(), key)
		if !result.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds()))))
			return apperr.New("RATE_LIMITED", result.Reason, fiber.StatusTooManyRequests)
		}
		defer release()

		return c.Next()
	}
}
