package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit creates a per-user rate limiter middleware instance. Anonymous callers are
// keyed by IP. A nil writer keeps the limiter's default response.
func RateLimit(identifier string, max int, window time.Duration, writeError ErrorWriter) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}

	cfg := limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			userID, _ := c.Locals(LocalUserID).(string)
			if userID == "" {
				userID = c.IP()
			}
			return fmt.Sprintf("%s:%s", identifier, userID)
		},
	}
	if writeError != nil {
		cfg.LimitReached = func(c *fiber.Ctx) error {
			return writeError(c, fiber.StatusTooManyRequests, "Too many requests, please try again later")
		}
	}

	return limiter.New(cfg)
}
