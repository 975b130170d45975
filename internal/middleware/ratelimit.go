package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what a limited route does when its counter store cannot be reached.
type FailPolicy int

const (
	// FailOpen lets the request through.
	FailOpen FailPolicy = iota
	// FailClosed answers 503.
	FailClosed
)

const msgSlowDown = "Too many requests, please slow down and try again shortly."

var errNoLimiterStore = errors.New("rate limit store not configured")

// limiterBypassed is true for local and test runs, where forms are submitted in quick succession.
func limiterBypassed() bool {
	switch strings.ToLower(os.Getenv("APP_ENV")) {
	case "", "development", "test":
		return true
	}
	return false
}

// CheckRateLimit counts one hit for id against resource in a fixed window and
// reports whether the hit is within limit. The window starts on the first hit.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if limiterBypassed() {
		return true, nil
	}
	if rdb == nil {
		return false, errNoLimiterStore
	}

	key := "rl:" + resource + ":" + id
	hits, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("count %s: %w", key, err)
	}
	if hits == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return hits <= int64(limit), nil
}

// RateLimit limits a route to limit hits per window for each client, failing open.
// name groups routes under one counter; the request path is used when it is omitted.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit store failure policy.
// Logged-in clients are counted by account, anonymous ones by IP.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, limiterClient(c), limit, window)
		switch {
		case err != nil && policy == FailClosed:
			Logger.WarnContext(c.UserContext(), "rate limit store unavailable, rejecting",
				slog.String("resource", resource),
				slog.String("error", err.Error()),
			)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "rate limit unavailable"})
		case err != nil:
			return c.Next()
		case allowed:
			return c.Next()
		}

		RateLimitRejections.WithLabelValues(resource).Inc()
		c.Status(fiber.StatusTooManyRequests)
		if WantsJSON(c) {
			return c.JSON(fiber.Map{"success": false, "error": "rate limit exceeded"})
		}
		return c.SendString(msgSlowDown)
	}
}

func limiterClient(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(uint); ok && uid != 0 {
		return fmt.Sprintf("user:%d", uid)
	}
	return "ip:" + c.IP()
}
