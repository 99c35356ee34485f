package middleware

import (
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"
)

type cachedResponse struct {
	status int
	body   []byte
}

// IdempotencyCache remembers responses by Idempotency-Key for the life of
// the process.
type IdempotencyCache struct {
	mu        sync.Mutex
	responses map[string]cachedResponse
}

func NewIdempotencyCache() *IdempotencyCache {
	return &IdempotencyCache{responses: make(map[string]cachedResponse)}
}

// Idempotency replays the stored response for a repeated key instead of
// running the handler again. Requests that carry a key are handled one at a
// time so a retry racing the original cannot apply twice.
func Idempotency(cache *IdempotencyCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("Idempotency-Key")
		if key == "" {
			return c.Next()
		}

		cache.mu.Lock()
		defer cache.mu.Unlock()

		if hit, ok := cache.responses[key]; ok {
			slog.Info("Idempotency hit, returning cached response", "key", key)
			c.Set("X-Idempotency-Hit", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(hit.status).Send(hit.body)
		}

		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status >= 500 {
			return nil
		}
		cache.responses[key] = cachedResponse{
			status: status,
			body:   append([]byte(nil), c.Response().Body()...),
		}
		slog.Debug("Idempotency key saved", "key", key)

		return nil
	}
}
