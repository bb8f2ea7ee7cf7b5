// Package cache provides a nil-tolerant Redis cache layer. When Redis
// is unavailable every operation degrades to a no-op so the API keeps
// serving from the database.
package cache

import (
	"context"
	"log/slog"
	"time"

	"kidtube/internal/middleware"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// InitRedis connects the package-level client to the given address. A
// failed ping leaves the client nil and the cache disabled.
func InitRedis(addr string) {
	client = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis connection failed, continuing without cache",
			slog.String("addr", addr),
			slog.String("error", err.Error()),
		)
		client = nil
	} else {
		middleware.Logger.Info("Redis connected successfully")
	}
}

// SetClient replaces the package-level client. Used by tests and by
// bootstrap code that owns the client lifecycle.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the package-level client, which may be nil.
func GetClient() *redis.Client {
	return client
}
