// Package verification issues and checks short-lived email verification
// codes used by registration and password changes. Codes live in Redis
// under a per-email key and expire automatically.
package verification

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "verification:%s"
	codeTTL   = 10 * time.Minute
)

// CodeVerifier is the subset of Service consumed by the user account
// service.
type CodeVerifier interface {
	Verify(ctx context.Context, email, code string) (bool, error)
	Invalidate(ctx context.Context, email string) error
}

// Service stores verification codes in Redis.
type Service struct {
	rdb *redis.Client
}

// NewService creates a Service backed by the given Redis client. A nil
// client disables verification: Issue fails and Verify rejects all
// codes.
func NewService(rdb *redis.Client) *Service {
	return &Service{rdb: rdb}
}

func key(email string) string {
	return fmt.Sprintf(keyPrefix, email)
}

// Issue generates a fresh six-digit code for the email, replacing any
// previously issued code, and returns it.
func (s *Service) Issue(ctx context.Context, email string) (string, error) {
	if s.rdb == nil {
		return "", fmt.Errorf("verification unavailable: redis not connected")
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := s.rdb.Set(ctx, key(email), code, codeTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}
	return code, nil
}

// Verify reports whether code matches the unexpired code issued for the
// email. It does not consume the code; call Invalidate after a
// successful flow.
func (s *Service) Verify(ctx context.Context, email, code string) (bool, error) {
	if s.rdb == nil || code == "" {
		return false, nil
	}

	stored, err := s.rdb.Get(ctx, key(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == code, nil
}

// Invalidate removes the code issued for the email, if any.
func (s *Service) Invalidate(ctx context.Context, email string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, key(email)).Err()
}
