// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter counts attempts per key in fixed Redis windows. A nil client
// allows everything, which is how the memory driver runs.
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow increments the counter for scope/subject and reports whether the
// attempt is within max for the window.
func (r *RateLimiter) Allow(ctx context.Context, scope, subject string, max int64, window time.Duration) (bool, error) {
	if r == nil || r.client == nil {
		return true, nil
	}
	key := fmt.Sprintf("ratelimit:%s:%s", scope, strings.ToLower(subject))

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment %s attempt: %w", scope, err)
	}

	// Set expiration on first attempt
	if count == 1 {
		r.client.Expire(ctx, key, window)
	}

	return count <= max, nil
}

// CheckLoginAttempt allows 5 login attempts per 15 minutes per ip/email.
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, ip, email string) (bool, error) {
	return r.Allow(ctx, "login", ip+":"+email, 5, 15*time.Minute)
}

// ResetLoginAttempts resets the login attempt counter
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, ip, email string) error {
	if r == nil || r.client == nil {
		return nil
	}
	key := fmt.Sprintf("ratelimit:login:%s", strings.ToLower(ip+":"+email))
	return r.client.Del(ctx, key).Err()
}

// CheckContactAttempt allows 5 contact-form submissions per hour per email.
func (r *RateLimiter) CheckContactAttempt(ctx context.Context, email string) (bool, error) {
	return r.Allow(ctx, "contact", email, 5, time.Hour)
}
