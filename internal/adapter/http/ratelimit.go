package adapthttp

import (
	"context"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// redisCounter is the subset of *redis.Client used by RedisLimiter.
type redisCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RedisLimiter is a fixed-window counter kept in Redis.
type RedisLimiter struct {
	client redisCounter
	prefix string
	limit  int
	window time.Duration
}

// NewRedisLimiter allows limit requests per window for each key.
func NewRedisLimiter(client redisCounter, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow increments the key's counter and reports whether it is within limit.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := fmt.Sprintf("rate_limit:%s:%s", l.prefix, key)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return true, 0, err
	}

	// First hit opens the window.
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return true, 0, fmt.Errorf("expire %s: %w", k, err)
		}
	}

	if count > int64(l.limit) {
		ttl, err := l.client.TTL(ctx, k).Result()
		if err != nil {
			return true, 0, fmt.Errorf("ttl %s: %w", k, err)
		}
		// A key without expiry would block the client forever; reopen the window.
		if ttl < 0 {
			if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
				return true, 0, fmt.Errorf("expire %s: %w", k, err)
			}
			ttl = l.window
		}
		if ttl == 0 {
			ttl = l.window
		}
		return false, ttl, nil
	}
	return true, 0, nil
}

// rateLimit rejects requests over the limiter's budget with 429. Limiter
// errors let the request through.
func (s *Server) rateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next(w, r)
			return
		}

		allowed, retryAfter, err := s.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			log.Printf("rate limit: %v", err)
			next(w, r)
			return
		}
		if !allowed {
			secs := int(math.Ceil(retryAfter.Seconds()))
			w.Header().Set("Retry-After", fmt.Sprint(secs))
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":       "too many requests",
				"retry_after": secs,
			})
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
