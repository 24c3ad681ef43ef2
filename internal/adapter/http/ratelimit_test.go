package adapthttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	counts    map[string]int64
	expires   map[string]time.Duration
	incrErr   error
	expireErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{counts: make(map[string]int64), expires: make(map[string]time.Duration)}
}

func (f *fakeRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "incr", key)
	if f.incrErr != nil {
		cmd.SetErr(f.incrErr)
		return cmd
	}
	f.counts[key]++
	cmd.SetVal(f.counts[key])
	return cmd
}

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx, "expire", key)
	if f.expireErr != nil {
		cmd.SetErr(f.expireErr)
		return cmd
	}
	f.expires[key] = expiration
	cmd.SetVal(true)
	return cmd
}

// TTL reports -1 for keys without an expiry, as Redis does.
func (f *fakeRedis) TTL(ctx context.Context, key string) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(ctx, time.Second, "ttl", key)
	ttl, ok := f.expires[key]
	if !ok {
		ttl = -1
	}
	cmd.SetVal(ttl)
	return cmd
}

func TestRedisLimiter_Allow(t *testing.T) {
	rdb := newFakeRedis()
	l := NewRedisLimiter(rdb, "analyze", 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, _, err := l.Allow(ctx, "10.0.0.1")
		if err != nil || !ok {
			t.Fatalf("request %d: expected allowed, got %v %v", i+1, ok, err)
		}
	}
	if rdb.expires["rate_limit:analyze:10.0.0.1"] != time.Minute {
		t.Fatalf("expected window to be set on first hit, got %v", rdb.expires)
	}

	ok, retry, err := l.Allow(ctx, "10.0.0.1")
	if err != nil || ok {
		t.Fatalf("expected third request to be limited, got %v %v", ok, err)
	}
	if retry != time.Minute {
		t.Errorf("expected retry after 1m, got %v", retry)
	}

	// Other clients have their own budget.
	if ok, _, _ := l.Allow(ctx, "10.0.0.2"); !ok {
		t.Error("expected other client to be allowed")
	}
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	rdb := newFakeRedis()
	rdb.incrErr = errors.New("connection refused")
	l := NewRedisLimiter(rdb, "analyze", 1, time.Minute)

	ok, _, err := l.Allow(context.Background(), "10.0.0.1")
	if !ok || err == nil {
		t.Fatalf("expected allowed with error, got %v %v", ok, err)
	}
}

func TestRedisLimiter_ExpireFailure(t *testing.T) {
	rdb := newFakeRedis()
	rdb.expireErr = errors.New("READONLY replica")
	l := NewRedisLimiter(rdb, "analyze", 1, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _, err := l.Allow(ctx, "10.0.0.1")
		if !ok || err == nil {
			t.Fatalf("request %d: expected allowed with error, got %v %v", i+1, ok, err)
		}
	}

	// Once Redis recovers the stuck key gets a window again.
	rdb.expireErr = nil
	ok, retry, err := l.Allow(ctx, "10.0.0.1")
	if err != nil || ok {
		t.Fatalf("expected limited without error, got %v %v", ok, err)
	}
	if retry != time.Minute {
		t.Errorf("expected retry after 1m, got %v", retry)
	}
	if rdb.expires["rate_limit:analyze:10.0.0.1"] != time.Minute {
		t.Errorf("expected window to be reopened, got %v", rdb.expires)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	s := &Server{limiter: NewRedisLimiter(newFakeRedis(), "analyze", 1, 30*time.Second)}
	h := s.rateLimit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/analyze-food", nil)
	req.RemoteAddr = "192.0.2.1:5555"

	w := httptest.NewRecorder()
	h(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "30" {
		t.Errorf("expected Retry-After 30, got %q", w.Header().Get("Retry-After"))
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[2001:db8::1]:443"
	if got := clientIP(req); got != "2001:db8::1" {
		t.Errorf("clientIP = %q", got)
	}
	req.RemoteAddr = "not-an-addr"
	if got := clientIP(req); got != "not-an-addr" {
		t.Errorf("clientIP = %q", got)
	}
}
