package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"academy/internal/auth"
	"academy/internal/config"
	"academy/internal/domain"
	"academy/internal/errs"
)

// stubAttemptCounter counts attempts per key in memory.
type stubAttemptCounter struct {
	counts      map[string]int64
	incrErr     error
	expireCalls int
}

func newStubAttemptCounter() *stubAttemptCounter {
	return &stubAttemptCounter{counts: make(map[string]int64)}
}

func (s *stubAttemptCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if s.incrErr != nil {
		cmd.SetErr(s.incrErr)
		return cmd
	}
	s.counts[key]++
	cmd.SetVal(s.counts[key])
	return cmd
}

func (s *stubAttemptCounter) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	s.expireCalls++
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func newLimitedEngine(counter attemptCounter, cfg config.RateLimitConfig, learnerID *string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/v1/courses/:id/enroll",
		func(c *gin.Context) {
			if *learnerID != "" {
				auth.SetLearner(c, &domain.Learner{ID: *learnerID})
			}
		},
		RateLimit(counter, cfg),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"outcome": "REDIRECT"})
		},
	)
	return router
}

func postLimited(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/courses/go-101/enroll", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	t.Parallel()

	learner := "learner-1"
	cfg := config.RateLimitConfig{Limit: 2, Window: time.Minute}
	router := newLimitedEngine(newStubAttemptCounter(), cfg, &learner)

	for i := 0; i < cfg.Limit; i++ {
		if w := postLimited(router); w.Code != http.StatusOK {
			t.Fatalf("attempt %d within the limit got %d", i+1, w.Code)
		}
	}

	w := postLimited(router)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 over the limit, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "60" {
		t.Errorf("expected Retry-After 60, got %q", got)
	}

	var resp struct {
		Error struct {
			Kind errs.Kind `json:"kind"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if resp.Error.Kind != errs.KindRateLimitExceeded {
		t.Errorf("expected kind %s, got %s", errs.KindRateLimitExceeded, resp.Error.Kind)
	}
}

func TestRateLimit_KeyedPerCaller(t *testing.T) {
	t.Parallel()

	learner := "learner-1"
	cfg := config.RateLimitConfig{Limit: 1, Window: time.Minute}
	router := newLimitedEngine(newStubAttemptCounter(), cfg, &learner)

	postLimited(router)
	if w := postLimited(router); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected learner-1 to be limited, got %d", w.Code)
	}

	learner = "learner-2"
	if w := postLimited(router); w.Code != http.StatusOK {
		t.Errorf("one learner's attempts must not limit another, got %d", w.Code)
	}
}

func TestRateLimit_WindowSetOnFirstAttempt(t *testing.T) {
	t.Parallel()

	learner := "learner-1"
	counter := newStubAttemptCounter()
	cfg := config.RateLimitConfig{Limit: 5, Window: time.Minute}
	router := newLimitedEngine(counter, cfg, &learner)

	postLimited(router)
	postLimited(router)
	postLimited(router)

	if counter.expireCalls != 1 {
		t.Errorf("the window expiry is set once per window, got %d calls", counter.expireCalls)
	}
}

func TestRateLimit_FailsOpenWhenCounterDown(t *testing.T) {
	t.Parallel()

	learner := "learner-1"
	counter := newStubAttemptCounter()
	counter.incrErr = errors.New("connection refused")
	cfg := config.RateLimitConfig{Limit: 1, Window: time.Minute}
	router := newLimitedEngine(counter, cfg, &learner)

	for i := 0; i < 3; i++ {
		if w := postLimited(router); w.Code != http.StatusOK {
			t.Fatalf("a counter outage must not block enrollment, attempt %d got %d", i+1, w.Code)
		}
	}
}
