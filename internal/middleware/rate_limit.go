package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/redis/go-redis/v9"

	"github.com/P3chys/studyshare-api/internal/apperrors"
	"github.com/P3chys/studyshare-api/internal/response"
)

// RateLimiter counts requests per key in fixed Redis windows.
type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(redisURL string) (*RateLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RateLimiter{redis: client}, nil
}

// RateLimitByIP limits each client IP to maxRequests per window on the
// route it is attached to.
func (rl *RateLimiter) RateLimitByIP(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:ip:%s:%s", c.FullPath(), c.ClientIP())
		rl.enforce(c, key, maxRequests, window, true)
	}
}

// RateLimitByEmail limits attempts against one account. The JSON body is
// cached so the handler can bind it again.
func (rl *RateLimiter) RateLimitByEmail(maxRequests int, window time.Duration, emailField string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
			response.Abort(c, apperrors.Clone(apperrors.ErrValidation, "invalid JSON body"))
			return
		}

		email, _ := body[emailField].(string)
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			// Let the handler report the missing credentials.
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:email:%s:%s", c.FullPath(), email)
		rl.enforce(c, key, maxRequests, window, false)
	}
}

func (rl *RateLimiter) enforce(c *gin.Context, key string, maxRequests int, window time.Duration, headers bool) {
	ctx := c.Request.Context()

	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		// Fail open: a Redis outage must not lock everyone out.
		_ = c.Error(fmt.Errorf("rate limiter error: %w", err))
		c.Next()
		return
	}

	if count == 1 {
		rl.redis.Expire(ctx, key, window)
	}

	if count > int64(maxRequests) {
		ttl, _ := rl.redis.TTL(ctx, key).Result()
		c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
		response.Abort(c, apperrors.ErrRateLimited)
		return
	}

	if headers {
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(maxRequests-int(count)))
	}
	c.Next()
}

func (rl *RateLimiter) Close() error {
	return rl.redis.Close()
}

func (rl *RateLimiter) Ping(ctx context.Context) error {
	return rl.redis.Ping(ctx).Err()
}
