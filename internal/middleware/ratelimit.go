package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter ограничивает число запросов пользователя в фиксированном окне. Счётчики хранятся в Redis.
type RateLimiter struct {
	rdb    redis.Cmdable
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewRateLimiter создаёт ограничитель на limit запросов за window. При rdb == nil ограничение отключено.
func NewRateLimiter(rdb redis.Cmdable, prefix string, limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
		logger: logger,
	}
}

// Middleware отвечает 429, если пользователь исчерпал лимит окна. Ставится после AuthMiddleware.
// Ошибки Redis не блокируют запрос.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := "anon"
		if p, ok := PrincipalFromContext(r.Context()); ok {
			subject = strconv.FormatInt(p.ID, 10)
		}

		now := l.now()
		windowStart := now.Truncate(l.window)
		key := fmt.Sprintf("%s:%s:%d", l.prefix, subject, windowStart.Unix())

		var incr *redis.IntCmd
		_, err := l.rdb.TxPipelined(r.Context(), func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(r.Context(), key)
			pipe.Expire(r.Context(), key, l.window)
			return nil
		})
		if err != nil {
			l.logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		count := incr.Val()
		remaining := max(int64(l.limit)-count, 0)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(l.limit) {
			retry := windowStart.Add(l.window).Sub(now)
			w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
