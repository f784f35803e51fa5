package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/phrazzld/lumo-api/internal/api/shared"
	"github.com/phrazzld/lumo-api/internal/config"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an unused per-caller limiter is kept.
const limiterIdleTTL = 10 * time.Minute

type callerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per caller. Authenticated requests
// are keyed by user ID, anonymous ones by client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	callers   map[string]*callerLimiter
	lastSweep time.Time
	now       func() time.Time
	logger    *slog.Logger
}

// NewRateLimiter creates a RateLimiter. It returns nil when cfg disables
// limiting; a nil *RateLimiter passes every request through.
func NewRateLimiter(cfg config.RateLimitConfig, logger *slog.Logger) *RateLimiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(math.Ceil(cfg.RequestsPerSecond))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		limit:   rate.Limit(cfg.RequestsPerSecond),
		burst:   burst,
		callers: make(map[string]*callerLimiter),
		now:     time.Now,
		logger:  logger.With(slog.String("component", "rate_limiter")),
	}
}

// Limit is the middleware handler.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := callerKey(r)
		if !l.allow(key) {
			retryAfter := int(math.Ceil(1 / float64(l.limit)))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for k, c := range l.callers {
			if now.Sub(c.lastSeen) > limiterIdleTTL {
				delete(l.callers, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.callers[key]
	if !ok {
		c = &callerLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.callers[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func callerKey(r *http.Request) string {
	if userID, ok := shared.UserIDFromContext(r.Context()); ok {
		return "user:" + userID.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
