package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/washday/laundry-backend/api/responses"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
)

// idleLimiterTTL is how long an unused per-IP bucket is kept around.
const idleLimiterTTL = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PublicRateLimiter is an in-process token bucket per client IP for anonymous
// endpoints (wizard, leads, service area).
type PublicRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	rps      rate.Limit
	burst    int
	now      func() time.Time
}

func NewPublicRateLimiter(requestsPerMinute, burst int) *PublicRateLimiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &PublicRateLimiter{
		limiters: map[string]*ipLimiter{},
		rps:      rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
		now:      time.Now,
	}
}

func (p *PublicRateLimiter) allow(ip string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	entry, ok := p.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(p.rps, p.burst)}
		p.limiters[ip] = entry
		p.sweep(now)
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// sweep drops idle buckets. Called with mu held.
func (p *PublicRateLimiter) sweep(now time.Time) {
	for ip, entry := range p.limiters {
		if now.Sub(entry.lastSeen) > idleLimiterTTL {
			delete(p.limiters, ip)
		}
	}
}

// Middleware rejects callers that exhausted their bucket with RATE_LIMIT_EXCEEDED.
// A nil limiter disables throttling.
func (p *PublicRateLimiter) Middleware(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if p == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !p.allow(ip) {
				ctx := r.Context()
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "ip", ip), "public.rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
