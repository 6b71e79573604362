package router

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mindcarehq/mindcare/internal/pkg/config"
)

const visitorIdle = 10 * time.Minute

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	rps   rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(rps float64, burst int) *ipLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &ipLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// reserve reports whether ip may proceed and, if not, how long to wait.
func (l *ipLimiter) reserve(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > visitorIdle {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > visitorIdle {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := v.limiter.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, wait
}

// middlewareRateLimit throttles the public identity endpoints per client IP
// using router.rate_limit.rps and router.rate_limit.burst. A zero rps
// disables it.
func middlewareRateLimit(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		if cfg == nil || cfg.GetFloat64("router.rate_limit.rps") <= 0 {
			return next
		}

		lim := newIPLimiter(cfg.GetFloat64("router.rate_limit.rps"), cfg.GetInt("router.rate_limit.burst"))
		return rateLimited(lim, publicEndpoints[http.MethodPost], next)
	}
}

func rateLimited(lim *ipLimiter, routes map[string]struct{}, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := routes[matchedRoutePath(r)]; !ok || r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		if ok, wait := lim.reserve(r.RemoteAddr); !ok {
			secs := int(wait.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeJSON(w, errorResponse{Message: "Too many requests"}, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
