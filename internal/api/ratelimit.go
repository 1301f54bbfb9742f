package api

import (
	"fmt"
	"net"
	"net/http"
	"presale/internal/observability"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

const (
	visitorTTL      = 5 * time.Minute
	visitorCapacity = 1 << 14
)

// RateLimiter keeps one token bucket per client address. Idle buckets expire
// from the cache. Forwarding headers name the client only when trustProxy is
// set, i.e. the service runs behind a proxy that overwrites them.
type RateLimiter struct {
	limit      rate.Limit
	burst      int
	trustProxy bool
	metrics    *observability.Metrics
	// -----
	mu       sync.Mutex
	visitors *ristretto.Cache
}

func NewRateLimiter(perSecond float64, burst int, trustProxy bool, metrics *observability.Metrics) (*RateLimiter, error) {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	visitors, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        10 * visitorCapacity,
		MaxCost:            visitorCapacity,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create rate limiter cache failed: %w", err)
	}
	return &RateLimiter{
		limit:      rate.Limit(perSecond),
		burst:      burst,
		trustProxy: trustProxy,
		metrics:    metrics,
		visitors:   visitors,
	}, nil
}

func (l *RateLimiter) Close() { l.visitors.Close() }

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	limited := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.limiter(clientID(r)).Allow() {
			l.metrics.RateLimited.Inc()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
	if l.trustProxy {
		return middleware.RealIP(limited)
	}
	return limited
}

func (l *RateLimiter) limiter(id string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.visitors.Get(id); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.visitors.SetWithTTL(id, lim, 1, visitorTTL)
	l.visitors.Wait()
	return lim
}

// clientID is the peer address. Behind a trusted proxy RealIP has already
// replaced it with the forwarded client address.
func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
