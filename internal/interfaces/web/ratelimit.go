package web

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const visitorIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorLimiter keeps one token bucket per client address.
type visitorLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newVisitorLimiter(limit rate.Limit, burst int) *visitorLimiter {
	return &visitorLimiter{
		limit:    limit,
		burst:    burst,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

func (vl *visitorLimiter) allow(key string) bool {
	vl.mu.Lock()
	defer vl.mu.Unlock()

	now := vl.now()
	if now.Sub(vl.lastSweep) >= visitorIdle {
		for k, v := range vl.visitors {
			if now.Sub(v.lastSeen) >= visitorIdle {
				delete(vl.visitors, k)
			}
		}
		vl.lastSweep = now
	}

	v, ok := vl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(vl.limit, vl.burst)}
		vl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (vl *visitorLimiter) size() int {
	vl.mu.Lock()
	defer vl.mu.Unlock()
	return len(vl.visitors)
}

// clientKey is the host part of the peer address.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
