package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides if a request from key should be allowed.
// Allow returns (allowed, retryAfterSeconds). When allowed is false, retryAfterSeconds
// may be set for the Retry-After response header (0 = omit).
type Limiter interface {
	Allow(key string) (allowed bool, retryAfterSec int)
}

// Noop allows all requests.
type Noop struct{}

func (Noop) Allow(key string) (bool, int) { return true, 0 }

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// PerKey keeps one token bucket per key (single-instance only). Each bucket holds limit
// tokens and refills at limit per window. Buckets idle for longer than a window are dropped.
type PerKey struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
	nowFunc func() time.Time
	swept   time.Time
}

// NewPerKey allows bursts of up to limit requests per key, refilled over window.
func NewPerKey(limit int, window time.Duration) *PerKey {
	if limit < 1 {
		limit = 1
	}
	return &PerKey{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		nowFunc: time.Now,
	}
}

func (p *PerKey) Allow(key string) (allowed bool, retryAfterSec int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.nowFunc()
	p.sweep(now)

	b, ok := p.buckets[key]
	if !ok {
		every := rate.Every(p.window / time.Duration(p.limit))
		b = &bucket{lim: rate.NewLimiter(every, p.limit)}
		p.buckets[key] = b
	}
	b.lastSeen = now

	res := b.lim.ReserveN(now, 1)
	if !res.OK() {
		return false, 0
	}
	delay := res.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	res.CancelAt(now)
	return false, int(math.Max(1, math.Ceil(delay.Seconds())))
}

func (p *PerKey) sweep(now time.Time) {
	if now.Sub(p.swept) < p.window {
		return
	}
	p.swept = now
	for k, b := range p.buckets {
		if now.Sub(b.lastSeen) > p.window {
			delete(p.buckets, k)
		}
	}
}
