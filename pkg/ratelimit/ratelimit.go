// Package ratelimit provides a per-client token bucket for fiber routes.
package ratelimit

import (
	"sync"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// LimiterManager keeps one limiter per key and evicts idle ones.
type LimiterManager struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	done     chan struct{}
	once     sync.Once
}

func NewLimiterManager(rps float64, burst int, ttl time.Duration) *LimiterManager {
	m := &LimiterManager{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	if ttl > 0 {
		go m.cleanupRoutine()
	}
	return m
}

func (m *LimiterManager) limiter(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.limiters[key]
	if !ok {
		l = rate.NewLimiter(m.rate, m.burst)
		m.limiters[key] = l
	}
	m.lastSeen[key] = time.Now()
	return l
}

// Allow reports whether one more request for key fits the bucket.
func (m *LimiterManager) Allow(key string) bool {
	return m.limiter(key).Allow()
}

func (m *LimiterManager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.limiters)
}

func (m *LimiterManager) cleanupRoutine() {
	ticker := time.NewTicker(m.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.evictIdle(time.Now())
		case <-m.done:
			return
		}
	}
}

func (m *LimiterManager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, seen := range m.lastSeen {
		if now.Sub(seen) > m.ttl {
			delete(m.limiters, key)
			delete(m.lastSeen, key)
		}
	}
}

func (m *LimiterManager) Close() {
	m.once.Do(func() { close(m.done) })
}

// Middleware rejects requests over the limit with 429. The key is the
// authenticated user when present, else the client IP.
func (m *LimiterManager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		if uid, ok := c.Locals("user_id").(string); ok && uid != "" {
			key = "user:" + uid
		}
		if !m.Allow(key) {
			logx.Info("rate limit exceeded", logx.String("key", key), logx.String("path", c.Path()))
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests")
		}
		return c.Next()
	}
}
