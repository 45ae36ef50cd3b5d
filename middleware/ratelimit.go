package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gomarten/routechain"
)

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*routechain.Ctx) string
	// OnLimitReached builds the response for rejected requests
	// (default: 429 JSON error).
	OnLimitReached func(*routechain.Ctx) routechain.Response
}

// DefaultRateLimitConfig returns sensible defaults.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests: 100,
		Window:   time.Minute,
		KeyFunc:  func(c *routechain.Ctx) string { return c.ClientIP() },
	}
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	clients map[string]*bucket
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type bucket struct {
	reset     time.Time
	remaining int
}

// NewRateLimiter creates a rate limiter and starts its cleanup goroutine.
// Call Close to stop it.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	def := DefaultRateLimitConfig()
	if cfg.Requests <= 0 {
		cfg.Requests = def.Requests
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = def.KeyFunc
	}
	rl := &RateLimiter{
		cfg:     cfg,
		clients: make(map[string]*bucket),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cfg.Window)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for k, b := range rl.clients {
				if now.Sub(b.reset) > rl.cfg.Window {
					delete(rl.clients, k)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Close stops the cleanup goroutine.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

// Allow consumes one request for key and reports whether it is within the
// limit, along with the requests left in the current window.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.clients[key]
	if !ok || now.After(b.reset) {
		b = &bucket{reset: now.Add(rl.cfg.Window), remaining: rl.cfg.Requests}
		rl.clients[key] = b
	}
	if b.remaining <= 0 {
		return false, 0
	}
	b.remaining--
	return true, b.remaining
}

// Step returns a chain step that answers 429 once a client exceeds the limit
// and continues otherwise.
func (rl *RateLimiter) Step() routechain.Link {
	return func(c *routechain.Ctx) (routechain.Response, error) {
		ok, remaining := rl.Allow(rl.cfg.KeyFunc(c))
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if ok {
			return nil, nil
		}
		if rl.cfg.OnLimitReached != nil {
			return rl.cfg.OnLimitReached(c), nil
		}
		return routechain.Error(http.StatusTooManyRequests, "rate limit exceeded"), nil
	}
}
