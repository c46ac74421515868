package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
)

type rateEntry struct {
	count     int
	windowEnd time.Time
}

// RateLimiter conta requisições por IP em janelas fixas. Cada instância
// tem seu próprio mapa; entradas vencidas saem na varredura periódica
// feita durante as próprias requisições.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	entries   map[string]*rateEntry
	lastPurge time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*rateEntry),
	}
}

func (rl *RateLimiter) allow(key string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPurge) > 5*rl.window {
		for k, e := range rl.entries {
			if now.After(e.windowEnd) {
				delete(rl.entries, k)
			}
		}
		rl.lastPurge = now
	}

	e, ok := rl.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &rateEntry{windowEnd: now.Add(rl.window)}
		rl.entries[key] = e
	}

	e.count++
	return e.count <= rl.limit, e.windowEnd
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, resetAt := rl.allow(c.ClientIP())
		if !ok {
			retry := int(time.Until(resetAt).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httperr.HTTPError{
				Code:    "rate_limited",
				Message: "Muitas requisições. Tente novamente em instantes.",
			})
			return
		}
		c.Next()
	}
}
