package middleware

import (
	"container/list"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	key     string
	limiter *rate.Limiter
}

// rateLimiterStore keeps one limiter per client, evicting the least recently
// seen client once capacity is reached.
type rateLimiterStore struct {
	mu       sync.Mutex
	capacity int
	perMin   int
	order    *list.List
	entries  map[string]*list.Element
}

func newRateLimiterStore(perMin, capacity int) *rateLimiterStore {
	if perMin <= 0 {
		perMin = 100
	}
	if capacity <= 0 {
		capacity = 10000
	}
	return &rateLimiterStore{
		capacity: capacity,
		perMin:   perMin,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// getLimiter returns the rate limiter for a client, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[key]; ok {
		s.order.MoveToFront(el)
		return el.Value.(*limiterEntry).limiter
	}

	if s.order.Len() >= s.capacity {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.entries, oldest.Value.(*limiterEntry).key)
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)
	s.entries[key] = s.order.PushFront(&limiterEntry{key: key, limiter: limiter})
	return limiter
}

func (s *rateLimiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// clientKey prefers the authenticated caller and falls back to the client IP.
func clientKey(c *gin.Context) string {
	if actor, ok := ActorFrom(c); ok {
		return "user:" + actor.Username
	}
	return "ip:" + c.ClientIP()
}

// RateLimitMiddleware limits requests per client.
func RateLimitMiddleware(perMin, maxClients int) gin.HandlerFunc {
	store := newRateLimiterStore(perMin, maxClients)
	return func(c *gin.Context) {
		key := clientKey(c)
		if !store.getLimiter(key).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("client", key))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
