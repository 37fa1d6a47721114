package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RemoteCallLimiter decide si una llamada al modelo remoto entra en el presupuesto de una clave.
// Un rechazo no es un error: el análisis sigue por el camino local.
type RemoteCallLimiter interface {
	Allow(key string) bool
}

const anonymousLimiterKey = "anonymous"

func normalizeLimiterKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return anonymousLimiterKey
	}
	return k
}

const redisCallAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisCallLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

func NewRedisCallLimiter(client *redis.Client, window time.Duration, max int) RemoteCallLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Hour
	}
	if max <= 0 {
		max = 1
	}
	return &redisCallLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "llm:rl:",
	}
}

// Allow falla abierto si Redis no responde.
func (l *redisCallLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	redisKey := l.prefix + normalizeLimiterKey(key)
	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 3600
	}
	count, err := l.client.Eval(ctx, redisCallAllowScript, []string{redisKey}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}

// memoryCallLimiter usa un token bucket por clave dentro del proceso.
type memoryCallLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

func NewMemoryCallLimiter(window time.Duration, max int) RemoteCallLimiter {
	if window <= 0 {
		window = time.Hour
	}
	if max <= 0 {
		max = 1
	}
	return &memoryCallLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(window / time.Duration(max)),
		burst:    max,
	}
}

func (l *memoryCallLimiter) Allow(key string) bool {
	k := normalizeLimiterKey(key)
	l.mu.Lock()
	lim, ok := l.limiters[k]
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.limiters[k] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
