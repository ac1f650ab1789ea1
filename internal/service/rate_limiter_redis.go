package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// La primera peticion de la ventana crea la clave y fija su TTL en milisegundos.
const fixedWindowScript = `
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return hits
`

const redisLimiterTimeout = 500 * time.Millisecond

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// redisRateLimiter cuenta peticiones en claves rl:<nombre>:<cliente>, compartidas
// entre instancias de la API.
type redisRateLimiter struct {
	client redisEvaler
	prefix string
	window time.Duration
	limit  int
}

// NewRedisRateLimiter devuelve nil sin cliente. Los errores de Redis dejan pasar la peticion.
func NewRedisRateLimiter(client redisEvaler, name string, window time.Duration, limit int) RateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if limit <= 0 {
		limit = 1
	}
	return &redisRateLimiter{
		client: client,
		prefix: "rl:" + name + ":",
		window: window,
		limit:  limit,
	}
}

func (l *redisRateLimiter) Allow(clientKey string) bool {
	if l == nil || l.client == nil {
		return true
	}
	clientKey = strings.ToLower(strings.TrimSpace(clientKey))
	if clientKey == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisLimiterTimeout)
	defer cancel()

	hits, err := l.client.Eval(ctx, fixedWindowScript, []string{l.prefix + clientKey}, l.window.Milliseconds()).Int64()
	if err != nil {
		return true
	}
	return hits <= int64(l.limit)
}
