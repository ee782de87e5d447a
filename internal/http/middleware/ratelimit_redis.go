package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counts hits in a fixed window; the window TTL is set on the first
// hit. Returns the hit count so the caller decides the verdict.
const hitCountScript = `
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return hits
`

const redisKeyPrefix = "admithub:rl:"

type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(hitCountScript),
	}
}

// Allow fails open: redis trouble must not block admin operations.
func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	hits, err := l.script.Run(ctx, l.client, []string{redisKeyPrefix + key}, ttl).Int64()
	if err != nil {
		return true
	}
	return hits <= int64(limit)
}
