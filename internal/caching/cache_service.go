package caching

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix        = "invoicedash:route:"
	generationPrefix = "invoicedash:gen:"
)

// setIfGeneration stores ARGV[1] under KEYS[1] only while the generation counter
// KEYS[2] still equals ARGV[2]. A missing counter reads as 0.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[2] then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// CacheService stores rendered route output and marks routes stale
type CacheService interface {
	// RevalidatePath bumps the generation of path and drops the cached output
	// for path and every query-string variant of it
	RevalidatePath(ctx context.Context, path string) error

	// Generation returns the revalidation counter of path, 0 if it was never revalidated
	Generation(ctx context.Context, path string) (int64, error)

	// GetRoute returns nil, nil on a cache miss
	GetRoute(ctx context.Context, pathWithQuery string) ([]byte, error)

	// SetRoute stores body only if the path of pathWithQuery is still at generation.
	// It reports whether the body was stored.
	SetRoute(ctx context.Context, pathWithQuery string, body []byte, ttl time.Duration, generation int64) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService accepts host:port or a redis:// / rediss:// address
func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})
	return NewRedisCacheServiceFromClient(client)
}

func NewRedisCacheServiceFromClient(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func routeKey(pathWithQuery string) string {
	return keyPrefix + pathWithQuery
}

func generationKey(path string) string {
	path, _, _ = strings.Cut(path, "?")
	return generationPrefix + path
}

// escapeGlob quotes the characters Redis MATCH patterns treat specially
func escapeGlob(s string) string {
	var b strings.Builder
	for _, ch := range s {
		switch ch {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func (r *redisCacheService) RevalidatePath(ctx context.Context, path string) error {
	if err := r.client.Incr(ctx, generationKey(path)).Err(); err != nil {
		return fmt.Errorf("bump generation of %s: %w", path, err)
	}

	keys := []string{routeKey(path)}

	iter := r.client.Scan(ctx, 0, escapeGlob(routeKey(path))+`\?*`, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cached variants of %s: %w", path, err)
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revalidate %s: %w", path, err)
	}
	return nil
}

func (r *redisCacheService) GetRoute(ctx context.Context, pathWithQuery string) ([]byte, error) {
	data, err := r.client.Get(ctx, routeKey(pathWithQuery)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}
	return data, nil
}

func (r *redisCacheService) Generation(ctx context.Context, path string) (int64, error) {
	gen, err := r.client.Get(ctx, generationKey(path)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return gen, nil
}

func (r *redisCacheService) SetRoute(ctx context.Context, pathWithQuery string, body []byte, ttl time.Duration, generation int64) (bool, error) {
	keys := []string{routeKey(pathWithQuery), generationKey(pathWithQuery)}
	stored, err := setIfGeneration.Run(ctx, r.client, keys, body, strconv.FormatInt(generation, 10), ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("store route %s: %w", pathWithQuery, err)
	}
	return stored == 1, nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
