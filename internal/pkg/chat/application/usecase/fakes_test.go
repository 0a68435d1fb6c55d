package usecase_test

import (
	"context"
	"strconv"
	"sync"
	"time"

	cacheport "github.com/akbolaji-04/Prolink-clone/internal/infrastructure/cache/port"
)

// fakeCache is an in-memory cacheport.Cache for exercising counter and
// party-cache behavior without Redis.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

var _ cacheport.Cache = (*fakeCache)(nil)

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	c.data[key] = value
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *fakeCache) GetInt(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return 0, cacheport.ErrMiss
	}
	return strconv.ParseInt(v, 10, 64)
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed int64
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			removed++
		}
	}
	return removed, nil
}

func (c *fakeCache) Ping(ctx context.Context) error { return nil }
func (c *fakeCache) Close() error                   { return nil }

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
