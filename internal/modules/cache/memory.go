package cache

import (
	"context"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/eko/gocache/store/go_cache/v4"
	gocache "github.com/patrickmn/go-cache"
)

const JobStatusTTL = 30 * time.Minute

type Manager[T any] struct {
	cache *cache.Cache[T]
}

var (
	jobCacheManager *Manager[string]
)

func init() {
	jobCacheManager = NewManager[string](JobStatusTTL)
}

func NewManager[T any](ttl time.Duration) *Manager[T] {
	client := gocache.New(ttl, ttl)
	return &Manager[T]{
		cache: cache.New[T](go_cache.NewGoCache(client)),
	}
}

// JobCacheManager holds the latest snapshot json of every recent job, keyed by job id.
func JobCacheManager() *Manager[string] {
	return jobCacheManager
}

func (m *Manager[T]) SetWithExpiration(key string, value T, expir time.Duration) error {
	timeout, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	return m.cache.Set(timeout, key, value, store.WithExpiration(expir))
}

// GetValue returns the zero value and a nil error for a missing key.
func (m *Manager[T]) GetValue(key string) (value T, err error) {
	timeout, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	const errorMessage = "value not found"
	value, err = m.cache.Get(timeout, key)
	if err != nil && strings.Contains(err.Error(), errorMessage) {
		err = nil
		return
	}
	return
}
