// Package cache provides in-memory read-through caching for couple pages.
package cache

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ganot/nossoday/internal/domain/couple"
)

const (
	DefaultExpiration      = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

var _ couple.Repository = (*CoupleRepository)(nil)

// CoupleRepository wraps a couple.Repository and caches Get results.
// Couples are never updated after creation, so entries only expire.
type CoupleRepository struct {
	next   couple.Repository
	cache  *gocache.Cache
	logger *slog.Logger
}

// NewCoupleRepository creates a caching decorator around next. A ttl of
// zero uses DefaultExpiration.
func NewCoupleRepository(next couple.Repository, ttl time.Duration, logger *slog.Logger) *CoupleRepository {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	cleanup := DefaultCleanupInterval
	if ttl > cleanup {
		cleanup = ttl
	}
	return &CoupleRepository{
		next:   next,
		cache:  gocache.New(ttl, cleanup),
		logger: logger,
	}
}

// Create persists through to the wrapped repository and primes the cache.
func (r *CoupleRepository) Create(ctx context.Context, c *couple.Couple) error {
	if err := r.next.Create(ctx, c); err != nil {
		return err
	}
	r.cache.SetDefault(c.ID, clone(c))
	return nil
}

// Get returns the cached couple or loads it from the wrapped repository.
// Misses are not cached.
func (r *CoupleRepository) Get(ctx context.Context, id string) (*couple.Couple, error) {
	if value, found := r.cache.Get(id); found {
		if c, ok := value.(*couple.Couple); ok {
			r.debug("cache hit", "id", id)
			return clone(c), nil
		}
		r.cache.Delete(id)
	}

	c, err := r.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(id, clone(c))
	return c, nil
}

// Len reports the number of cached couples, including expired entries
// not yet cleaned up.
func (r *CoupleRepository) Len() int {
	return r.cache.ItemCount()
}

// Flush drops all cached couples.
func (r *CoupleRepository) Flush() {
	r.cache.Flush()
}

func (r *CoupleRepository) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func clone(c *couple.Couple) *couple.Couple {
	cp := *c
	if c.Photos != nil {
		cp.Photos = append([]string(nil), c.Photos...)
	}
	return &cp
}
