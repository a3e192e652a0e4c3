package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lendwise/lendwise/models"
	"github.com/redis/go-redis/v9"
)

const (
	activeLendersCacheKey = "lendwise:lenders:active"
	activeLendersCacheTTL = 5 * time.Minute
)

// CachedLenderRepository wraps a LenderRepository with a Redis cache for the
// active lender set, which every evaluation run reads. Cache misses and Redis
// failures fall through to the database.
type CachedLenderRepository struct {
	inner LenderRepository
	redis *redis.Client
}

// NewCachedLenderRepository creates a Redis-backed cache around the given
// lender repository. A nil client disables caching.
func NewCachedLenderRepository(inner LenderRepository, client *redis.Client) LenderRepository {
	if client == nil {
		return inner
	}
	return &CachedLenderRepository{inner: inner, redis: client}
}

// ByID delegates to the underlying repository
func (r *CachedLenderRepository) ByID(ctx context.Context, id uint) (*models.Lender, error) {
	return r.inner.ByID(ctx, id)
}

// BySlug delegates to the underlying repository
func (r *CachedLenderRepository) BySlug(ctx context.Context, slug string) (*models.Lender, error) {
	return r.inner.BySlug(ctx, slug)
}

// Active returns the active lender set, served from Redis when possible
func (r *CachedLenderRepository) Active(ctx context.Context) ([]*models.Lender, error) {
	if cached, err := r.redis.Get(ctx, activeLendersCacheKey).Bytes(); err == nil {
		var lenders []*models.Lender
		if err := json.Unmarshal(cached, &lenders); err == nil {
			return lenders, nil
		}
	}

	lenders, err := r.inner.Active(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(lenders); err == nil {
		// Best effort; a failed SET only costs the next caller a DB read.
		r.redis.Set(ctx, activeLendersCacheKey, payload, activeLendersCacheTTL)
	}

	return lenders, nil
}

// Save writes through to the database and invalidates the cached active set
func (r *CachedLenderRepository) Save(ctx context.Context, lender *models.Lender) error {
	if err := r.inner.Save(ctx, lender); err != nil {
		return err
	}
	r.redis.Del(ctx, activeLendersCacheKey)
	return nil
}
