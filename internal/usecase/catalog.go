package usecase

import (
	"context"
	"slices"

	"interest-match/internal/domain/interest"
	"interest-match/internal/metrics"
	"interest-match/internal/pkg/logger"
	"interest-match/internal/repository"

	"golang.org/x/sync/singleflight"
)

const (
	cacheKeyCategories = "catalog:categories"
	cacheKeyInterests  = "catalog:interests"
)

// Cache is the subset of the Redis client the usecases need.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

type CatalogUsecase interface {
	ListCategories(ctx context.Context) ([]interest.Category, error)
	ListInterests(ctx context.Context) ([]interest.Interest, error)
	MissingInterestIDs(ctx context.Context, ids []int64) ([]int64, error)
	MissingCategoryIDs(ctx context.Context, ids []int64) ([]int64, error)
	Invalidate(ctx context.Context) error
}

// Catalog serves the read-only interest taxonomy. Listings go through the
// cache; existence checks always hit the repository.
type Catalog struct {
	repo  repository.CatalogRepository
	cache Cache
	log   *logger.Logger
	group singleflight.Group
}

func NewCatalog(repo repository.CatalogRepository, cache Cache, log *logger.Logger) *Catalog {
	if log == nil {
		log = logger.Nop()
	}
	return &Catalog{repo: repo, cache: cache, log: log}
}

func (c *Catalog) ListCategories(ctx context.Context) ([]interest.Category, error) {
	return cached(ctx, c, cacheKeyCategories, c.repo.ListCategories)
}

func (c *Catalog) ListInterests(ctx context.Context) ([]interest.Interest, error) {
	return cached(ctx, c, cacheKeyInterests, c.repo.ListInterests)
}

func (c *Catalog) MissingInterestIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return missingIDs(ctx, ids, c.repo.ExistingInterestIDs)
}

func (c *Catalog) MissingCategoryIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return missingIDs(ctx, ids, c.repo.ExistingCategoryIDs)
}

// Invalidate drops the cached listings, for use after the catalog is seeded.
func (c *Catalog) Invalidate(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Delete(ctx, cacheKeyCategories, cacheKeyInterests)
}

func cached[T any](ctx context.Context, c *Catalog, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if c.cache != nil {
		var out []T
		hit, err := c.cache.GetJSON(ctx, key, &out)
		if err != nil {
			c.log.Warn("catalog cache read failed", "key", key, "error", err)
		}
		if hit {
			metrics.CatalogCacheHits.Inc()
			return out, nil
		}
	}
	metrics.CatalogCacheMisses.Inc()

	v, err, _ := c.group.Do(key, func() (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			if err := c.cache.SetJSON(ctx, key, items); err != nil {
				c.log.Warn("catalog cache write failed", "key", key, "error", err)
			}
		}
		return items, nil
	})
	if err != nil {
		return nil, internal("list "+key, err)
	}
	return v.([]T), nil
}

// missingIDs returns the ids among the positive, deduplicated input that the
// repository does not know, in ascending order.
func missingIDs(ctx context.Context, ids []int64, existing func(context.Context, []int64) ([]int64, error)) ([]int64, error) {
	want := interest.IDSet(ids)
	if len(want) == 0 {
		return []int64{}, nil
	}
	have, err := existing(ctx, want)
	if err != nil {
		return nil, internal("check catalog ids", err)
	}

	out := make([]int64, 0)
	for _, id := range want {
		if !slices.Contains(have, id) {
			out = append(out, id)
		}
	}
	return out, nil
}
