package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// RedisCategorySlugKeyPrefix maps a category slug to its id
	RedisCategorySlugKeyPrefix = "category:slug:"

	// Timeout for individual Redis operations
	categoryCacheTimeout = 2 * time.Second

	// Batch size for startup warm-up
	categorySyncBatchSize = 500
)

// CategoryCache resolves category slugs to ids, reading through Redis when available.
// A nil Redis client turns it into a plain database lookup.
type CategoryCache struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	catalogRepo repository.CatalogRepository
	ttl         time.Duration
}

func NewCategoryCache(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, catalogRepo repository.CatalogRepository, ttl time.Duration) *CategoryCache {
	return &CategoryCache{
		db:          db,
		redisClient: redisClient,
		log:         log,
		catalogRepo: catalogRepo,
		ttl:         ttl,
	}
}

// ResolveSlug returns the id of the category with slug, or nil when no such category exists.
// Cache failures are logged and fall through to the database.
func (c *CategoryCache) ResolveSlug(ctx context.Context, slug string) (*uuid.UUID, error) {
	if c.redisClient != nil {
		if id, ok := c.lookup(ctx, slug); ok {
			return &id, nil
		}
	}

	category, err := c.catalogRepo.FindCategoryBySlug(c.db.WithContext(ctx), slug)
	if err != nil {
		c.log.Warnf("Failed to find category by slug %q: %+v", slug, err)
		return nil, err
	}
	if category == nil {
		return nil, nil
	}

	if c.redisClient != nil {
		c.store(ctx, slug, category.ID)
	}

	return &category.ID, nil
}

// Invalidate drops the cached id for slug. A failed delete is logged; the entry still expires with its TTL.
func (c *CategoryCache) Invalidate(ctx context.Context, slug string) {
	if c.redisClient == nil {
		return
	}
	if err := c.redisClient.Del(ctx, RedisCategorySlugKeyPrefix+slug).Err(); err != nil {
		c.log.WithField("slug", slug).Warnf("Failed to invalidate category slug: %+v", err)
	}
}

// SyncOnStartup writes every category slug into Redis, one pipeline per batch.
func (c *CategoryCache) SyncOnStartup(ctx context.Context) error {
	if c.redisClient == nil {
		return nil
	}

	c.log.Info("Warming category cache from database...")
	startTime := time.Now()

	if err := c.redisClient.Ping(ctx).Err(); err != nil {
		c.log.Warnf("Redis is not available, skipping category warm-up: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	offset := 0
	totalSynced := 0

	for {
		var categories []entity.ServiceCategory
		err := c.db.WithContext(ctx).
			Select("id, slug").
			Order("id").
			Limit(categorySyncBatchSize).
			Offset(offset).
			Find(&categories).Error
		if err != nil {
			c.log.Errorf("Failed to query categories at offset %d: %+v", offset, err)
			return fmt.Errorf("query categories at offset %d: %w", offset, err)
		}

		if len(categories) == 0 {
			break
		}

		pipe := c.redisClient.Pipeline()
		for _, category := range categories {
			pipe.Set(ctx, RedisCategorySlugKeyPrefix+category.Slug, category.ID.String(), c.ttl)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			c.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(categories)

		if len(categories) < categorySyncBatchSize {
			break
		}
		offset += categorySyncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	c.log.Infof("Category cache warmed: %d categories in %v", totalSynced, time.Since(startTime))
	return nil
}

func (c *CategoryCache) lookup(ctx context.Context, slug string) (uuid.UUID, bool) {
	ctx, cancel := context.WithTimeout(ctx, categoryCacheTimeout)
	defer cancel()

	raw, err := c.redisClient.Get(ctx, RedisCategorySlugKeyPrefix+slug).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("Failed to read category slug %q from Redis: %+v", slug, err)
		}
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		c.log.Warnf("Discarding malformed cached id for slug %q: %+v", slug, err)
		return uuid.Nil, false
	}
	return id, true
}

func (c *CategoryCache) store(ctx context.Context, slug string, id uuid.UUID) {
	ctx, cancel := context.WithTimeout(ctx, categoryCacheTimeout)
	defer cancel()

	if err := c.redisClient.Set(ctx, RedisCategorySlugKeyPrefix+slug, id.String(), c.ttl).Err(); err != nil {
		c.log.Warnf("Failed to cache category slug %q: %+v", slug, err)
	}
}
