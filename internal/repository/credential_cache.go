package repository

import (
	"account-storefront/internal/model"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// cachedCredentialRepo keeps available counts in redis. Counts are advisory
// (placement only); allocation always goes to the database.
//
// Counts are stored under a per-product generation. InvalidateCount bumps the
// generation, so a count read from the database before a commit and written back
// after it lands under a key nobody reads any more.
type cachedCredentialRepo struct {
	CredentialRepository
	rdb *redis.Client
	ttl time.Duration
}

func NewCachedCredentialRepository(inner CredentialRepository, rdb *redis.Client, ttl time.Duration) CredentialRepository {
	return &cachedCredentialRepo{
		CredentialRepository: inner,
		rdb:                  rdb,
		ttl:                  ttl,
	}
}

func generationKey(productID string) string {
	return "stock:gen:" + productID
}

func stockKey(productID string, generation int64) string {
	return fmt.Sprintf("stock:available:%s:%d", productID, generation)
}

func (r *cachedCredentialRepo) generation(ctx context.Context, productID string) (int64, error) {
	gen, err := r.rdb.Get(ctx, generationKey(productID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *cachedCredentialRepo) CountAvailable(ctx context.Context, productID string) (int64, error) {
	gen, err := r.generation(ctx, productID)
	if err != nil {
		slog.WarnContext(ctx, "stock cache read failed", "product_id", productID, "error", err)
		return r.CredentialRepository.CountAvailable(ctx, productID)
	}

	key := stockKey(productID, gen)
	cached, err := r.rdb.Get(ctx, key).Result()
	if err == nil {
		if n, convErr := strconv.ParseInt(cached, 10, 64); convErr == nil {
			return n, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.WarnContext(ctx, "stock cache read failed", "product_id", productID, "error", err)
	}

	count, err := r.CredentialRepository.CountAvailable(ctx, productID)
	if err != nil {
		return 0, err
	}

	if err := r.rdb.Set(ctx, key, count, r.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "stock cache write failed", "product_id", productID, "error", err)
	}

	return count, nil
}

// AddBulk commits on its own, so the count is invalidated straight away.
func (r *cachedCredentialRepo) AddBulk(ctx context.Context, productID string, inputs []model.CredentialInput) (int, error) {
	n, err := r.CredentialRepository.AddBulk(ctx, productID, inputs)
	if err == nil {
		r.InvalidateCount(ctx, productID)
	}
	return n, err
}

func (r *cachedCredentialRepo) InvalidateCount(ctx context.Context, productID string) {
	if err := r.rdb.Incr(ctx, generationKey(productID)).Err(); err != nil {
		slog.WarnContext(ctx, "stock cache invalidate failed", "product_id", productID, "error", err)
	}
}
