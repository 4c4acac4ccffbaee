package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
)

var _ domain.ActivityRepository = (*CachedActivityRepository)(nil)

// CachedActivityRepository caches the family catalog list in Redis. The
// catalog is read on every logging screen but changes rarely, so a short
// TTL plus invalidation on writes is enough.
type CachedActivityRepository struct {
	next  domain.ActivityRepository
	cache *redis.Client
}

func NewCachedActivityRepository(next domain.ActivityRepository, cache *redis.Client) *CachedActivityRepository {
	return &CachedActivityRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedActivityRepository) cacheKey(familyID string, includeArchived bool) string {
	if includeArchived {
		return fmt.Sprintf("activities:%s:all", familyID)
	}
	return fmt.Sprintf("activities:%s:active", familyID)
}

func (r *CachedActivityRepository) invalidate(ctx context.Context, familyID string) {
	keys := []string{
		r.cacheKey(familyID, true),
		r.cacheKey(familyID, false),
	}
	if err := r.cache.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate for family %s: %v", familyID, err)
	}
}

func (r *CachedActivityRepository) ListByFamilyID(ctx context.Context, familyID string, includeArchived bool) ([]*domain.Activity, error) {
	key := r.cacheKey(familyID, includeArchived)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var activities []*domain.Activity
		if err := json.Unmarshal([]byte(val), &activities); err == nil {
			return activities, nil
		}

		log.Printf("[CACHE] Corrupted data for family %s, cleaning up key", familyID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	activities, err := r.next.ListByFamilyID(ctx, familyID, includeArchived)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(activities); err == nil {
		if setErr := r.cache.Set(ctx, key, data, 30*time.Minute).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return activities, nil
}

func (r *CachedActivityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedActivityRepository) GetChanges(ctx context.Context, familyID string, since time.Time) ([]*domain.Activity, error) {
	return r.next.GetChanges(ctx, familyID, since)
}

func (r *CachedActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	if err := r.next.Create(ctx, activity); err != nil {
		return err
	}
	r.invalidate(ctx, activity.FamilyID)
	return nil
}

func (r *CachedActivityRepository) Update(ctx context.Context, activity *domain.Activity) error {
	if err := r.next.Update(ctx, activity); err != nil {
		return err
	}
	r.invalidate(ctx, activity.FamilyID)
	return nil
}
