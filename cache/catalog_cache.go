package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// catalogTTL keeps catalog snapshots short-lived so a missed invalidation
// heals itself quickly.
const catalogTTL = 5 * time.Minute

// CatalogView names a cached catalog listing.
type CatalogView string

const (
	ViewApprovedSongs CatalogView = "songs:approved"
	ViewPendingSongs  CatalogView = "songs:pending"
	ViewDistributors  CatalogView = "users:distributors"
)

func catalogKey(view CatalogView) string {
	return fmt.Sprintf("catalog:%s", view)
}

// GetCatalog loads a cached catalog snapshot into dest. It returns false on
// a miss, including when Redis is not connected.
func GetCatalog(ctx context.Context, view CatalogView, dest interface{}) (bool, error) {
	if RedisClient == nil {
		return false, nil
	}

	raw, err := RedisClient.Get(ctx, catalogKey(view)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read catalog cache: %w", err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		// A corrupt entry is as good as a miss.
		return false, nil
	}
	return true, nil
}

// SetCatalog stores a catalog snapshot.
func SetCatalog(ctx context.Context, view CatalogView, value interface{}) error {
	if RedisClient == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog snapshot: %w", err)
	}

	if err := RedisClient.Set(ctx, catalogKey(view), raw, catalogTTL).Err(); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}

// InvalidateCatalog drops cached snapshots for the given views.
func InvalidateCatalog(ctx context.Context, views ...CatalogView) error {
	if RedisClient == nil || len(views) == 0 {
		return nil
	}

	keys := make([]string, 0, len(views))
	for _, view := range views {
		keys = append(keys, catalogKey(view))
	}

	if err := RedisClient.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}
