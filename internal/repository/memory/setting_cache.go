package memory

import (
	"context"
	"time"

	"ai-sidebar-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// CachedSettingRepository is a read-through cache in front of the settings
// table. The active-conversation pointer is read on every dispatch, so the
// hot path should not hit Postgres each time. Writes go straight through and
// refresh the cache.
type CachedSettingRepository struct {
	inner contract.SettingRepository
	cache *cache.Cache
}

func NewCachedSettingRepository(inner contract.SettingRepository) *CachedSettingRepository {
	// Default expiration of 5 minutes, purge sweep every 10.
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &CachedSettingRepository{
		inner: inner,
		cache: c,
	}
}

func (r *CachedSettingRepository) GetString(ctx context.Context, key string) (string, error) {
	if x, found := r.cache.Get(key); found {
		return x.(string), nil
	}
	value, err := r.inner.GetString(ctx, key)
	if err != nil {
		return "", err
	}
	r.cache.Set(key, value, cache.DefaultExpiration)
	return value, nil
}

func (r *CachedSettingRepository) SetString(ctx context.Context, key, value string) error {
	if err := r.inner.SetString(ctx, key, value); err != nil {
		return err
	}
	r.cache.Set(key, value, cache.DefaultExpiration)
	return nil
}
