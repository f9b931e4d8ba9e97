package caching

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"notesapp/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "notesapp:tenant:"

// TenantCache caches tenant lookups by slug. A miss returns (nil, nil).
type TenantCache interface {
	Get(ctx context.Context, slug string) (*models.Tenant, error)
	Set(ctx context.Context, tenant *models.Tenant) error
	Delete(ctx context.Context, slug string) error
	InvalidateAll(ctx context.Context) error
	Ping(ctx context.Context) error
}

type redisTenantCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisClient builds a client for addr. A redis:// or rediss:// URL is accepted as well as host:port.
func NewRedisClient(addr, password string, db int, log *zap.Logger) *redis.Client {
	parsedAddr := addr
	if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
		parsedAddr = hostPort
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis ping failed on initialization", zap.String("addr", parsedAddr), zap.Error(err))
	} else {
		log.Debug("Redis connection established", zap.String("addr", parsedAddr))
	}
	return client
}

func NewRedisTenantCache(client redis.UniversalClient, ttl time.Duration) TenantCache {
	return &redisTenantCache{client: client, ttl: ttl}
}

func tenantKey(slug string) string {
	return keyPrefix + slug
}

func (r *redisTenantCache) Get(ctx context.Context, slug string) (*models.Tenant, error) {
	data, err := r.client.Get(ctx, tenantKey(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var tenant models.Tenant
	if err := json.Unmarshal(data, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *redisTenantCache) Set(ctx context.Context, tenant *models.Tenant) error {
	data, err := json.Marshal(tenant)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, tenantKey(tenant.Slug), data, r.ttl).Err()
}

func (r *redisTenantCache) Delete(ctx context.Context, slug string) error {
	return r.client.Del(ctx, tenantKey(slug)).Err()
}

func (r *redisTenantCache) InvalidateAll(ctx context.Context) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisTenantCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// NopTenantCache is used when no Redis address is configured.
type NopTenantCache struct{}

func (NopTenantCache) Get(context.Context, string) (*models.Tenant, error) { return nil, nil }
func (NopTenantCache) Set(context.Context, *models.Tenant) error           { return nil }
func (NopTenantCache) Delete(context.Context, string) error                { return nil }
func (NopTenantCache) InvalidateAll(context.Context) error                 { return nil }
func (NopTenantCache) Ping(context.Context) error                          { return nil }
