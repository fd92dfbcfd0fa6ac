package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const tenantCodePrefix = "erp:tenant-code:"

// TenantCodeCache maps tenant codes to tenant IDs
type TenantCodeCache interface {
	// Get returns the cached ID and whether it was present
	Get(ctx context.Context, code string) (uuid.UUID, bool, error)
	Set(ctx context.Context, code string, id uuid.UUID, ttl time.Duration) error
	Invalidate(ctx context.Context, code string) error
}

// RedisTenantCodeCache stores code lookups in Redis
type RedisTenantCodeCache struct {
	client redis.UniversalClient
}

// NewRedisTenantCodeCache creates a cache on an existing client
func NewRedisTenantCodeCache(client redis.UniversalClient) *RedisTenantCodeCache {
	return &RedisTenantCodeCache{client: client}
}

// Get reads the tenant ID for code
func (c *RedisTenantCodeCache) Get(ctx context.Context, code string) (uuid.UUID, bool, error) {
	v, err := c.client.Get(ctx, tenantCodeKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("tenant cache get: %w", err)
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

// Set stores the tenant ID for code
func (c *RedisTenantCodeCache) Set(ctx context.Context, code string, id uuid.UUID, ttl time.Duration) error {
	if err := c.client.Set(ctx, tenantCodeKey(code), id.String(), ttl).Err(); err != nil {
		return fmt.Errorf("tenant cache set: %w", err)
	}
	return nil
}

// Invalidate drops the entry for code
func (c *RedisTenantCodeCache) Invalidate(ctx context.Context, code string) error {
	return c.client.Del(ctx, tenantCodeKey(code)).Err()
}

// InMemoryTenantCodeCache is the TenantCodeCache used without Redis
type InMemoryTenantCodeCache struct {
	mu      sync.RWMutex
	entries map[string]tenantEntry
}

type tenantEntry struct {
	id        uuid.UUID
	expiresAt time.Time
}

// NewInMemoryTenantCodeCache creates an empty cache
func NewInMemoryTenantCodeCache() *InMemoryTenantCodeCache {
	return &InMemoryTenantCodeCache{entries: make(map[string]tenantEntry)}
}

// Get returns an unexpired entry
func (c *InMemoryTenantCodeCache) Get(ctx context.Context, code string) (uuid.UUID, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[tenantCodeKey(code)]
	if !ok || time.Now().After(e.expiresAt) {
		return uuid.Nil, false, nil
	}
	return e.id, true, nil
}

// Set stores an entry
func (c *InMemoryTenantCodeCache) Set(ctx context.Context, code string, id uuid.UUID, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[tenantCodeKey(code)] = tenantEntry{id: id, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Invalidate drops an entry
func (c *InMemoryTenantCodeCache) Invalidate(ctx context.Context, code string) error {
	c.mu.Lock()
	delete(c.entries, tenantCodeKey(code))
	c.mu.Unlock()
	return nil
}

func tenantCodeKey(code string) string {
	return tenantCodePrefix + strings.ToUpper(strings.TrimSpace(code))
}

var (
	_ TenantCodeCache = (*RedisTenantCodeCache)(nil)
	_ TenantCodeCache = (*InMemoryTenantCodeCache)(nil)
)
