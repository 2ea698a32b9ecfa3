package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/propdata/property-api/internal/core/domain"
)

const (
	resultCacheTTL    = 5 * time.Minute
	resultCachePrefix = "query:"
)

// ResultCache stores serialized search result pages in Redis.
// Key format: query:<sha256(query_page_size) truncated to 16 hex chars>.
type ResultCache struct {
	client *redis.Client
}

func NewResultCache(client *redis.Client) *ResultCache {
	return &ResultCache{client: client}
}

type cachedResult struct {
	Total      int64             `json:"total"`
	Properties []domain.Property `json:"properties"`
}

// Get returns the cached page, or (nil, nil) on a miss.
func (c *ResultCache) Get(ctx context.Context, query string, page, size int) (*domain.SearchResult, error) {
	raw, err := c.client.Get(ctx, c.key(query, page, size)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("result cache get: %w", err)
	}

	var cached cachedResult
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, fmt.Errorf("result cache decode: %w", err)
	}

	return &domain.SearchResult{Total: cached.Total, Properties: cached.Properties}, nil
}

// Set stores the page with the cache TTL.
func (c *ResultCache) Set(ctx context.Context, query string, page, size int, result *domain.SearchResult) error {
	raw, err := json.Marshal(cachedResult{Total: result.Total, Properties: result.Properties})
	if err != nil {
		return fmt.Errorf("result cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(query, page, size), raw, resultCacheTTL).Err()
}

func (c *ResultCache) key(query string, page, size int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%d_%d", strings.ToLower(strings.TrimSpace(query)), page, size)))
	return resultCachePrefix + hex.EncodeToString(sum[:])[:16]
}
