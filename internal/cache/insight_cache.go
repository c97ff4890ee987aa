package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bevora/distops/internal/config"
	"github.com/bevora/distops/internal/domain"
)

const (
	insightSummaryKeyPrefix = "insights:summary"
	insightScanBatchSize    = 100
)

// InsightCache holds composed insight summaries between requests. Computing a
// summary walks the whole active catalog, so even a short TTL pays off.
type InsightCache interface {
	GetSummary(ctx context.Context, day time.Time, catalogCap int) (*domain.InsightSummary, bool, error)
	SetSummary(ctx context.Context, day time.Time, catalogCap int, summary *domain.InsightSummary) error
	InvalidateAll(ctx context.Context) error
}

type redisInsightCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopInsightCache struct{}

func NewInsightCache(cfg config.CacheConfig) (InsightCache, error) {
	if !cfg.Enabled {
		return &noopInsightCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisInsightCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopInsightCache() InsightCache {
	return &noopInsightCache{}
}

func (c *redisInsightCache) GetSummary(ctx context.Context, day time.Time, catalogCap int) (*domain.InsightSummary, bool, error) {
	key := buildInsightSummaryKey(day, catalogCap)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.InsightSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode insight summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisInsightCache) SetSummary(ctx context.Context, day time.Time, catalogCap int, summary *domain.InsightSummary) error {
	key := buildInsightSummaryKey(day, catalogCap)
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode insight summary cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisInsightCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, insightSummaryKeyPrefix, insightScanBatchSize)
}

func (n *noopInsightCache) GetSummary(ctx context.Context, day time.Time, catalogCap int) (*domain.InsightSummary, bool, error) {
	return nil, false, nil
}

func (n *noopInsightCache) SetSummary(ctx context.Context, day time.Time, catalogCap int, summary *domain.InsightSummary) error {
	return nil
}

func (n *noopInsightCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildInsightSummaryKey(day time.Time, catalogCap int) string {
	raw := fmt.Sprintf("day=%s|cap=%d", day.Format("2006-01-02"), catalogCap)
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", insightSummaryKeyPrefix, hex.EncodeToString(sum[:]))
}
