package flagging

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/meridianlabs/lims-backend/pkg/db/models"
	"github.com/meridianlabs/lims-backend/pkg/logger"
	"github.com/meridianlabs/lims-backend/pkg/redis"
)

const ruleSetCacheScope = "flag-rule-set"

// CachedRuleSource is a read-through cache over the active rule set. Rule
// sets change rarely and every ingested message needs one, so a short TTL
// keeps the hot path off the database. Any cache failure falls through to
// the underlying source.
type CachedRuleSource struct {
	source RuleSource
	cache  *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewCachedRuleSource(source RuleSource, cache *redis.Client, ttl time.Duration, log *logger.Logger) *CachedRuleSource {
	return &CachedRuleSource{source: source, cache: cache, ttl: ttl, log: log}
}

func (c *CachedRuleSource) LatestActive(ctx context.Context) (*models.FlagRuleSet, error) {
	if c.cache == nil {
		return c.source.LatestActive(ctx)
	}

	key := c.cache.CacheKey(ruleSetCacheScope, "active")
	if raw, err := c.cache.Get(ctx, key); err == nil {
		var set models.FlagRuleSet
		if err := json.Unmarshal([]byte(raw), &set); err == nil {
			return &set, nil
		}
	} else if !errors.Is(err, redis.Nil) && c.log != nil {
		c.log.Warn(ctx, "rule set cache read failed, falling back to database")
	}

	set, err := c.source.LatestActive(ctx)
	if err != nil || set == nil {
		return set, err
	}

	if encoded, err := json.Marshal(set); err == nil {
		if err := c.cache.Set(ctx, key, string(encoded), c.ttl); err != nil && c.log != nil {
			c.log.Warn(ctx, "rule set cache write failed")
		}
	}
	return set, nil
}

// Invalidate drops the cached rule set, forcing the next read to hit the
// database. Called when a new rule set version is activated.
func (c *CachedRuleSource) Invalidate(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Del(ctx, c.cache.CacheKey(ruleSetCacheScope, "active"))
}
