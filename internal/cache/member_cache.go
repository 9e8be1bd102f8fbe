package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Juliussaint/gmianugerah/internal/domain"
	"github.com/Juliussaint/gmianugerah/internal/persistence"
)

const memberKeyPrefix = "member:"

// MemberCache is a redis read-through cache for member detail lookups.
// Every mutation path invalidates the cached entry. Cache failures are
// logged and treated as misses so redis outages never block reads.
type MemberCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewMemberCache builds the cache over the shared redis handle.
func NewMemberCache(r *persistence.Redis, ttl time.Duration, logger *zap.Logger) *MemberCache {
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &MemberCache{client: client, ttl: ttl, logger: logger}
}

// Get returns a cached member, or (nil, false) on miss.
func (c *MemberCache) Get(ctx context.Context, id string) (*domain.Member, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, memberKeyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("member cache get failed", zap.Error(err))
		}
		return nil, false
	}
	var member domain.Member
	if err := json.Unmarshal(raw, &member); err != nil {
		c.logger.Warn("member cache entry corrupt", zap.String("member_id", id), zap.Error(err))
		return nil, false
	}
	return &member, true
}

// Set stores a member snapshot.
func (c *MemberCache) Set(ctx context.Context, member *domain.Member) {
	if c == nil || c.client == nil || member == nil {
		return
	}
	raw, err := json.Marshal(member)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, memberKeyPrefix+member.ID, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("member cache set failed", zap.Error(err))
	}
}

// Invalidate drops the cached entry for a member.
func (c *MemberCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, memberKeyPrefix+id).Err(); err != nil {
		c.logger.Debug("member cache invalidate failed", zap.Error(err))
	}
}
