package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Hany173g/OtakuZone-sub001/logger"
)

// Presence tracks which users currently hold at least one live websocket
// connection. It is advisory only: the realtime layer is best-effort, so a
// missing Redis just means every presence lookup answers offline.
type Presence struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPresence wraps the given client; a nil client yields a no-op tracker.
func NewPresence(rdb *redis.Client, ttl time.Duration) *Presence {
	if ttl <= 0 {
		ttl = 3 * time.Hour
	}
	return &Presence{rdb: rdb, ttl: ttl}
}

func (p *Presence) key(userID string) string {
	return fmt.Sprintf("online:u:%s", userID)
}

// Online records one connection for the user.
func (p *Presence) Online(ctx context.Context, userID, connID string) {
	if p == nil || p.rdb == nil || userID == "" {
		return
	}
	key := p.key(userID)
	pipe := p.rdb.Pipeline()
	pipe.SAdd(ctx, key, connID)
	pipe.Expire(ctx, key, p.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Debugf("presence online err user=%s: %v", userID, err)
	}
}

// Offline removes one connection; removing an already-gone connection is a
// no-op.
func (p *Presence) Offline(ctx context.Context, userID, connID string) {
	if p == nil || p.rdb == nil || userID == "" {
		return
	}
	if err := p.rdb.SRem(ctx, p.key(userID), connID).Err(); err != nil {
		logger.Debugf("presence offline err user=%s: %v", userID, err)
	}
}

// IsOnline reports whether the user has any live connection recorded.
func (p *Presence) IsOnline(ctx context.Context, userID string) bool {
	if p == nil || p.rdb == nil || userID == "" {
		return false
	}
	n, err := p.rdb.SCard(ctx, p.key(userID)).Result()
	if err != nil {
		return false
	}
	return n > 0
}
