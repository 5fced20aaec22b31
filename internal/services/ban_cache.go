package services

import (
	"context"
	"encoding/json"
	"time"

	"carclub/paddock/internal/common"
	"carclub/paddock/internal/constants"
	"carclub/paddock/internal/db/repositories"
	"carclub/paddock/internal/logging"
	models "carclub/paddock/internal/models/gorm"
)

const defaultBanCacheTTL = 5 * time.Minute

// noBan marks a pair known to have no ban record.
var noBan = []byte("null")

// BanCache memoises ban records for the IsBanned read path. It stores the
// record, not the verdict, so expiry is still judged at read time.
type BanCache struct {
	cache    common.CacheInterface
	ttl      time.Duration
	recorder Recorder
}

func NewBanCache(cache common.CacheInterface, ttl time.Duration, recorder Recorder) *BanCache {
	if ttl <= 0 {
		ttl = defaultBanCacheTTL
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &BanCache{cache: cache, ttl: ttl, recorder: recorder}
}

func banKey(userID, clubID string) string {
	return string(constants.CachePrefixBan) + clubID + ":" + userID
}

// Lookup returns the ban record for the pair, or nil if there is none.
func (c *BanCache) Lookup(ctx context.Context, store *repositories.Store, userID, clubID string) (*models.Ban, error) {
	key := banKey(userID, clubID)

	if raw, ok := c.cache.Get(ctx, key); ok {
		var ban *models.Ban
		if err := json.Unmarshal(raw, &ban); err == nil {
			c.recorder.RecordCacheLookup("ban", true)
			return ban, nil
		}
		logging.Warn("discarding unreadable ban cache entry", "key", key)
		c.cache.Delete(ctx, key)
	}
	c.recorder.RecordCacheLookup("ban", false)

	ban, err := optional(store.Bans.GetByUserAndClub(ctx, userID, clubID))
	if err != nil {
		return nil, err
	}

	raw := noBan
	if ban != nil {
		if raw, err = json.Marshal(ban); err != nil {
			return ban, nil
		}
	}
	c.cache.Set(ctx, key, raw, c.ttl)
	return ban, nil
}

// Invalidate drops the cached record after a ban or unban commits.
func (c *BanCache) Invalidate(ctx context.Context, userID, clubID string) {
	c.cache.Delete(ctx, banKey(userID, clubID))
}
