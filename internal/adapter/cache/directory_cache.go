package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/auditra/auditra/internal/ports"
	"github.com/auditra/auditra/internal/service/logger"
)

const (
	auditorsKey = "directory:auditors"
	unitsKey    = "directory:units"
)

// CachedDirectory is a read-through Redis cache in front of the auditor and
// unit registry. Every import batch and aggregation lists the full
// directory, so the listings are cached with a TTL. Any cache failure falls
// back to the wrapped directory.
type CachedDirectory struct {
	inner  ports.Directory
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewCachedDirectory wraps a directory with a Redis cache
func NewCachedDirectory(inner ports.Directory, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedDirectory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedDirectory{inner: inner, client: client, ttl: ttl, log: log}
}

// ListAuditors returns the cached auditor listing, refreshing it on a miss
func (d *CachedDirectory) ListAuditors(ctx context.Context) ([]ports.AuditorRecord, error) {
	var auditors []ports.AuditorRecord
	if d.readCache(ctx, auditorsKey, &auditors) {
		return auditors, nil
	}

	auditors, err := d.inner.ListAuditors(ctx)
	if err != nil {
		return nil, err
	}
	d.writeCache(ctx, auditorsKey, auditors)
	return auditors, nil
}

// ListUnits returns the cached unit listing, refreshing it on a miss
func (d *CachedDirectory) ListUnits(ctx context.Context) ([]ports.UnitRecord, error) {
	var units []ports.UnitRecord
	if d.readCache(ctx, unitsKey, &units) {
		return units, nil
	}

	units, err := d.inner.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	d.writeCache(ctx, unitsKey, units)
	return units, nil
}

// Invalidate drops both cached listings, e.g. after directory edits
func (d *CachedDirectory) Invalidate(ctx context.Context) {
	if err := d.client.Del(ctx, auditorsKey, unitsKey).Err(); err != nil {
		d.log.Warn(ctx, "failed to invalidate directory cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (d *CachedDirectory) readCache(ctx context.Context, key string, out interface{}) bool {
	data, err := d.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			d.log.Warn(ctx, "directory cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		d.log.Warn(ctx, "directory cache entry corrupt", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	return true
}

func (d *CachedDirectory) writeCache(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := d.client.Set(ctx, key, data, d.ttl).Err(); err != nil {
		d.log.Warn(ctx, "directory cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
