// Package cache holds a redis-backed cache for materialized view results.
// Every mutation in the service layer invalidates exactly the views it
// affects; nothing here expires views speculatively beyond a safety TTL.
// All operations are fail-open: redis being down means recompute, never error.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "views:"

// VisibleCompaniesKey names the visible-companies view for a user.
func VisibleCompaniesKey(userID uuid.UUID) string {
	return keyPrefix + "visible_companies:" + userID.String()
}

// PersonalRepositoryKey names the personal-repository view for a user.
func PersonalRepositoryKey(userID uuid.UUID) string {
	return keyPrefix + "personal_repository:" + userID.String()
}

// ProjectsKey names the visible-projects view for a user.
func ProjectsKey(userID uuid.UUID) string {
	return keyPrefix + "projects:" + userID.String()
}

// Views is a JSON-over-redis view cache.
type Views struct {
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

// New connects to redis and returns a Views cache.
func New(addr, password string, db int) (*Views, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &Views{
		client:  client,
		ttl:     5 * time.Minute,
		timeout: 250 * time.Millisecond,
	}, nil
}

// Close releases the redis connection.
func (v *Views) Close() error {
	return v.client.Close()
}

// Get loads a cached view into dest. Returns false on miss or any error.
func (v *Views) Get(ctx context.Context, key string, dest any) bool {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	raw, err := v.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("view cache get failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		slog.Debug("view cache decode failed", "key", key, "error", err)
		return false
	}

	return true
}

// Set stores a view result under key.
func (v *Views) Set(ctx context.Context, key string, val any) {
	raw, err := json.Marshal(val)
	if err != nil {
		slog.Debug("view cache encode failed", "key", key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	if err := v.client.Set(ctx, key, raw, v.ttl).Err(); err != nil {
		slog.Debug("view cache set failed", "key", key, "error", err)
	}
}

// Invalidate drops the named views.
func (v *Views) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	if err := v.client.Del(ctx, keys...).Err(); err != nil {
		slog.Debug("view cache invalidate failed", "keys", keys, "error", err)
	}
}
