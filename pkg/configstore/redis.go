package configstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/newtron-network/netsim/pkg/util"
)

// KeyPrefix is the table name of saved configurations. Each device is a
// hash at "NETSIM_SAVED_CONFIG|<deviceID>" with fields config and saved_at.
const KeyPrefix = "NETSIM_SAVED_CONFIG"

const (
	fieldConfig  = "config"
	fieldSavedAt = "saved_at"
)

// RedisStore keeps saved configurations in Redis hashes.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store on the given Redis address and database.
// The connection is not checked until Connect or the first call.
func NewRedisStore(addr string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
	}
}

// Connect tests the connection
func (r *RedisStore) Connect(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connecting to redis at %s: %w", r.client.Options().Addr, err)
	}
	return nil
}

func redisKey(deviceID string) string {
	return KeyPrefix + "|" + deviceID
}

func (r *RedisStore) Save(ctx context.Context, deviceID, config string) (*Saved, error) {
	s := &Saved{DeviceID: deviceID, Config: config, SavedAt: time.Now().UTC()}
	err := r.client.HSet(ctx, redisKey(deviceID),
		fieldConfig, config,
		fieldSavedAt, s.SavedAt.Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return nil, fmt.Errorf("saving configuration for %s: %w", deviceID, err)
	}
	util.WithDevice(deviceID).Debug("Saved configuration to redis")
	return s, nil
}

func (r *RedisStore) Load(ctx context.Context, deviceID string) (*Saved, error) {
	vals, err := r.client.HGetAll(ctx, redisKey(deviceID)).Result()
	if err != nil {
		return nil, fmt.Errorf("loading configuration for %s: %w", deviceID, err)
	}
	config, ok := vals[fieldConfig]
	if !ok {
		return nil, util.NewNotFoundError("saved configuration for", deviceID)
	}

	s := &Saved{DeviceID: deviceID, Config: config}
	if ts := vals[fieldSavedAt]; ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			s.SavedAt = t
		} else {
			util.WithDevice(deviceID).Warnf("Ignoring malformed saved_at %q", ts)
		}
	}
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, deviceID string) error {
	return r.client.Del(ctx, redisKey(deviceID)).Err()
}

// List returns device IDs with a saved configuration, sorted.
func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	keys, err := scanKeys(ctx, r.client, KeyPrefix+"|*", 100)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, KeyPrefix+"|"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Close closes the connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// scanKeys collects keys matching pattern with SCAN rather than KEYS.
func scanKeys(ctx context.Context, client *redis.Client, pattern string, countHint int64) ([]string, error) {
	var cursor uint64
	var keys []string
	for {
		batch, next, err := client.Scan(ctx, cursor, pattern, countHint).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}
