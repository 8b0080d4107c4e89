package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// RedisStore keeps values under "<prefix>:<key>"
type RedisStore struct {
	client   *redis.Client
	prefix   string
	maxBytes int
}

// OpenRedis connects to redisURL and verifies the connection
func OpenRedis(ctx context.Context, redisURL, prefix string, maxBytes int) (*RedisStore, error) {
	errb := oops.Code("STORE_OPEN").In("store")

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errb.Wrapf(err, "parsing redis url")
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errb.With("addr", opts.Addr).Wrapf(err, "connecting to redis")
	}
	return &RedisStore{client: client, prefix: prefix, maxBytes: maxBytes}, nil
}

func (r *RedisStore) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *RedisStore) Load(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, oops.Code("STORE_LOAD").In("store").With("key", key).Wrapf(err, "redis get")
	}
	return v, true, nil
}

func (r *RedisStore) Save(ctx context.Context, key, value string) error {
	if err := checkQuota(key, value, r.maxBytes); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return oops.Code("STORE_SAVE").In("store").With("key", key).Wrapf(err, "redis set")
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
