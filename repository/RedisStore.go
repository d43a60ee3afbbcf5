package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	rdb *redis.Client
	ctx context.Context
	ttl time.Duration
}

const pingTimeout = 5 * time.Second

// NewRedisStore keeps every value for ttl after its last write. A zero ttl
// keeps values forever. _ctx is used for every later command; the startup
// ping is bounded by pingTimeout.
func NewRedisStore(redis_conn *redis.Client, _ctx context.Context, ttl time.Duration) (KeyValueStore, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	pingCtx, cncl := context.WithTimeout(_ctx, pingTimeout)
	defer cncl()
	err := redis_conn.Ping(pingCtx).Err()
	if err != nil {
		return nil, err
	}
	return &RedisStore{
		rdb: redis_conn,
		ctx: _ctx,
		ttl: ttl,
	}, nil
}

func (r *RedisStore) Get(key string) (value string, found bool, err error) {
	value, err = r.rdb.Get(r.ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = nil
			return
		}
		err = fmt.Errorf("redis get %q: %w", key, err)
		return
	}
	found = true
	return
}

func (r *RedisStore) Set(key string, value string) (err error) {
	err = r.rdb.Set(r.ctx, key, value, r.ttl).Err()
	if err != nil {
		err = fmt.Errorf("redis set %q: %w", key, err)
	}
	return
}
