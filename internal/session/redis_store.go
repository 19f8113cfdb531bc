package session

import (
	"context"
	"time"

	"example.com/blackstars/api"
	rcache "github.com/go-redis/cache/v8"
	"github.com/go-redis/redis/v8"
)

type redisStore struct {
	client *rcache.Cache
	ttl    time.Duration
}

// NewRedisStore connects to Redis and returns a session store whose records
// expire after ttl. A small TinyLFU local cache fronts the round trips.
func NewRedisStore(ctx context.Context, host string, db int, ttl time.Duration) (Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:       host,
		DB:         db,
		MaxRetries: 3,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}
	mycache := rcache.New(&rcache.Options{
		Redis:      rdb,
		LocalCache: rcache.NewTinyLFU(1000, ttl),
	})
	return &redisStore{client: mycache, ttl: ttl}, nil
}

func (store *redisStore) Put(ctx context.Context, sid string, sess *api.Session) error {
	return store.client.Set(&rcache.Item{
		Ctx:   ctx,
		Key:   sid,
		Value: sess,
		TTL:   store.ttl,
	})
}

func (store *redisStore) Get(ctx context.Context, sid string) (*api.Session, error) {
	var sess api.Session
	err := store.client.Get(ctx, sid, &sess)
	if err == rcache.ErrCacheMiss {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (store *redisStore) Delete(ctx context.Context, sid string) error {
	return store.client.Delete(ctx, sid)
}
