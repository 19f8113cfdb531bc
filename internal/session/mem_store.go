package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"example.com/blackstars/api"
	"github.com/allegro/bigcache/v3"
)

type memStore struct {
	cache *bigcache.BigCache
}

// NewMemStore returns an in-process session store with TTL eviction. Sessions
// do not survive a restart; the lite server accepts that trade.
func NewMemStore(ttl time.Duration) (Store, error) {
	cache, err := bigcache.NewBigCache(bigcache.DefaultConfig(ttl))
	if err != nil {
		return nil, err
	}
	return &memStore{cache: cache}, nil
}

func (store *memStore) Put(ctx context.Context, sid string, sess *api.Session) error {
	buf, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return store.cache.Set(sid, buf)
}

func (store *memStore) Get(ctx context.Context, sid string) (*api.Session, error) {
	buf, err := store.cache.Get(sid)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess api.Session
	if err := json.Unmarshal(buf, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (store *memStore) Delete(ctx context.Context, sid string) error {
	err := store.cache.Delete(sid)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}
