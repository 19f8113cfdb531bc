package session

import (
	"context"

	"example.com/blackstars/api"
)

// Store persists session records keyed by session id. Implementations own
// expiry: a record past its TTL behaves exactly like one that never existed.
type Store interface {
	// Put stores the record under sid.
	Put(ctx context.Context, sid string, sess *api.Session) error
	// Get returns the record for sid, or (nil, nil) when absent.
	Get(ctx context.Context, sid string) (*api.Session, error)
	// Delete removes sid. Deleting an absent sid is not an error.
	Delete(ctx context.Context, sid string) error
}
