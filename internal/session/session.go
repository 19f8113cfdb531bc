package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"example.com/blackstars/api"
	"github.com/satori/uuid"
	log "github.com/sirupsen/logrus"
)

/*
Session manager converts an authenticated identity into a stored session
record and restores the identity on later requests. Only the {id, username}
projection is serialized; credential material never enters the session store.
*/

const STORE_TIMEOUT = 3 * time.Second

var ERR_STORE_UNAVAILABLE = errors.New("session store unavailable")

type Manager interface {
	// Establish creates a session for identity and returns its opaque id.
	Establish(ctx context.Context, identity api.Identity) (string, error)
	// Resolve returns the identity behind sid, or (nil, nil) for an unknown,
	// expired or revoked sid. Not being authenticated is not an error.
	Resolve(ctx context.Context, sid string) (*api.Identity, error)
	// Revoke deletes the session. Revoking an absent sid succeeds silently.
	Revoke(ctx context.Context, sid string) error
}

type manager struct {
	store   Store
	timeout time.Duration
}

func NewManager(store Store) Manager {
	return &manager{store: store, timeout: STORE_TIMEOUT}
}

func (mgr *manager) Establish(ctx context.Context, identity api.Identity) (string, error) {
	sid := uuid.NewV4().String()
	sess := api.Session{
		SessID:   sid,
		Identity: identity,
	}
	ctx, cancel := context.WithTimeout(ctx, mgr.timeout)
	defer cancel()
	if err := mgr.store.Put(ctx, sid, &sess); err != nil {
		return "", fmt.Errorf("%w: %v", ERR_STORE_UNAVAILABLE, err)
	}
	log.WithFields(log.Fields{
		api.SessionId: sid,
		api.Username:  identity.Username,
	}).Debug("Session established")
	return sid, nil
}

func (mgr *manager) Resolve(ctx context.Context, sid string) (*api.Identity, error) {
	if sid == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, mgr.timeout)
	defer cancel()
	sess, err := mgr.store.Get(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ERR_STORE_UNAVAILABLE, err)
	}
	if sess == nil {
		return nil, nil
	}
	return &sess.Identity, nil
}

func (mgr *manager) Revoke(ctx context.Context, sid string) error {
	ctx, cancel := context.WithTimeout(ctx, mgr.timeout)
	defer cancel()
	if err := mgr.store.Delete(ctx, sid); err != nil {
		return fmt.Errorf("%w: %v", ERR_STORE_UNAVAILABLE, err)
	}
	log.WithField(api.SessionId, sid).Debug("Session revoked")
	return nil
}
