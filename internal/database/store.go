package database

import (
	"context"
	"errors"

	"example.com/blackstars/api"
)

/*
This package owns the durable stores: the credential (users) table consumed
by the authentication core and the players roster table. Both a MySQL and a
SQLite implementation exist; the servers are wired against the interfaces.
*/

var (
	ERR_USER_NOT_FOUND   = errors.New("no such user")
	ERR_DUP_USERNAME     = errors.New("username already taken")
	ERR_PLAYER_NOT_FOUND = errors.New("no such player")
	ERR_PLAYER_INVALID   = errors.New("player fails schema validation")
)

// UserStore is the credential store consumed by the authentication core.
// InsertUser must fail with ERR_DUP_USERNAME when the username exists.
type UserStore interface {
	GetUser(ctx context.Context, username string) (*api.User, error)
	InsertUser(ctx context.Context, user *api.User) (int64, error)
}

type PlayerStore interface {
	ListPlayers(ctx context.Context) ([]api.Player, error)
	InsertPlayer(ctx context.Context, p *api.Player) error
	UpdatePlayer(ctx context.Context, id string, fields map[string]interface{}) (*api.Player, error)
}

// DB is one database holding both tables.
type DB interface {
	UserStore
	PlayerStore
	Close() error
}
