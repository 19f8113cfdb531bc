package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"example.com/blackstars/api"
	"example.com/blackstars/internal/database"
	"example.com/blackstars/internal/security"
	"example.com/blackstars/internal/session"
	log "github.com/sirupsen/logrus"
)

/*
This package holds the local-credential authentication core: verifying a
username/password pair against the credential store and the signup flow that
provisions a credential and logs the new user straight in.
*/

const (
	SESS_COOKIE_NAME = "session"

	STORE_TIMEOUT = 3 * time.Second
)

var (
	// ERR_INVALID_CREDENTIALS covers both unknown usernames and wrong
	// passwords, so failures cannot be used to enumerate accounts.
	ERR_INVALID_CREDENTIALS = errors.New("incorrect username or password")
	ERR_STORE_UNAVAILABLE   = errors.New("credential store unavailable")
	ERR_MISSING_FIELD       = errors.New("username or password missing")
	ERR_USERNAME_TAKEN      = errors.New("username already taken")
)

type Authenticator struct {
	users    database.UserStore
	sessions session.Manager
	params   security.Params
	timeout  time.Duration
}

func New(users database.UserStore, sessions session.Manager) *Authenticator {
	return &Authenticator{
		users:    users,
		sessions: sessions,
		params:   security.DefaultParams,
		timeout:  STORE_TIMEOUT,
	}
}

// Verify checks a username/password pair against the stored credential and
// returns the authenticated identity. One store read, no writes. The raw
// password is never logged.
func (a *Authenticator) Verify(ctx context.Context, username, password string) (*api.Identity, error) {
	user, err := a.getUser(ctx, username)
	if err != nil {
		if errors.Is(err, database.ERR_USER_NOT_FOUND) {
			return nil, ERR_INVALID_CREDENTIALS
		}
		return nil, fmt.Errorf("%w: %v", ERR_STORE_UNAVAILABLE, err)
	}
	derived := a.params.DeriveKey(password, user.Salt)
	if !security.ConstantTimeEqual(user.PwHash, derived) {
		log.WithField(api.Username, username).Debug("Password mismatch")
		return nil, ERR_INVALID_CREDENTIALS
	}
	return identityOf(user), nil
}

// Login verifies the credential and establishes a session for it.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*api.Identity, string, error) {
	identity, err := a.Verify(ctx, username, password)
	if err != nil {
		return nil, "", err
	}
	sid, err := a.sessions.Establish(ctx, *identity)
	if err != nil {
		return nil, "", err
	}
	return identity, sid, nil
}

// Signup provisions a fresh credential and establishes a session for it.
// The credential write is not rolled back when establishing the session
// fails: the account stays valid for a later login, and the session error is
// returned alongside the identity.
func (a *Authenticator) Signup(ctx context.Context, username, password string) (*api.Identity, string, error) {
	if username == "" || password == "" {
		return nil, "", ERR_MISSING_FIELD
	}
	salt, err := security.NewSalt()
	if err != nil {
		return nil, "", fmt.Errorf("generating salt: %w", err)
	}
	user := &api.User{
		Username: username,
		Salt:     salt,
		PwHash:   a.params.DeriveKey(password, salt),
	}
	id, err := a.insertUser(ctx, user)
	if err != nil {
		if errors.Is(err, database.ERR_DUP_USERNAME) {
			return nil, "", ERR_USERNAME_TAKEN
		}
		return nil, "", fmt.Errorf("%w: %v", ERR_STORE_UNAVAILABLE, err)
	}
	user.ID = id
	log.WithField(api.Username, username).Info("User registered")

	identity := identityOf(user)
	sid, err := a.sessions.Establish(ctx, *identity)
	if err != nil {
		return identity, "", err
	}
	return identity, sid, nil
}

func (a *Authenticator) getUser(ctx context.Context, username string) (*api.User, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.users.GetUser(ctx, username)
}

func (a *Authenticator) insertUser(ctx context.Context, user *api.User) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.users.InsertUser(ctx, user)
}

func identityOf(user *api.User) *api.Identity {
	return &api.Identity{
		ID:       strconv.FormatInt(user.ID, 10),
		Username: user.Username,
	}
}
