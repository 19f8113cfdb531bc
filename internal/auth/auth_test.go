package auth

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"example.com/blackstars/api"
	"example.com/blackstars/internal/database"
	"example.com/blackstars/internal/security"
	"example.com/blackstars/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fast parameters so tests don't burn CPU on the production iteration count
var testParams = security.Params{Iterations: 1000, KeyLength: 32}

type fakeUserStore struct {
	users  map[string]*api.User
	nextID int64
	getErr error
	insErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*api.User{}}
}

func (f *fakeUserStore) GetUser(ctx context.Context, username string) (*api.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	user, ok := f.users[username]
	if !ok {
		return nil, database.ERR_USER_NOT_FOUND
	}
	return user, nil
}

func (f *fakeUserStore) InsertUser(ctx context.Context, user *api.User) (int64, error) {
	if f.insErr != nil {
		return 0, f.insErr
	}
	if _, ok := f.users[user.Username]; ok {
		return 0, database.ERR_DUP_USERNAME
	}
	f.nextID++
	stored := *user
	stored.ID = f.nextID
	f.users[user.Username] = &stored
	return f.nextID, nil
}

// failingSessions rejects every Establish call.
type failingSessions struct{}

func (failingSessions) Establish(context.Context, api.Identity) (string, error) {
	return "", session.ERR_STORE_UNAVAILABLE
}
func (failingSessions) Resolve(context.Context, string) (*api.Identity, error) { return nil, nil }
func (failingSessions) Revoke(context.Context, string) error                   { return nil }

func newTestAuthenticator(t *testing.T, users database.UserStore) (*Authenticator, session.Manager) {
	t.Helper()
	store, err := session.NewMemStore(time.Hour)
	require.NoError(t, err)
	sessions := session.NewManager(store)
	a := New(users, sessions)
	a.params = testParams
	return a, sessions
}

func seedUser(t *testing.T, store *fakeUserStore, username, password string) {
	t.Helper()
	salt, err := security.NewSalt()
	require.NoError(t, err)
	store.nextID++
	store.users[username] = &api.User{
		ID:       store.nextID,
		Username: username,
		Salt:     salt,
		PwHash:   testParams.DeriveKey(password, salt),
	}
}

func TestVerifySuccess(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	seedUser(t, users, "alice", "secret")
	a, _ := newTestAuthenticator(t, users)

	identity, err := a.Verify(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, strconv.FormatInt(users.users["alice"].ID, 10), identity.ID)
}

func TestVerifyFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	seedUser(t, users, "alice", "secret")
	a, _ := newTestAuthenticator(t, users)

	_, wrongPw := a.Verify(ctx, "alice", "not-the-password")
	_, unknown := a.Verify(ctx, "nobody", "whatever")
	assert.ErrorIs(t, wrongPw, ERR_INVALID_CREDENTIALS)
	assert.ErrorIs(t, unknown, ERR_INVALID_CREDENTIALS)
	assert.Equal(t, wrongPw, unknown)
}

func TestVerifyStoreFailureIsNotInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	users.getErr = errors.New("connection refused")
	a, _ := newTestAuthenticator(t, users)

	_, err := a.Verify(ctx, "alice", "secret")
	assert.ErrorIs(t, err, ERR_STORE_UNAVAILABLE)
	assert.NotErrorIs(t, err, ERR_INVALID_CREDENTIALS)
}

func TestSignupMissingFields(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAuthenticator(t, newFakeUserStore())

	_, _, err := a.Signup(ctx, "", "secret")
	assert.ErrorIs(t, err, ERR_MISSING_FIELD)
	_, _, err = a.Signup(ctx, "alice", "")
	assert.ErrorIs(t, err, ERR_MISSING_FIELD)
}

func TestSignupEstablishesSession(t *testing.T) {
	ctx := context.Background()
	a, sessions := newTestAuthenticator(t, newFakeUserStore())

	identity, sid, err := a.Signup(ctx, "alice", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, sid)
	assert.Equal(t, "alice", identity.Username)

	resolved, err := sessions.Resolve(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, *identity, *resolved)
}

func TestSignupUsernameTaken(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAuthenticator(t, newFakeUserStore())

	_, _, err := a.Signup(ctx, "alice", "secret")
	require.NoError(t, err)
	_, _, err = a.Signup(ctx, "alice", "another-password")
	assert.ErrorIs(t, err, ERR_USERNAME_TAKEN)
}

func TestSignupStoreFailure(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	users.insErr = errors.New("connection refused")
	a, _ := newTestAuthenticator(t, users)

	_, _, err := a.Signup(ctx, "alice", "secret")
	assert.ErrorIs(t, err, ERR_STORE_UNAVAILABLE)
}

// A session failure after the credential write must not undo the write:
// signup is at-least-persisted, best-effort auto-login.
func TestSignupKeepsCredentialWhenSessionFails(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	a := New(users, failingSessions{})
	a.params = testParams

	identity, sid, err := a.Signup(ctx, "alice", "secret")
	assert.ErrorIs(t, err, session.ERR_STORE_UNAVAILABLE)
	assert.Empty(t, sid)
	require.NotNil(t, identity)

	// the credential survived and a later login works
	verified, err := a.Verify(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", verified.Username)
}

func TestSignupLogoutLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	a, sessions := newTestAuthenticator(t, newFakeUserStore())

	_, sid, err := a.Signup(ctx, "bob", "pw1")
	require.NoError(t, err)
	require.NoError(t, sessions.Revoke(ctx, sid))

	identity, err := a.Verify(ctx, "bob", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "bob", identity.Username)

	_, err = a.Verify(ctx, "bob", "wrongpw")
	assert.ErrorIs(t, err, ERR_INVALID_CREDENTIALS)
}
