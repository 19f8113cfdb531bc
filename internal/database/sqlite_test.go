package database

import (
	"context"
	"testing"

	"example.com/blackstars/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) DB {
	t.Helper()
	db, err := NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserInsertAndGet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	id, err := db.InsertUser(ctx, &api.User{
		Username: "alice",
		Salt:     []byte("0123456789abcdef"),
		PwHash:   []byte("not-a-real-hash-but-32-bytes-ok!"),
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	user, err := db.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, []byte("0123456789abcdef"), user.Salt)
	assert.Equal(t, []byte("not-a-real-hash-but-32-bytes-ok!"), user.PwHash)
}

func TestGetUserNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, ERR_USER_NOT_FOUND)
}

func TestInsertUserDuplicate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	user := &api.User{Username: "alice", Salt: []byte("s"), PwHash: []byte("h")}
	_, err := db.InsertUser(ctx, user)
	require.NoError(t, err)
	_, err = db.InsertUser(ctx, user)
	assert.ErrorIs(t, err, ERR_DUP_USERNAME)
}

func TestPlayerLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	player := &api.Player{
		ID:             "p1",
		Name:           "Asamoah Gyan",
		Age:            30,
		PlaysAbroad:    true,
		Club:           "Sunderland",
		IsCaptain:      true,
		JerseyNumber:   3,
		PositionOfPlay: 9,
	}
	require.NoError(t, db.InsertPlayer(ctx, player))
	require.NoError(t, db.InsertPlayer(ctx, &api.Player{
		ID: "p2", Name: "Andre Ayew", Age: 26, JerseyNumber: 10, PositionOfPlay: 10,
	}))

	players, err := db.ListPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	// ordered by jersey number
	assert.Equal(t, "Asamoah Gyan", players[0].Name)
	assert.Equal(t, "Andre Ayew", players[1].Name)
	assert.Empty(t, players[1].Club)

	updated, err := db.UpdatePlayer(ctx, "p2", map[string]interface{}{
		"club":         "West Ham",
		"plays_abroad": true,
		"ignored":      "field",
	})
	require.NoError(t, err)
	assert.Equal(t, "West Ham", updated.Club)
	assert.True(t, updated.PlaysAbroad)
	assert.Equal(t, 26, updated.Age)
}

func TestUpdatePlayerNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.UpdatePlayer(context.Background(), "ghost", map[string]interface{}{"age": 31})
	assert.ErrorIs(t, err, ERR_PLAYER_NOT_FOUND)
}

func TestInsertPlayerValidation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	cases := []struct {
		name   string
		player api.Player
	}{
		{"age too low", api.Player{ID: "x", Name: "n", Age: 13, JerseyNumber: 1, PositionOfPlay: 1}},
		{"age too high", api.Player{ID: "x", Name: "n", Age: 46, JerseyNumber: 1, PositionOfPlay: 1}},
		{"jersey out of range", api.Player{ID: "x", Name: "n", Age: 20, JerseyNumber: 100, PositionOfPlay: 1}},
		{"position out of range", api.Player{ID: "x", Name: "n", Age: 20, JerseyNumber: 1, PositionOfPlay: 12}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			player := tc.player
			assert.ErrorIs(t, db.InsertPlayer(ctx, &player), ERR_PLAYER_INVALID)
		})
	}
}
