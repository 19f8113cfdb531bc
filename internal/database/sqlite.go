package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	salt BLOB NOT NULL,
	hashed_password BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS players (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	age INTEGER NOT NULL,
	plays_abroad BOOLEAN NOT NULL DEFAULT 0,
	club TEXT NULL,
	is_captain BOOLEAN NOT NULL DEFAULT 0,
	jersey_number INTEGER NOT NULL,
	position_of_play INTEGER NOT NULL
);`

// NewSQLite opens (creating if needed) the SQLite database at path and
// ensures the schema exists. Use ":memory:" for a throwaway database.
func NewSQLite(ctx context.Context, path string) (DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// a :memory: database vanishes when its only connection closes
	db.SetMaxOpenConns(1)
	if err := execAll(ctx, db, sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &sqlStore{db: db, dupKey: isSQLiteDupKey}, nil
}

func isSQLiteDupKey(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
