package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"example.com/blackstars/api"
	log "github.com/sirupsen/logrus"
)

// sqlStore runs the queries shared by the MySQL and SQLite stores. The only
// driver-specific part is recognising a duplicate-key failure.
type sqlStore struct {
	db     *sql.DB
	dupKey func(error) bool
}

func (s *sqlStore) GetUser(ctx context.Context, username string) (*api.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, salt, hashed_password FROM users WHERE username = ?", username)
	var user api.User
	err := row.Scan(&user.ID, &user.Username, &user.Salt, &user.PwHash)
	if err == sql.ErrNoRows {
		return nil, ERR_USER_NOT_FOUND
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *sqlStore) InsertUser(ctx context.Context, user *api.User) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, salt, hashed_password) VALUES (?, ?, ?)",
		user.Username, user.Salt, user.PwHash)
	if err != nil {
		if s.dupKey(err) {
			return 0, ERR_DUP_USERNAME
		}
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	log.WithField(api.Username, user.Username).Debug("INSERT users")
	return id, nil
}

func (s *sqlStore) ListPlayers(ctx context.Context) ([]api.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, age, plays_abroad, club, is_captain, jersey_number, position_of_play FROM players ORDER BY jersey_number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rowsToPlayers(rows)
}

func (s *sqlStore) InsertPlayer(ctx context.Context, p *api.Player) error {
	if err := validatePlayer(p); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO players (id, name, age, plays_abroad, club, is_captain, jersey_number, position_of_play) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.Name, p.Age, p.PlaysAbroad, nullable(p.Club), p.IsCaptain, p.JerseyNumber, p.PositionOfPlay)
	return err
}

// playerColumns maps the updatable JSON field names onto table columns.
// Unknown fields in a patch body are ignored, not rejected.
var playerColumns = map[string]string{
	"name":             "name",
	"age":              "age",
	"plays_abroad":     "plays_abroad",
	"club":             "club",
	"is_captain":       "is_captain",
	"jersey_number":    "jersey_number",
	"position_of_play": "position_of_play",
}

func (s *sqlStore) UpdatePlayer(ctx context.Context, id string, fields map[string]interface{}) (*api.Player, error) {
	var cols []string
	for name := range fields {
		if _, ok := playerColumns[name]; ok {
			cols = append(cols, name)
		}
	}
	if len(cols) > 0 {
		sort.Strings(cols)
		var set []string
		var args []interface{}
		for _, name := range cols {
			set = append(set, playerColumns[name]+" = ?")
			args = append(args, fields[name])
		}
		args = append(args, id)
		// existence comes from the read-back below: MySQL reports zero
		// affected rows when an update writes identical values
		if _, err := s.db.ExecContext(ctx,
			"UPDATE players SET "+strings.Join(set, ", ")+" WHERE id = ?", args...); err != nil {
			return nil, err
		}
	}
	return s.getPlayer(ctx, id)
}

func (s *sqlStore) getPlayer(ctx context.Context, id string) (*api.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, age, plays_abroad, club, is_captain, jersey_number, position_of_play FROM players WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	players, err := rowsToPlayers(rows)
	if err != nil {
		return nil, err
	}
	if len(players) != 1 {
		return nil, ERR_PLAYER_NOT_FOUND
	}
	return &players[0], nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

// execAll runs each semicolon-separated statement in schema on its own, so
// the same DDL works for drivers without multi-statement support.
func execAll(ctx context.Context, db *sql.DB, schema string) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func rowsToPlayers(rows *sql.Rows) ([]api.Player, error) {
	ret := []api.Player{}
	for rows.Next() {
		var p api.Player
		var club sql.NullString
		err := rows.Scan(&p.ID, &p.Name, &p.Age, &p.PlaysAbroad, &club, &p.IsCaptain, &p.JerseyNumber, &p.PositionOfPlay)
		if err != nil {
			return nil, err
		}
		p.Club = club.String
		ret = append(ret, p)
	}
	return ret, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// validatePlayer enforces the roster schema limits on insert.
func validatePlayer(p *api.Player) error {
	if p.Age < 14 || p.Age > 45 {
		return fmt.Errorf("%w: age %d out of range [14,45]", ERR_PLAYER_INVALID, p.Age)
	}
	if p.JerseyNumber < 1 || p.JerseyNumber > 99 {
		return fmt.Errorf("%w: jersey_number %d out of range [1,99]", ERR_PLAYER_INVALID, p.JerseyNumber)
	}
	if p.PositionOfPlay < 1 || p.PositionOfPlay > 11 {
		return fmt.Errorf("%w: position_of_play %d out of range [1,11]", ERR_PLAYER_INVALID, p.PositionOfPlay)
	}
	return nil
}
