package database

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
)

// https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const DUP_PKEY = 1062

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT NOT NULL AUTO_INCREMENT,
	username VARCHAR(191) NOT NULL,
	salt VARBINARY(32) NOT NULL,
	hashed_password VARBINARY(64) NOT NULL,
	PRIMARY KEY (id),
	UNIQUE KEY uniq_username (username)
);
CREATE TABLE IF NOT EXISTS players (
	id VARCHAR(36) NOT NULL,
	name VARCHAR(191) NOT NULL,
	age INT NOT NULL,
	plays_abroad BOOLEAN NOT NULL DEFAULT FALSE,
	club VARCHAR(191) NULL,
	is_captain BOOLEAN NOT NULL DEFAULT FALSE,
	jersey_number INT NOT NULL,
	position_of_play INT NOT NULL,
	PRIMARY KEY (id)
);`

// NewMySQL connects to MySQL, ensures the schema exists and returns the
// store. The DSN needs multiStatements disabled; statements are run one by
// one.
func NewMySQL(ctx context.Context, dsn string) (DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := execAll(ctx, db, mysqlSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &sqlStore{db: db, dupKey: isMySQLDupKey}, nil
}

func isMySQLDupKey(err error) bool {
	if me, ok := err.(*mysql.MySQLError); ok {
		return me.Number == DUP_PKEY
	}
	return false
}
