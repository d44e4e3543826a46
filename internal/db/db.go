// Package db opens connections to the system under test.
package db

import (
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// DB is a connection pool to the system under test.
type DB struct {
	*sql.DB
}

// Open connects to a MySQL-protocol server and verifies the DSN parses.
func Open(dsn string) (*DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse dsn")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "mysql connector")
	}
	pool := sql.OpenDB(connector)
	pool.SetConnMaxIdleTime(time.Minute)
	return &DB{DB: pool}, nil
}

// Wrap adapts an existing pool, mostly for tests.
func Wrap(pool *sql.DB) *DB {
	return &DB{DB: pool}
}
