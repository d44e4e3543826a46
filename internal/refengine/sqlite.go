package refengine

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	// sqlite driver
	_ "modernc.org/sqlite"
)

type sqliteEngine struct{}

// NewSQLite returns the in-process SQLite reference engine. Every instance is
// a private in-memory database.
func NewSQLite() Engine { return sqliteEngine{} }

func (sqliteEngine) Name() string { return "sqlite" }

func (sqliteEngine) Open(ctx context.Context) (Instance, error) {
	pool, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	return newSQLInstance(ctx, pool)
}
