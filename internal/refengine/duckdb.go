package refengine

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	// duckdb driver
	_ "github.com/marcboeker/go-duckdb"
)

type duckdbEngine struct{}

// NewDuckDB returns the in-process DuckDB reference engine.
func NewDuckDB() Engine { return duckdbEngine{} }

func (duckdbEngine) Name() string { return "duckdb" }

func (duckdbEngine) Open(ctx context.Context) (Instance, error) {
	pool, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(err, "open duckdb")
	}
	return newSQLInstance(ctx, pool)
}
