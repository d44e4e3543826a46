package refengine

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"diffsql/internal/util"
)

// sqlInstance runs a block on a single pinned connection of a private pool.
type sqlInstance struct {
	pool    *sql.DB
	conn    *sql.Conn
	cleanup func(context.Context) error
}

func newSQLInstance(ctx context.Context, pool *sql.DB) (*sqlInstance, error) {
	pool.SetMaxOpenConns(1)
	conn, err := pool.Conn(ctx)
	if err != nil {
		util.CloseWithErr(pool, "reference pool")
		return nil, errors.Wrap(err, "pin reference connection")
	}
	return &sqlInstance{pool: pool, conn: conn}, nil
}

func (i *sqlInstance) Execute(ctx context.Context, block string) (*Table, error) {
	stmts := SplitStatements(block)
	if len(stmts) == 0 {
		return nil, errors.New("empty reference block")
	}
	last := len(stmts) - 1
	for idx, stmt := range stmts[:last] {
		if _, err := i.conn.ExecContext(ctx, stmt); err != nil {
			return nil, errors.Wrapf(err, "reference statement %d", idx+1)
		}
	}
	rows, err := i.conn.QueryContext(ctx, stmts[last])
	if err != nil {
		return nil, errors.Wrap(err, "reference query")
	}
	return readTable(rows)
}

func (i *sqlInstance) Close() error {
	var first error
	if i.conn != nil {
		first = i.conn.Close()
		i.conn = nil
	}
	if i.cleanup != nil {
		if err := i.cleanup(context.Background()); err != nil && first == nil {
			first = err
		}
		i.cleanup = nil
	}
	if i.pool != nil {
		if err := i.pool.Close(); err != nil && first == nil {
			first = err
		}
		i.pool = nil
	}
	return first
}
