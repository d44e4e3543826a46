package refengine

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"diffsql/internal/config"
	"diffsql/internal/db"
	"diffsql/internal/util"
)

type mysqlEngine struct {
	dsn  string
	open func(dsn string) (*sql.DB, error)
}

// NewMySQL returns a reference engine backed by a MySQL-protocol server.
// Each instance gets its own scratch database, dropped on Close.
func NewMySQL(dsn string) Engine {
	return mysqlEngine{dsn: config.AdminDSN(dsn), open: openMySQLPool}
}

func openMySQLPool(dsn string) (*sql.DB, error) {
	conn, err := db.Open(dsn)
	if err != nil {
		return nil, err
	}
	return conn.DB, nil
}

func (mysqlEngine) Name() string { return "mysql" }

func (e mysqlEngine) Open(ctx context.Context) (Instance, error) {
	pool, err := e.open(e.dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql reference")
	}
	inst, err := newSQLInstance(ctx, pool)
	if err != nil {
		return nil, err
	}
	name := scratchDatabaseName()
	if _, err := inst.conn.ExecContext(ctx, "CREATE DATABASE "+db.QuoteIdent(name)); err != nil {
		util.CloseWithErr(inst, "mysql reference")
		return nil, errors.Wrapf(err, "create scratch database %s", name)
	}
	// From here on Close drops the scratch database.
	inst.cleanup = func(ctx context.Context) error {
		_, err := inst.pool.ExecContext(ctx, "DROP DATABASE IF EXISTS "+db.QuoteIdent(name))
		return err
	}
	if _, err := inst.conn.ExecContext(ctx, "USE "+db.QuoteIdent(name)); err != nil {
		util.CloseWithErr(inst, "mysql reference")
		return nil, errors.Wrapf(err, "use scratch database %s", name)
	}
	return inst, nil
}

func scratchDatabaseName() string {
	return "ref_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
