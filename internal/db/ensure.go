package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"diffsql/internal/config"
	"diffsql/internal/util"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// EnsureDatabase creates name on the server behind dsn when it is missing.
// The connection is made without a default schema so a missing name does
// not fail the handshake.
func EnsureDatabase(ctx context.Context, dsn string, name string) error {
	if name == "" {
		return nil
	}
	admin, err := Open(config.AdminDSN(dsn))
	if err != nil {
		return errors.Wrapf(err, "ensure database %s", name)
	}
	defer util.CloseWithErr(admin, "admin connection")
	return ensureDatabase(ctx, admin, name)
}

func ensureDatabase(ctx context.Context, exec execer, name string) error {
	if name == "" {
		return nil
	}
	if _, err := exec.ExecContext(ctx, "CREATE DATABASE IF NOT EXISTS "+QuoteIdent(name)); err != nil {
		return errors.Wrapf(err, "ensure database %s", name)
	}
	util.Detailf("database %s ready", name)
	return nil
}

// QuoteIdent backtick-quotes a MySQL identifier.
func QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
