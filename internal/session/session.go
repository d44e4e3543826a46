// Package session runs statements on the system under test and keeps the
// ordered history of statements that changed its state.
package session

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"time"

	"diffsql/internal/resultset"

	"github.com/pkg/errors"
)

// Execer is the subset of *sql.DB a session needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Conn(ctx context.Context) (*sql.Conn, error)
}

// Session is one testing session against the system under test.
type Session struct {
	exec    Execer
	timeout time.Duration

	// Validate, when set, vets statement text before ExecuteStatement sends it.
	Validate func(sql string) error

	mu      sync.RWMutex
	conn    *sql.Conn
	history []string

	queries    atomic.Int64
	statements atomic.Int64
}

// New creates a session. A non-positive timeout disables per-statement deadlines.
func New(exec Execer, timeout time.Duration) *Session {
	return &Session{exec: exec, timeout: timeout}
}

// Pin binds the session to one connection so session-scoped statements such
// as USE stick. It is a no-op if a connection is already pinned.
func (s *Session) Pin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return nil
	}
	conn, err := s.exec.Conn(ctx)
	if err != nil {
		return errors.Wrap(err, "pin session connection")
	}
	s.conn = conn
	return nil
}

// Close releases the pinned connection.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// ExecuteStatement runs a DDL or DML statement and records it in the history
// on success.
func (s *Session) ExecuteStatement(ctx context.Context, sqlText string) error {
	if s.Validate != nil {
		if err := s.Validate(sqlText); err != nil {
			return err
		}
	}
	qctx, cancel := s.withTimeout(ctx)
	defer cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.conn != nil {
		_, err = s.conn.ExecContext(qctx, sqlText)
	} else {
		_, err = s.exec.ExecContext(qctx, sqlText)
	}
	if err != nil {
		return err
	}
	s.history = append(s.history, sqlText)
	s.statements.Add(1)
	return nil
}

// QueryFirstColumn runs a query and collects the first column of every row.
// The query counter advances only on success. Queries are not recorded in
// the history.
func (s *Session) QueryFirstColumn(ctx context.Context, query string) (resultset.Column, error) {
	qctx, cancel := s.withTimeout(ctx)
	defer cancel()
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	var (
		rows *sql.Rows
		err  error
	)
	if conn != nil {
		rows, err = conn.QueryContext(qctx, query)
	} else {
		rows, err = s.exec.QueryContext(qctx, query)
	}
	if err != nil {
		return nil, err
	}
	values, err := FirstColumn(rows)
	if err != nil {
		return nil, err
	}
	s.queries.Add(1)
	return values, nil
}

// History returns a copy of the statements executed so far, in order.
func (s *Session) History() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.history...)
}

// QueryCount returns the number of successful queries.
func (s *Session) QueryCount() int64 { return s.queries.Load() }

// StatementCount returns the number of successful history statements.
func (s *Session) StatementCount() int64 { return s.statements.Load() }

func (s *Session) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
