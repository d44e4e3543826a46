package repro

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"diffsql/internal/refengine"
	"diffsql/internal/resultset"
	"diffsql/internal/session"
)

func TestLoadCase(t *testing.T) {
	dir := t.TempDir()
	content := "CREATE TABLE t0 (c0 INT);\nINSERT INTO t0 (c0) VALUES (1), ('a;b');\nSELECT t0.c0 FROM t0;\n"
	if err := os.WriteFile(filepath.Join(dir, "case.sql"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	stmts, err := LoadCase(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(stmts) != 3 || stmts[2] != "SELECT t0.c0 FROM t0" {
		t.Fatalf("unexpected statements: %q", stmts)
	}
	if _, err := LoadCase(t.TempDir()); err == nil {
		t.Fatalf("expected error for missing case.sql")
	}
}

func expectSetup(mock sqlmock.Sqlmock) {
	for _, stmt := range []string{
		"DROP DATABASE IF EXISTS d0",
		"CREATE DATABASE d0",
		"USE d0",
		"CREATE TABLE t0 (c0 INT)",
		"INSERT INTO t0 (c0) VALUES (1), (NULL)",
	} {
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 1))
	}
}

var caseStatements = []string{
	"CREATE TABLE t0 (c0 INT)",
	"INSERT INTO t0 (c0) VALUES (1), (NULL)",
	"SELECT t0.c0 FROM t0",
}

func newMockSession(t *testing.T) (*session.Session, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return session.New(conn, 0), mock
}

func TestReplayAgreement(t *testing.T) {
	sess, mock := newMockSession(t)
	expectSetup(mock)
	mock.ExpectQuery("SELECT t0.c0 FROM t0;").WillReturnRows(sqlmock.NewRows([]string{"c0"}).AddRow("1").AddRow(nil))

	out, err := Replay(context.Background(), sess, "d0", refengine.NewSQLite(), caseStatements, resultset.ModeOrdered)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if out.Decision != resultset.DecisionCompare || !out.Equivalent || out.Reproduced() {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	var buf bytes.Buffer
	Print(&buf, out)
	if !strings.Contains(buf.String(), "reproduced=false") {
		t.Fatalf("unexpected print: %s", buf.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReplayMismatch(t *testing.T) {
	sess, mock := newMockSession(t)
	expectSetup(mock)
	mock.ExpectQuery("SELECT t0.c0 FROM t0;").WillReturnRows(sqlmock.NewRows([]string{"c0"}).AddRow("1"))

	out, err := Replay(context.Background(), sess, "d0", refengine.NewSQLite(), caseStatements, resultset.ModeOrdered)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !out.Reproduced() || !strings.Contains(out.Reason, "size mismatch") {
		t.Fatalf("expected reproduced size mismatch, got %+v", out)
	}
}

func TestReplaySUTError(t *testing.T) {
	sess, mock := newMockSession(t)
	expectSetup(mock)
	mock.ExpectQuery("SELECT t0.c0 FROM t0;").WillReturnError(errors.New("boom"))

	out, err := Replay(context.Background(), sess, "d0", refengine.NewSQLite(), caseStatements, resultset.ModeOrdered)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if out.Decision != resultset.DecisionSUTFailed || !out.Reproduced() {
		t.Fatalf("expected sut failure, got %+v", out)
	}
}

func TestReplaySetupFailure(t *testing.T) {
	sess, mock := newMockSession(t)
	mock.ExpectExec("DROP DATABASE IF EXISTS d0").WillReturnError(errors.New("denied"))
	if _, err := Replay(context.Background(), sess, "d0", refengine.NewSQLite(), caseStatements, resultset.ModeOrdered); err == nil {
		t.Fatalf("expected setup error")
	}
}

func TestApplySummaryDefaults(t *testing.T) {
	dir := t.TempDir()
	summary := `{"reference_engine": "duckdb", "compare_mode": "multiset"}`
	if err := os.WriteFile(filepath.Join(dir, "summary.json"), []byte(summary), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	opts := Options{CaseDir: dir}
	ApplySummaryDefaults(&opts)
	if opts.Reference.Engine != "duckdb" || opts.CompareMode != "multiset" {
		t.Fatalf("defaults not applied: %+v", opts)
	}
	opts = Options{CaseDir: dir, CompareMode: "ordered"}
	opts.Reference.Engine = "sqlite"
	ApplySummaryDefaults(&opts)
	if opts.Reference.Engine != "sqlite" || opts.CompareMode != "ordered" {
		t.Fatalf("explicit options overridden: %+v", opts)
	}
}
