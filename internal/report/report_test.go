package report

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"diffsql/internal/schema"
)

func TestNewCaseLayout(t *testing.T) {
	r := New(t.TempDir(), 10)
	c, err := r.NewCase()
	if err != nil {
		t.Fatalf("new case: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(c.Dir), "case_0001_") {
		t.Fatalf("unexpected case dir %s", c.Dir)
	}
	if _, err := os.Stat(filepath.Join(c.Dir, "README.md")); err != nil {
		t.Fatalf("missing readme: %v", err)
	}
	r.UseUUIDPath = true
	c2, err := r.NewCase()
	if err != nil {
		t.Fatalf("new case: %v", err)
	}
	if filepath.Base(c2.Dir) != c2.ID {
		t.Fatalf("uuid path should be the case id: %s vs %s", c2.Dir, c2.ID)
	}
}

func TestWriteSQLTerminatesStatements(t *testing.T) {
	r := New(t.TempDir(), 10)
	c, err := r.NewCase()
	if err != nil {
		t.Fatalf("new case: %v", err)
	}
	if err := r.WriteSQL(c, "case.sql", []string{"CREATE TABLE t0 (c0 INT)", " ", "SELECT t0.c0 FROM t0;"}); err != nil {
		t.Fatalf("write sql: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(c.Dir, "case.sql"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "CREATE TABLE t0 (c0 INT);\nSELECT t0.c0 FROM t0;\n"
	if string(data) != want {
		t.Fatalf("case.sql = %q, want %q", data, want)
	}
}

func TestSummaryDetailsAreSorted(t *testing.T) {
	r := New(t.TempDir(), 10)
	c, err := r.NewCase()
	if err != nil {
		t.Fatalf("new case: %v", err)
	}
	summary := Summary{
		Oracle: "Reference",
		Kind:   "result_mismatch",
		Query:  "SELECT 1 < 2;",
		Details: map[string]any{
			"zeta":  1,
			"alpha": map[string]any{"b": 2, "a": []any{"x", nil}},
		},
	}
	if err := r.WriteSummary(c, summary); err != nil {
		t.Fatalf("write summary: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(c.Dir, "summary.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	alpha, zeta := strings.Index(text, `"alpha"`), strings.Index(text, `"zeta"`)
	if alpha < 0 || zeta < 0 || alpha > zeta {
		t.Fatalf("details not sorted: %s", text)
	}
	if a, b := strings.Index(text, `"a"`), strings.Index(text, `"b"`); a < 0 || a > b {
		t.Fatalf("nested details not sorted: %s", text)
	}
	if !strings.Contains(text, "SELECT 1 < 2;") {
		t.Fatalf("html escaping should be off: %s", text)
	}
	got, err := ReadSummary(c.Dir)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if got.Oracle != "Reference" || got.Kind != "result_mismatch" {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestWriteCaseArchive(t *testing.T) {
	r := New(t.TempDir(), 10)
	c, err := r.NewCase()
	if err != nil {
		t.Fatalf("new case: %v", err)
	}
	if err := r.WriteText(c, "nested/notes.txt", "hello"); err != nil {
		t.Fatalf("write text: %v", err)
	}
	for i := 0; i < 2; i++ {
		name, codec, err := r.WriteCaseArchive(c)
		if err != nil {
			t.Fatalf("archive: %v", err)
		}
		if name != CaseArchiveName || codec != CaseArchiveCodec {
			t.Fatalf("unexpected archive %s %s", name, codec)
		}
	}
	names, err := ReadCaseArchive(filepath.Join(c.Dir, CaseArchiveName))
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	sort.Strings(names)
	if strings.Join(names, ",") != "README.md,nested/notes.txt" {
		t.Fatalf("unexpected archive entries: %v", names)
	}
}

func TestDumpData(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()
	mock.ExpectQuery("SELECT * FROM t0 LIMIT 5").
		WillReturnRows(sqlmock.NewRows([]string{"c0", "c1"}).AddRow("1", nil))
	mock.ExpectQuery("SELECT * FROM t1 LIMIT 5").WillReturnError(os.ErrNotExist)

	r := New(t.TempDir(), 5)
	c, err := r.NewCase()
	if err != nil {
		t.Fatalf("new case: %v", err)
	}
	state := &schema.State{Tables: []schema.Table{{Name: "t1"}, {Name: "t0"}}}
	if err := r.DumpData(context.Background(), c, conn, state); err != nil {
		t.Fatalf("dump: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(c.Dir, "data.tsv"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "-- t0\nc0\tc1\n1\tNULL\n") {
		t.Fatalf("unexpected dump: %q", text)
	}
	if !strings.Contains(text, "-- t1\n-- failed:") {
		t.Fatalf("expected failure note: %q", text)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
