package oracle

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"diffsql/internal/ast/mysql"
	"diffsql/internal/refengine"
	"diffsql/internal/resultset"
)

const c0Query = "SELECT t0.c0 FROM t0;"

func column(values ...any) resultset.Column {
	out := make(resultset.Column, 0, len(values))
	for _, v := range values {
		if v == nil {
			out = append(out, resultset.Null())
			continue
		}
		out = append(out, resultset.Value(v.(string)))
	}
	return out
}

func TestReplayStatements(t *testing.T) {
	history := []string{
		"DROP DATABASE IF EXISTS d0",
		"CREATE DATABASE d0",
		"USE d0",
		"CREATE TABLE t0(c0 INT)",
		"use d0",
		"INSERT INTO t0 VALUES (1)",
		"  USE d0",
	}
	got := ReplayStatements(history)
	want := []string{"CREATE TABLE t0(c0 INT)", "use d0", "INSERT INTO t0 VALUES (1)", "  USE d0"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ReplayStatements = %q, want %q", got, want)
	}
	if got := ReplayStatements(nil); len(got) != 0 {
		t.Fatalf("expected empty replay, got %q", got)
	}
}

func TestBuildReferenceBlock(t *testing.T) {
	got := BuildReferenceBlock([]string{"CREATE TABLE t0(c0 INT)", "INSERT INTO t0 VALUES (1)"}, c0Query)
	want := "CREATE TABLE t0(c0 INT);\nINSERT INTO t0 VALUES (1);\n" + c0Query
	if got != want {
		t.Fatalf("block = %q, want %q", got, want)
	}
	if got := BuildReferenceBlock(nil, c0Query); got != c0Query {
		t.Fatalf("block without history = %q", got)
	}
}

func TestFirstColumnNormalizesNull(t *testing.T) {
	table := refengine.NewTable([]string{"c0", "c1"},
		[]any{"1", "x"},
		[]any{nil, "y"},
		[]any{"NuLl", "z"},
		[]any{"nullable", "w"},
	)
	got := FirstColumn(table)
	want := column("1", nil, nil, "nullable")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FirstColumn = %v, want %v", got, want)
	}
}

func newReferenceFixture(sut resultset.Column, sutErr error, ref *refengine.Table, refErr error) (*Reference, *fakeSession, *fakeEngine) {
	sess := &fakeSession{
		history: []string{"CREATE DATABASE d0", "USE d0", "CREATE TABLE t0(c0 INT)", "INSERT INTO t0 VALUES (1)"},
		results: map[string]resultset.Column{c0Query: sut},
		errs:    map[string]error{},
	}
	if sutErr != nil {
		sess.errs[c0Query] = sutErr
	}
	eng := &fakeEngine{table: ref, execErr: refErr}
	return NewReference(sess, &fakeGenerator{query: selectC0()}, eng, resultset.ModeOrdered, 1), sess, eng
}

func TestReferenceRounds(t *testing.T) {
	cases := []struct {
		name     string
		sut      resultset.Column
		sutErr   error
		ref      *refengine.Table
		refErr   error
		wantKind Kind
		counter  int
	}{
		{
			name:    "equal results",
			sut:     column("1", nil),
			ref:     refengine.NewTable([]string{"c0"}, []any{int64(1)}, []any{nil}),
			counter: 1,
		},
		{
			name:    "null text matches null",
			sut:     column(nil),
			ref:     refengine.NewTable([]string{"c0"}, []any{"NULL"}),
			counter: 1,
		},
		{
			name:    "empty results",
			sut:     column(),
			ref:     refengine.NewTable([]string{"c0"}),
			counter: 1,
		},
		{
			name:     "value mismatch",
			sut:      column("1", "2"),
			ref:      refengine.NewTable([]string{"c0"}, []any{"1"}, []any{"3"}),
			wantKind: KindResultMismatch,
			counter:  1,
		},
		{
			name:     "size mismatch",
			sut:      column("1"),
			ref:      refengine.NewTable([]string{"c0"}, []any{"1"}, []any{"1"}),
			wantKind: KindResultMismatch,
			counter:  1,
		},
		{
			name:     "sut failed",
			sutErr:   errBoom,
			ref:      refengine.NewTable([]string{"c0"}, []any{"1"}),
			wantKind: KindSUTError,
		},
		{
			name:     "reference failed",
			sut:      column("1"),
			refErr:   errBoom,
			wantKind: KindReferenceError,
			counter:  1,
		},
		{
			name:   "both failed",
			sutErr: errBoom,
			refErr: errBoom,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o, sess, eng := newReferenceFixture(tc.sut, tc.sutErr, tc.ref, tc.refErr)
			err := o.Check(context.Background())
			if tc.wantKind == "" {
				if err != nil {
					t.Fatalf("expected pass, got %v", err)
				}
			} else {
				f, ok := AsFailure(err)
				if !ok {
					t.Fatalf("expected failure, got %v", err)
				}
				if f.Kind != tc.wantKind {
					t.Fatalf("kind = %s, want %s", f.Kind, tc.wantKind)
				}
				if f.Query != c0Query {
					t.Fatalf("query = %q", f.Query)
				}
				if len(f.Statements) != 2 {
					t.Fatalf("expected replay statements on failure, got %q", f.Statements)
				}
			}
			if sess.counter != tc.counter {
				t.Fatalf("query counter = %d, want %d", sess.counter, tc.counter)
			}
			if eng.opened != 1 || !eng.instances[0].closed {
				t.Fatalf("expected exactly one instance opened and closed")
			}
			block := eng.instances[0].blocks[0]
			if strings.Contains(block, "CREATE DATABASE") || strings.Contains(block, "USE d0") {
				t.Fatalf("block must not contain database statements: %q", block)
			}
			if !strings.HasSuffix(block, c0Query) {
				t.Fatalf("block must end with the query: %q", block)
			}
		})
	}
}

func TestReferenceFailureMentionsErrors(t *testing.T) {
	o, _, _ := newReferenceFixture(nil, errBoom, refengine.NewTable([]string{"c0"}), nil)
	err := o.Check(context.Background())
	if err == nil || !strings.Contains(err.Error(), "boom") || !strings.Contains(err.Error(), "system under test") {
		t.Fatalf("unexpected error text: %v", err)
	}
	o, _, _ = newReferenceFixture(column("1"), nil, nil, errBoom)
	err = o.Check(context.Background())
	if err == nil || !strings.Contains(err.Error(), "boom") || !strings.Contains(err.Error(), "reference") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestReferenceOpenErrorIsNotAFailure(t *testing.T) {
	o, _, eng := newReferenceFixture(column("1"), nil, nil, nil)
	eng.openErr = errBoom
	err := o.Check(context.Background())
	if err == nil {
		t.Fatalf("expected harness error")
	}
	if _, ok := AsFailure(err); ok {
		t.Fatalf("open error must not be classified: %v", err)
	}
}

func TestReferenceSkipsWithoutQuery(t *testing.T) {
	sess := &fakeSession{}
	eng := &fakeEngine{}
	gen := &fakeGenerator{}
	o := NewReference(sess, gen, eng, "", 1)
	if err := o.Check(context.Background()); err != nil {
		t.Fatalf("expected skip, got %v", err)
	}
	if eng.opened != 0 || len(sess.queries) != 0 {
		t.Fatalf("nothing should run without a query")
	}
	if len(gen.sizes) != 1 || gen.sizes[0] < 1 {
		t.Fatalf("size hint must be positive: %v", gen.sizes)
	}
}

func TestReferenceSkipsMySQLOnlyOperators(t *testing.T) {
	query := selectC0()
	query.Where = mysql.NewBinaryComparisonOperation(
		mysql.ColumnReference{Table: "t0", Name: "c0"}, mysql.OpNullSafeEquals, mysql.NewNullConstant())
	text := mysql.AsString(query) + ";"
	table := refengine.NewTable([]string{"c0"}, []any{nil})

	sess := &fakeSession{results: map[string]resultset.Column{text: column(nil)}}
	eng := &fakeEngine{table: table}
	o := NewReference(sess, &fakeGenerator{query: query}, eng, resultset.ModeOrdered, 1)
	if err := o.Check(context.Background()); err != nil {
		t.Fatalf("expected skip, got %v", err)
	}
	if eng.opened != 0 || len(sess.queries) != 0 {
		t.Fatalf("non-portable query must not run: opened=%d queries=%q", eng.opened, sess.queries)
	}

	eng = &fakeEngine{name: "mysql", table: table}
	o = NewReference(sess, &fakeGenerator{query: query}, eng, resultset.ModeOrdered, 1)
	if err := o.Check(context.Background()); err != nil {
		t.Fatalf("mysql reference should agree: %v", err)
	}
	if eng.opened != 1 || len(sess.queries) != 1 {
		t.Fatalf("mysql reference must run every query: opened=%d queries=%q", eng.opened, sess.queries)
	}
}

func TestReferenceMultisetMode(t *testing.T) {
	sess := &fakeSession{
		results: map[string]resultset.Column{c0Query: column("2", "1")},
	}
	eng := &fakeEngine{table: refengine.NewTable([]string{"c0"}, []any{"1"}, []any{"2"})}
	o := NewReference(sess, &fakeGenerator{query: selectC0()}, eng, resultset.ModeMultiset, 1)
	if err := o.Check(context.Background()); err != nil {
		t.Fatalf("multiset compare should pass: %v", err)
	}
	o = NewReference(sess, &fakeGenerator{query: selectC0()}, eng, resultset.ModeOrdered, 1)
	if _, ok := AsFailure(o.Check(context.Background())); !ok {
		t.Fatalf("ordered compare should fail")
	}
}

func TestReferenceWithSQLite(t *testing.T) {
	sess := &fakeSession{
		history: []string{
			"DROP DATABASE IF EXISTS d0",
			"CREATE DATABASE d0",
			"USE d0",
			"CREATE TABLE t0(c0 INT)",
			"INSERT INTO t0 VALUES (1), (NULL), (3)",
		},
		results: map[string]resultset.Column{c0Query: column("1", nil, "3")},
	}
	o := NewReference(sess, &fakeGenerator{query: selectC0()}, refengine.NewSQLite(), resultset.ModeOrdered, 7)
	if err := o.Check(context.Background()); err != nil {
		t.Fatalf("expected agreement with sqlite, got %v", err)
	}

	sess.results[c0Query] = column("1", nil, "4")
	f, ok := AsFailure(o.Check(context.Background()))
	if !ok || f.Kind != KindResultMismatch {
		t.Fatalf("expected mismatch, got %v", f)
	}
	if f.Details["mismatch"] == nil {
		t.Fatalf("expected mismatch details")
	}
}
