package oracle

import (
	"context"
	"math/rand"
	"strings"

	"github.com/pkg/errors"

	"diffsql/internal/ast/mysql"
	"diffsql/internal/refengine"
	"diffsql/internal/resultset"
	"diffsql/internal/util"
)

// Statement prefixes that only make sense against the system under test.
// Matching is literal and case-sensitive.
var replaySkipPrefixes = []string{"DROP DATABASE", "CREATE DATABASE", "USE"}

// Reference runs a random query on the system under test and on a fresh
// reference engine that has replayed the session history, then compares the
// first column of both results.
type Reference struct {
	session Session
	gen     QueryGenerator
	engine  refengine.Engine
	mode    resultset.Mode
	rnd     *rand.Rand
	// portableOnly skips queries using MySQL-only operators the engine
	// cannot parse.
	portableOnly bool
}

// NewReference builds the oracle. An empty mode means ordered comparison.
func NewReference(session Session, gen QueryGenerator, engine refengine.Engine, mode resultset.Mode, seed int64) *Reference {
	if mode == "" {
		mode = resultset.ModeOrdered
	}
	return &Reference{
		session: session,
		gen:     gen,
		engine:  engine,
		mode:    mode,
		rnd:     rand.New(rand.NewSource(seed)),

		portableOnly: !refengine.SpeaksMySQL(engine),
	}
}

// Name implements Oracle.
func (o *Reference) Name() string { return "Reference" }

// Check implements Oracle.
func (o *Reference) Check(ctx context.Context) error {
	size := util.SmallNumber(o.rnd) + 1
	query := o.gen.GenerateQuery(size)
	if query == nil {
		return nil
	}
	text := mysql.AsString(query) + ";"
	if o.portableOnly && !query.IsPortable() {
		util.Detailf("[%s] skip query not understood by %s: %s", o.Name(), o.engine.Name(), text)
		return nil
	}
	history := o.session.History()

	sut := o.runSUT(ctx, text)
	replay := ReplayStatements(history)
	ref, err := o.runReference(ctx, replay, text)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	details := map[string]any{
		"reference_engine": o.engine.Name(),
		"size":             size,
		"replay_count":     len(replay),
	}
	switch resultset.Decide(sut, ref) {
	case resultset.DecisionSUTFailed:
		return &Failure{
			Oracle:     o.Name(),
			Kind:       KindSUTError,
			Query:      text,
			Statements: replay,
			Expected:   ref.Values.String(),
			Actual:     "error: " + sut.Err.Error(),
			Err:        sut.Err,
			Details:    details,
		}
	case resultset.DecisionReferenceFailed:
		return &Failure{
			Oracle:     o.Name(),
			Kind:       KindReferenceError,
			Query:      text,
			Statements: replay,
			Expected:   "error: " + ref.Err.Error(),
			Actual:     sut.Values.String(),
			Err:        ref.Err,
			Details:    details,
		}
	case resultset.DecisionInconclusive:
		util.Detailf("[%s] both engines failed: sut=%v reference=%v", o.Name(), sut.Err, ref.Err)
		return nil
	}
	if ok, why := resultset.Equivalent(sut.Values, ref.Values, o.mode); !ok {
		details["mismatch"] = why
		details["compare_mode"] = string(o.mode)
		return &Failure{
			Oracle:     o.Name(),
			Kind:       KindResultMismatch,
			Query:      text,
			Statements: replay,
			Expected:   ref.Values.String(),
			Actual:     sut.Values.String(),
			Details:    details,
		}
	}
	return nil
}

func (o *Reference) runSUT(ctx context.Context, query string) resultset.ExecutionResult {
	values, err := o.session.QueryFirstColumn(ctx, query)
	if err != nil {
		return resultset.Failed(err)
	}
	return resultset.Succeeded(values)
}

// runReference returns an error only when no instance could be opened; an
// execution failure is reported inside the result.
func (o *Reference) runReference(ctx context.Context, replay []string, query string) (resultset.ExecutionResult, error) {
	inst, err := o.engine.Open(ctx)
	if err != nil {
		return resultset.ExecutionResult{}, errors.Wrapf(err, "open reference engine %s", o.engine.Name())
	}
	defer util.CloseWithErr(inst, "reference instance")

	table, err := inst.Execute(ctx, BuildReferenceBlock(replay, query))
	if err != nil {
		return resultset.Failed(err), nil
	}
	return resultset.Succeeded(FirstColumn(table)), nil
}

// ReplayStatements keeps the history statements a reference engine can run,
// in their original order.
func ReplayStatements(history []string) []string {
	out := make([]string, 0, len(history))
	for _, stmt := range history {
		if skipReplay(stmt) {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

func skipReplay(stmt string) bool {
	for _, prefix := range replaySkipPrefixes {
		if strings.HasPrefix(stmt, prefix) {
			return true
		}
	}
	return false
}

// BuildReferenceBlock joins the replay statements, each terminated by a
// semicolon and newline, and appends the query.
func BuildReferenceBlock(replay []string, query string) string {
	var b strings.Builder
	for _, stmt := range replay {
		b.WriteString(stmt)
		b.WriteString(";\n")
	}
	b.WriteString(query)
	return b.String()
}

// FirstColumn reads column 0 of every row as text, mapping "null" in any
// letter case to SQL NULL.
func FirstColumn(table *refengine.Table) resultset.Column {
	values := make(resultset.Column, 0, table.Len())
	for it := table.Rows(); it.Next(); {
		cell := it.Row().At(0)
		if cell.IsNull() {
			values = append(values, resultset.Null())
			continue
		}
		values = append(values, resultset.NormalizeNull(cell.StringValue()))
	}
	return values
}
