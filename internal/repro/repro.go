// Package repro replays a saved case on the system under test and on a fresh
// reference engine, then compares the two results.
package repro

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"diffsql/internal/config"
	"diffsql/internal/db"
	"diffsql/internal/oracle"
	"diffsql/internal/refengine"
	"diffsql/internal/report"
	"diffsql/internal/resultset"
	"diffsql/internal/session"
	"diffsql/internal/util"
)

// Options configures a reproduction run.
type Options struct {
	CaseDir     string
	DSN         string
	Database    string
	Reference   config.ReferenceConfig
	CompareMode string
	Timeout     time.Duration
	Out         io.Writer
}

// Outcome is the result of replaying one case.
type Outcome struct {
	Query      string
	SUT        resultset.ExecutionResult
	Reference  resultset.ExecutionResult
	Decision   resultset.Decision
	Equivalent bool
	Reason     string
}

// Reproduced reports whether the replay still shows a discrepancy.
func (o Outcome) Reproduced() bool {
	switch o.Decision {
	case resultset.DecisionSUTFailed, resultset.DecisionReferenceFailed:
		return true
	case resultset.DecisionCompare:
		return !o.Equivalent
	default:
		return false
	}
}

// Run executes the reproduction flow for a case directory.
func Run(ctx context.Context, opts Options) (Outcome, error) {
	if opts.CaseDir == "" {
		return Outcome{}, fmt.Errorf("case_dir is required")
	}
	if opts.DSN == "" {
		return Outcome{}, fmt.Errorf("dsn is required")
	}
	if opts.Database == "" {
		opts.Database = "diffsql_repro"
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	mode, err := resultset.ParseMode(opts.CompareMode)
	if err != nil {
		return Outcome{}, err
	}
	engine, err := refengine.New(opts.Reference)
	if err != nil {
		return Outcome{}, err
	}
	statements, err := LoadCase(opts.CaseDir)
	if err != nil {
		return Outcome{}, err
	}
	if err := db.EnsureDatabase(ctx, opts.DSN, opts.Database); err != nil {
		return Outcome{}, err
	}
	dsn := config.UpdateDatabaseInDSN(opts.DSN, opts.Database)
	exec, err := db.Open(dsn)
	if err != nil {
		return Outcome{}, err
	}
	defer util.CloseWithErr(exec, "repro db")

	fmt.Fprintf(opts.Out, "database=%s reference=%s compare=%s statements=%d\n", opts.Database, engine.Name(), mode, len(statements))
	sess := session.New(exec, opts.Timeout)
	out, err := Replay(ctx, sess, opts.Database, engine, statements, mode)
	if err != nil {
		return out, err
	}
	Print(opts.Out, out)
	return out, nil
}

// LoadCase reads case.sql; its last statement is the query.
func LoadCase(caseDir string) ([]string, error) {
	content, err := os.ReadFile(filepath.Join(caseDir, "case.sql"))
	if err != nil {
		return nil, err
	}
	statements := refengine.SplitStatements(string(content))
	if len(statements) == 0 {
		return nil, fmt.Errorf("case.sql in %s has no statements", caseDir)
	}
	return statements, nil
}

// Replay recreates database on the session, applies the setup statements and
// runs the final query on both sides.
func Replay(ctx context.Context, sess *session.Session, database string, engine refengine.Engine, statements []string, mode resultset.Mode) (Outcome, error) {
	if len(statements) == 0 {
		return Outcome{}, fmt.Errorf("no statements to replay")
	}
	if err := sess.Pin(ctx); err != nil {
		return Outcome{}, err
	}
	defer util.CloseWithErr(sess, "repro session")

	setup := statements[:len(statements)-1]
	query := statements[len(statements)-1] + ";"
	for _, stmt := range []string{
		fmt.Sprintf("DROP DATABASE IF EXISTS %s", database),
		fmt.Sprintf("CREATE DATABASE %s", database),
		fmt.Sprintf("USE %s", database),
	} {
		if err := sess.ExecuteStatement(ctx, stmt); err != nil {
			return Outcome{}, errors.Wrap(err, "reset repro database")
		}
	}
	for idx, stmt := range setup {
		if err := sess.ExecuteStatement(ctx, stmt); err != nil {
			return Outcome{}, errors.Wrapf(err, "setup statement %d: %s", idx+1, stmt)
		}
	}

	out := Outcome{Query: query}
	if values, err := sess.QueryFirstColumn(ctx, query); err != nil {
		out.SUT = resultset.Failed(err)
	} else {
		out.SUT = resultset.Succeeded(values)
	}

	replay := oracle.ReplayStatements(sess.History())
	inst, err := engine.Open(ctx)
	if err != nil {
		return out, errors.Wrapf(err, "open reference engine %s", engine.Name())
	}
	defer util.CloseWithErr(inst, "reference instance")
	if table, err := inst.Execute(ctx, oracle.BuildReferenceBlock(replay, query)); err != nil {
		out.Reference = resultset.Failed(err)
	} else {
		out.Reference = resultset.Succeeded(oracle.FirstColumn(table))
	}

	out.Decision = resultset.Decide(out.SUT, out.Reference)
	if out.Decision == resultset.DecisionCompare {
		out.Equivalent, out.Reason = resultset.Equivalent(out.SUT.Values, out.Reference.Values, mode)
	}
	return out, nil
}

// Print writes a human readable outcome.
func Print(w io.Writer, out Outcome) {
	fmt.Fprintf(w, "query=%s\n", strings.TrimSpace(out.Query))
	fmt.Fprintf(w, "sut=%s\n", describe(out.SUT))
	fmt.Fprintf(w, "reference=%s\n", describe(out.Reference))
	fmt.Fprintf(w, "decision=%s", out.Decision)
	if out.Decision == resultset.DecisionCompare {
		fmt.Fprintf(w, " equivalent=%t", out.Equivalent)
		if out.Reason != "" {
			fmt.Fprintf(w, " reason=%q", out.Reason)
		}
	}
	fmt.Fprintf(w, "\nreproduced=%t\n", out.Reproduced())
}

func describe(res resultset.ExecutionResult) string {
	if !res.OK() {
		return "error: " + res.Err.Error()
	}
	return res.Values.String()
}

// ApplySummaryDefaults fills the reference engine and compare mode from the
// case summary when they were not given explicitly.
func ApplySummaryDefaults(opts *Options) {
	summary, err := report.ReadSummary(opts.CaseDir)
	if err != nil {
		return
	}
	if opts.Reference.Engine == "" {
		opts.Reference.Engine = summary.ReferenceEngine
	}
	if opts.CompareMode == "" {
		opts.CompareMode = summary.CompareMode
	}
}
