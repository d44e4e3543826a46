// Package oracle defines test oracles that decide, per round, whether the
// system under test misbehaved.
package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"diffsql/internal/ast/mysql"
	"diffsql/internal/resultset"
)

// Oracle runs one round of a bug-detection strategy. Check returns nil when
// the round passed or was inconclusive, a *Failure for a bug signal and any
// other error for a harness problem.
type Oracle interface {
	Name() string
	Check(ctx context.Context) error
}

// Session is the part of the SUT session an oracle reads from.
type Session interface {
	History() []string
	QueryFirstColumn(ctx context.Context, query string) (resultset.Column, error)
}

// QueryGenerator synthesizes random queries. A nil query means nothing can
// be generated yet, for example before any table exists.
type QueryGenerator interface {
	GenerateQuery(size int) *mysql.Select
}

// Kind classifies a failure.
type Kind string

// Failure kinds.
const (
	KindSUTError       Kind = "sut_error"
	KindReferenceError Kind = "reference_error"
	KindResultMismatch Kind = "result_mismatch"
	KindCountMismatch  Kind = "count_mismatch"
)

// Failure is a classified bug signal raised by an oracle.
type Failure struct {
	Oracle string
	Kind   Kind
	Query  string
	// Statements are the history statements needed to reproduce the round.
	Statements []string
	Expected   string
	Actual     string
	Err        error
	Details    map[string]any
}

func (f *Failure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", f.Oracle, f.Kind)
	switch f.Kind {
	case KindSUTError:
		fmt.Fprintf(&b, ": system under test failed on %q: %v", f.Query, f.Err)
	case KindReferenceError:
		fmt.Fprintf(&b, ": reference engine failed on %q: %v", f.Query, f.Err)
	default:
		fmt.Fprintf(&b, ": query %q expected %s, got %s", f.Query, f.Expected, f.Actual)
	}
	return b.String()
}

// Unwrap returns the captured execution error, if any.
func (f *Failure) Unwrap() error { return f.Err }

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
