// Package resultset reduces query outcomes to a comparable first-column form.
package resultset

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// Column is the ordered first column of a result set. An invalid entry is SQL NULL.
type Column []sql.NullString

// String renders the column as [a, NULL, c].
func (c Column) String() string {
	parts := make([]string, 0, len(c))
	for _, v := range c {
		parts = append(parts, formatCell(v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatCell(v sql.NullString) string {
	if !v.Valid {
		return "NULL"
	}
	return fmt.Sprintf("%q", v.String)
}

// Value returns a non-NULL cell.
func Value(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// Null returns a NULL cell.
func Null() sql.NullString {
	return sql.NullString{}
}

// NormalizeNull maps the text "null" (any case) to SQL NULL.
// Reference engines speaking a text protocol cannot tell the two apart.
func NormalizeNull(text string) sql.NullString {
	if strings.EqualFold(text, "null") {
		return Null()
	}
	return Value(text)
}

// ExecutionResult is the outcome of one execution attempt.
// Err and a populated Values are mutually exclusive.
type ExecutionResult struct {
	Err    error
	Values Column
}

// Succeeded returns a successful result.
func Succeeded(values Column) ExecutionResult {
	if values == nil {
		values = Column{}
	}
	return ExecutionResult{Values: values}
}

// Failed returns a failed result with an empty sequence.
func Failed(err error) ExecutionResult {
	return ExecutionResult{Err: err, Values: Column{}}
}

// OK reports whether execution succeeded.
func (r ExecutionResult) OK() bool { return r.Err == nil }

// Decision is the outcome of comparing two execution results.
type Decision int

// Decision values.
const (
	// DecisionCompare means both sides succeeded and their values must be compared.
	DecisionCompare Decision = iota
	// DecisionSUTFailed means only the system under test failed.
	DecisionSUTFailed
	// DecisionReferenceFailed means only the reference engine failed.
	DecisionReferenceFailed
	// DecisionInconclusive means both sides failed.
	DecisionInconclusive
)

func (d Decision) String() string {
	switch d {
	case DecisionCompare:
		return "compare"
	case DecisionSUTFailed:
		return "sut_failed"
	case DecisionReferenceFailed:
		return "reference_failed"
	case DecisionInconclusive:
		return "inconclusive"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Decide maps the (sut, reference) outcome pair to a decision.
func Decide(sut, ref ExecutionResult) Decision {
	switch {
	case !sut.OK() && ref.OK():
		return DecisionSUTFailed
	case sut.OK() && !ref.OK():
		return DecisionReferenceFailed
	case !sut.OK() && !ref.OK():
		return DecisionInconclusive
	default:
		return DecisionCompare
	}
}

// Mode selects an equivalence rule.
type Mode string

// Equivalence modes.
const (
	ModeOrdered  Mode = "ordered"
	ModeMultiset Mode = "multiset"
)

// ParseMode parses a mode name; empty means ordered.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeOrdered:
		return ModeOrdered, nil
	case ModeMultiset:
		return ModeMultiset, nil
	default:
		return "", fmt.Errorf("unknown compare mode %q", s)
	}
}

// Equivalent compares two columns. When they differ, the second return
// value describes the first difference found.
func Equivalent(a, b Column, mode Mode) (bool, string) {
	if len(a) != len(b) {
		return false, fmt.Sprintf("size mismatch: %d vs %d", len(a), len(b))
	}
	if mode == ModeMultiset {
		a, b = sorted(a), sorted(b)
	}
	for i := range a {
		if !cellEqual(a[i], b[i]) {
			return false, fmt.Sprintf("value mismatch at %d: %s vs %s", i, formatCell(a[i]), formatCell(b[i]))
		}
	}
	return true, ""
}

func cellEqual(a, b sql.NullString) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.String == b.String
}

// sorted orders NULLs first, then by text.
func sorted(c Column) Column {
	out := append(Column(nil), c...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Valid != out[j].Valid {
			return !out[i].Valid
		}
		return out[i].String < out[j].String
	})
	return out
}
