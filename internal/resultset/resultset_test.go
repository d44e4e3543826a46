package resultset

import (
	"errors"
	"strings"
	"testing"
)

func col(values ...any) Column {
	out := Column{}
	for _, v := range values {
		if v == nil {
			out = append(out, Null())
			continue
		}
		out = append(out, Value(v.(string)))
	}
	return out
}

func TestDecide(t *testing.T) {
	errSUT := errors.New("sut")
	errRef := errors.New("ref")
	cases := []struct {
		sut, ref ExecutionResult
		want     Decision
	}{
		{Failed(errSUT), Succeeded(col("1")), DecisionSUTFailed},
		{Succeeded(col("1")), Failed(errRef), DecisionReferenceFailed},
		{Failed(errSUT), Failed(errRef), DecisionInconclusive},
		{Succeeded(col("1")), Succeeded(col("2")), DecisionCompare},
	}
	for _, tc := range cases {
		if got := Decide(tc.sut, tc.ref); got != tc.want {
			t.Fatalf("Decide(%v, %v) = %s, want %s", tc.sut.Err, tc.ref.Err, got, tc.want)
		}
	}
}

func TestDecisionString(t *testing.T) {
	want := map[Decision]string{
		DecisionCompare:         "compare",
		DecisionSUTFailed:       "sut_failed",
		DecisionReferenceFailed: "reference_failed",
		DecisionInconclusive:    "inconclusive",
		Decision(9):             "decision(9)",
	}
	for d, s := range want {
		if d.String() != s {
			t.Fatalf("Decision(%d).String() = %q, want %q", int(d), d.String(), s)
		}
	}
}

func TestResultConstructors(t *testing.T) {
	ok := Succeeded(nil)
	if ok.Values == nil || len(ok.Values) != 0 || !ok.OK() {
		t.Fatalf("Succeeded(nil) should be an empty non-nil success: %#v", ok)
	}
	failed := Failed(errors.New("x"))
	if failed.OK() || failed.Values == nil || len(failed.Values) != 0 {
		t.Fatalf("Failed should carry an empty sequence: %#v", failed)
	}
}

func TestEquivalent(t *testing.T) {
	cases := []struct {
		name string
		a, b Column
		mode Mode
		want bool
		why  string
	}{
		{"ordered equal", col("1", nil, "3"), col("1", nil, "3"), ModeOrdered, true, ""},
		{"ordered size", col("1", "2"), col("1", "2", "3"), ModeOrdered, false, "size mismatch: 2 vs 3"},
		{"ordered position", col("1", "2"), col("2", "1"), ModeOrdered, false, "value mismatch at 0"},
		{"ordered null vs text", col(nil), col("NULL"), ModeOrdered, false, "value mismatch at 0: NULL vs \"NULL\""},
		{"empty", col(), col(), ModeOrdered, true, ""},
		{"multiset reordered with null", col(nil, "b", "a"), col("a", "b", nil), ModeMultiset, true, ""},
		{"multiset size", col("a"), col("a", "a"), ModeMultiset, false, "size mismatch: 1 vs 2"},
		{"multiset duplicates", col("a", "a", "b"), col("a", "b", "b"), ModeMultiset, false, "value mismatch"},
		{"multiset null vs text", col(nil, "a"), col("NULL", "a"), ModeMultiset, false, "value mismatch"},
	}
	for _, tc := range cases {
		got, why := Equivalent(tc.a, tc.b, tc.mode)
		if got != tc.want {
			t.Fatalf("%s: Equivalent(%s, %s) = %t (%s), want %t", tc.name, tc.a, tc.b, got, why, tc.want)
		}
		if !strings.Contains(why, tc.why) {
			t.Fatalf("%s: reason %q does not contain %q", tc.name, why, tc.why)
		}
		if got && why != "" {
			t.Fatalf("%s: equivalent columns must have no reason, got %q", tc.name, why)
		}
	}
}

func TestMultisetDoesNotReorderInputs(t *testing.T) {
	a := col("b", nil, "a")
	if ok, _ := Equivalent(a, col("a", "b", nil), ModeMultiset); !ok {
		t.Fatalf("expected multiset equality")
	}
	if a.String() != `["b", NULL, "a"]` {
		t.Fatalf("input column was mutated: %s", a)
	}
}

func TestNormalizeNull(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"NULL", false},
		{"null", false},
		{"Null", false},
		{"nullable", true},
		{"", true},
		{" NULL", true},
	}
	for _, tc := range cases {
		got := NormalizeNull(tc.in)
		if got.Valid != tc.valid {
			t.Fatalf("NormalizeNull(%q).Valid = %t, want %t", tc.in, got.Valid, tc.valid)
		}
		if got.Valid && got.String != tc.in {
			t.Fatalf("NormalizeNull(%q) changed the text to %q", tc.in, got.String)
		}
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
		err  bool
	}{
		{"", ModeOrdered, false},
		{"ordered", ModeOrdered, false},
		{" Multiset ", ModeMultiset, false},
		{"fuzzy", "", true},
	}
	for _, tc := range cases {
		got, err := ParseMode(tc.in)
		if (err != nil) != tc.err {
			t.Fatalf("ParseMode(%q) err = %v, want error %t", tc.in, err, tc.err)
		}
		if got != tc.want {
			t.Fatalf("ParseMode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestColumnString(t *testing.T) {
	if got := col("1", nil, "x").String(); got != `["1", NULL, "x"]` {
		t.Fatalf("String() = %s", got)
	}
}
