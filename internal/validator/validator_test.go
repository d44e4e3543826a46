package validator

import "testing"

func TestValidate(t *testing.T) {
	v := New()
	valid := []string{
		"CREATE TABLE t0 (c0 INT, c1 VARCHAR(64) NOT NULL, c2 BOOLEAN)",
		"INSERT INTO t0 (c0, c1) VALUES (1, 'it''s'), (NULL, 'x')",
		"SELECT (t0.c0 <=> NULL) FROM t0 WHERE ((t0.c1 LIKE 'a') XOR (t0.c0 IS TRUE)) ORDER BY (t0.c0 DIV 2)",
		"SELECT (~ (- t0.c0)) FROM t0;",
	}
	for _, sql := range valid {
		if err := v.Validate(sql); err != nil {
			t.Fatalf("Validate(%q): %v", sql, err)
		}
	}
	invalid := []string{
		"SELEC 1",
		"SELECT 1; SELECT 2",
		"",
	}
	for _, sql := range invalid {
		if err := v.Validate(sql); err == nil {
			t.Fatalf("Validate(%q) should fail", sql)
		}
	}
}
