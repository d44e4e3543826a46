package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeCase(t *testing.T, root, name, summary string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "summary.json"), []byte(summary), 0o644); err != nil {
		t.Fatalf("write summary: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestCaseIDFromSummary(t *testing.T) {
	root := t.TempDir()
	writeCase(t, root, "a", `{"case_id": " id-1 ", "oracle": "Reference"}`, nil)
	writeCase(t, root, "b", `{"case_dir": "dir-2"}`, nil)
	writeCase(t, root, "c", `{}`, nil)
	cases, err := loadLocalCases(root, 1024)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := map[string]bool{}
	for _, c := range cases {
		got[c.ID] = true
	}
	for _, id := range []string{"id-1", "dir-2", "c"} {
		if !got[id] {
			t.Fatalf("missing case id %q in %v", id, got)
		}
	}
}

func TestLoadLocalCasesSkipsDirsWithoutSummary(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	writeCase(t, root, "ok", `{"oracle": "NoREC", "kind": "count_mismatch"}`, nil)
	cases, err := loadLocalCases(root, 1024)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cases) != 1 || cases[0].Oracle != "NoREC" {
		t.Fatalf("unexpected cases: %+v", cases)
	}
}

func TestInlinedFilesAreTruncated(t *testing.T) {
	root := t.TempDir()
	writeCase(t, root, "big", `{"oracle": "Reference"}`, map[string]string{
		"case.sql":      strings.Repeat("x", 20),
		"reference.sql": "SELECT 1;",
	})
	cases, err := loadLocalCases(root, 8)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	files := cases[0].Files
	if !files["case.sql"].Truncated || len(files["case.sql"].Content) != 8 {
		t.Fatalf("case.sql not truncated: %+v", files["case.sql"])
	}
	if files["reference.sql"].Truncated || files["reference.sql"].Content != "SELECT 1;" {
		t.Fatalf("reference.sql unexpected: %+v", files["reference.sql"])
	}
	if files["data.tsv"].Content != "" {
		t.Fatalf("missing file should be empty: %+v", files["data.tsv"])
	}
}

func TestObjectURL(t *testing.T) {
	cases := []struct {
		base, name, want string
	}{
		{"https://cdn.example.com/cases/x/", "/case.tar.zst", "https://cdn.example.com/cases/x/case.tar.zst"},
		{"s3://bucket/cases/x", "case.tar.zst", ""},
		{"https://cdn.example.com", "", ""},
		{"", "case.tar.zst", ""},
	}
	for _, tc := range cases {
		if got := objectURL(tc.base, tc.name); got != tc.want {
			t.Fatalf("objectURL(%q, %q) = %q, want %q", tc.base, tc.name, got, tc.want)
		}
	}
}

func TestBuildSiteCountsAndWrites(t *testing.T) {
	cases := []CaseEntry{
		{ID: "1", Oracle: "Reference", Kind: "result_mismatch", Timestamp: "2026-01-01T00:00:00Z"},
		{ID: "2", Oracle: "Reference", Kind: "result_mismatch", Timestamp: "2026-01-03T00:00:00Z"},
		{ID: "3", Oracle: "NoREC", Kind: "count_mismatch", Timestamp: "2026-01-02T00:00:00Z"},
	}
	site := buildSite("reports", cases, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	if site.Counts["Reference/result_mismatch"] != 2 || site.Counts["NoREC/count_mismatch"] != 1 {
		t.Fatalf("unexpected counts: %v", site.Counts)
	}
	if site.Cases[0].ID != "2" || site.Cases[2].ID != "1" {
		t.Fatalf("cases not newest first: %+v", site.Cases)
	}
	out := t.TempDir()
	if err := writeJSON(out, site); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "report.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded SiteData
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Cases) != 3 || decoded.GeneratedAt != "2026-02-01T00:00:00Z" {
		t.Fatalf("unexpected decoded site: %+v", decoded)
	}
}
