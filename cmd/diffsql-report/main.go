package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"diffsql/internal/report"
	"diffsql/internal/util"
)

// FileContent holds inlined case file content.
type FileContent struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
}

// CaseEntry is one case in the generated index.
type CaseEntry struct {
	ID              string                 `json:"id"`
	Dir             string                 `json:"dir"`
	Oracle          string                 `json:"oracle"`
	Kind            string                 `json:"kind"`
	Timestamp       string                 `json:"timestamp"`
	ServerVersion   string                 `json:"server_version"`
	ReferenceEngine string                 `json:"reference_engine"`
	CompareMode     string                 `json:"compare_mode"`
	Seed            int64                  `json:"seed"`
	Query           string                 `json:"query"`
	Expected        string                 `json:"expected"`
	Actual          string                 `json:"actual"`
	Error           string                 `json:"error"`
	ArchiveName     string                 `json:"archive_name"`
	ArchiveURL      string                 `json:"archive_url"`
	UploadLocation  string                 `json:"upload_location"`
	Details         map[string]any         `json:"details"`
	Files           map[string]FileContent `json:"files"`
}

// SiteData is the JSON payload written to report.json.
type SiteData struct {
	GeneratedAt string         `json:"generated_at"`
	Source      string         `json:"source"`
	Counts      map[string]int `json:"counts"`
	Cases       []CaseEntry    `json:"cases"`
}

var inlinedFiles = []string{"case.sql", "reference.sql", "data.tsv"}

func main() {
	input := flag.String("input", "reports", "directory containing case directories")
	output := flag.String("output", "web/public", "output directory for report.json")
	maxBytes := flag.Int("max-bytes", 64*1024, "max bytes to read per case file")
	flag.Parse()

	cases, err := loadLocalCases(*input, *maxBytes)
	if err != nil {
		fail("load cases: %v", err)
	}
	site := buildSite(*input, cases, time.Now().UTC())
	if err := writeJSON(*output, site); err != nil {
		fail("write report: %v", err)
	}
	util.Infof("wrote %d case(s) to %s", len(cases), filepath.Join(*output, "report.json"))
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func buildSite(source string, cases []CaseEntry, now time.Time) SiteData {
	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].Timestamp > cases[j].Timestamp
	})
	counts := map[string]int{}
	for _, c := range cases {
		counts[c.Oracle+"/"+c.Kind]++
	}
	return SiteData{
		GeneratedAt: now.Format(time.RFC3339),
		Source:      source,
		Counts:      counts,
		Cases:       cases,
	}
}

func loadLocalCases(root string, maxBytes int) ([]CaseEntry, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	cases := make([]CaseEntry, 0, len(dirs))
	for _, dirEntry := range dirs {
		if !dirEntry.IsDir() {
			continue
		}
		dir := filepath.Join(root, dirEntry.Name())
		summary, err := report.ReadSummary(dir)
		if err != nil {
			util.Detailf("skip %s: %v", dir, err)
			continue
		}
		entry := caseFromSummary(summary, dir, maxBytes)
		if entry.ID == "" {
			entry.ID = dirEntry.Name()
		}
		cases = append(cases, entry)
	}
	return cases, nil
}

func caseFromSummary(summary report.Summary, dir string, maxBytes int) CaseEntry {
	files := make(map[string]FileContent, len(inlinedFiles)+1)
	for _, name := range inlinedFiles {
		files[name] = mustReadFile(filepath.Join(dir, name), maxBytes)
	}
	if _, err := os.Stat(filepath.Join(dir, report.CaseArchiveName)); err == nil {
		files[report.CaseArchiveName] = FileContent{Name: report.CaseArchiveName, Content: "(binary)", Truncated: true}
	}
	return CaseEntry{
		ID:              caseIDFromSummary(summary, ""),
		Dir:             dir,
		Oracle:          summary.Oracle,
		Kind:            summary.Kind,
		Timestamp:       summary.Timestamp,
		ServerVersion:   summary.ServerVersion,
		ReferenceEngine: summary.ReferenceEngine,
		CompareMode:     summary.CompareMode,
		Seed:            summary.Seed,
		Query:           summary.Query,
		Expected:        summary.Expected,
		Actual:          summary.Actual,
		Error:           summary.Error,
		ArchiveName:     summary.ArchiveName,
		ArchiveURL:      objectURL(summary.UploadLocation, summary.ArchiveName),
		UploadLocation:  summary.UploadLocation,
		Details:         summary.Details,
		Files:           files,
	}
}

func mustReadFile(path string, maxBytes int) FileContent {
	content, truncated, err := readFileLimited(path, maxBytes)
	if err != nil {
		return FileContent{Name: filepath.Base(path)}
	}
	return FileContent{Name: filepath.Base(path), Content: content, Truncated: truncated}
}

func readFileLimited(path string, maxBytes int) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer util.CloseWithErr(f, "report input")
	data, err := io.ReadAll(io.LimitReader(f, int64(maxBytes)+1))
	if err != nil {
		return "", false, err
	}
	truncated := len(data) > maxBytes
	if truncated {
		data = data[:maxBytes]
	}
	return string(data), truncated, nil
}

func writeJSON(output string, site SiteData) error {
	if err := os.MkdirAll(output, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(output, "report.json"))
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, "report output")
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(site)
}

func caseIDFromSummary(summary report.Summary, fallback string) string {
	if id := strings.TrimSpace(summary.CaseID); id != "" {
		return id
	}
	if id := strings.TrimSpace(summary.CaseDir); id != "" {
		return id
	}
	return fallback
}

// objectURL only resolves http(s) upload locations; s3:// and gs:// locations
// are left for the consumer to sign.
func objectURL(base, name string) string {
	trimmedBase := strings.TrimRight(strings.TrimSpace(base), "/")
	trimmedName := strings.TrimLeft(strings.TrimSpace(name), "/")
	if trimmedBase == "" || trimmedName == "" {
		return ""
	}
	lower := strings.ToLower(trimmedBase)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return ""
	}
	return trimmedBase + "/" + trimmedName
}
