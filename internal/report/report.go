// Package report writes failing cases to disk so they can be replayed.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const caseReadme = `# Reproduce Case

- Replay on the system under test: case.sql (last statement is the query)
- Replay on the reference engine: reference.sql
- Data snapshot from the system under test: data.tsv
- Metadata: summary.json
`

// Reporter writes case artifacts to disk.
type Reporter struct {
	OutputDir       string
	MaxDataDumpRows int
	UseUUIDPath     bool
	caseSeq         int
}

// Case describes a report directory.
type Case struct {
	ID  string
	Dir string
}

// New creates a reporter that writes to outputDir.
func New(outputDir string, maxRows int) *Reporter {
	return &Reporter{OutputDir: outputDir, MaxDataDumpRows: maxRows}
}

// NewCase allocates a new case directory.
func (r *Reporter) NewCase() (Case, error) {
	r.caseSeq++
	caseID := uuid.New().String()
	if v7, err := uuid.NewV7(); err == nil {
		caseID = v7.String()
	}
	caseDir := fmt.Sprintf("case_%04d_%s", r.caseSeq, caseID)
	if r.UseUUIDPath {
		caseDir = caseID
	}
	dir := filepath.Join(r.OutputDir, caseDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Case{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(caseReadme), 0o644); err != nil {
		return Case{}, err
	}
	return Case{ID: caseID, Dir: dir}, nil
}

// WriteSQL writes statements to a file, one per line, each terminated by a
// semicolon. Statements already ending in a semicolon are left alone.
func (r *Reporter) WriteSQL(c Case, name string, statements []string) error {
	var b strings.Builder
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		b.WriteString(stmt)
		if !strings.HasSuffix(stmt, ";") {
			b.WriteString(";")
		}
		b.WriteString("\n")
	}
	return r.WriteText(c, name, b.String())
}

// WriteText writes raw text content into the case directory.
func (r *Reporter) WriteText(c Case, name string, content string) error {
	path := filepath.Join(c.Dir, name)
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
