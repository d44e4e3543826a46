package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"diffsql/internal/config"
	"diffsql/internal/repro"
)

func main() {
	caseDir := flag.String("case_dir", "", "path to case directory")
	dsn := flag.String("dsn", "", "database DSN")
	database := flag.String("database", "diffsql_repro", "database name for reproduction")
	engine := flag.String("engine", "", "reference engine (sqlite, duckdb, mysql); defaults to the case summary")
	refDSN := flag.String("reference_dsn", "", "DSN for the mysql reference engine")
	compare := flag.String("compare", "", "compare mode (ordered, multiset); defaults to the case summary")
	timeout := flag.Duration("timeout", 15*time.Second, "per-statement timeout")
	flag.Parse()

	if *caseDir == "" || *dsn == "" {
		fmt.Fprintln(os.Stderr, "case_dir and dsn are required")
		flag.Usage()
		os.Exit(1)
	}

	opts := repro.Options{
		CaseDir:     *caseDir,
		DSN:         *dsn,
		Database:    *database,
		Reference:   config.ReferenceConfig{Engine: *engine, DSN: *refDSN},
		CompareMode: *compare,
		Timeout:     *timeout,
	}
	repro.ApplySummaryDefaults(&opts)
	out, err := repro.Run(context.Background(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "repro failed: %v\n", err)
		os.Exit(1)
	}
	if out.Reproduced() {
		os.Exit(2)
	}
}
