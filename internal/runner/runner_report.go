package runner

import (
	"context"
	"time"

	"diffsql/internal/oracle"
	"diffsql/internal/report"
	"diffsql/internal/util"
)

// handleFailure writes a case directory for f and uploads it when storage is
// configured. Reporting problems are logged, never fatal.
func (r *Runner) handleFailure(ctx context.Context, f *oracle.Failure) {
	r.stats.failures.Add(1)
	util.Errorf("[%s] %s query=%s expected=%s actual=%s", f.Oracle, f.Kind, f.Query, f.Expected, f.Actual)

	c, err := r.reporter.NewCase()
	if err != nil {
		util.Errorf("create case dir failed: %v", err)
		return
	}
	replay := oracle.ReplayStatements(f.Statements)
	caseSQL := append(append([]string(nil), replay...), f.Query)
	if err := r.reporter.WriteSQL(c, "case.sql", caseSQL); err != nil {
		util.Warnf("write case.sql failed dir=%s err=%v", c.Dir, err)
	}
	if err := r.reporter.WriteText(c, "reference.sql", oracle.BuildReferenceBlock(replay, f.Query)+"\n"); err != nil {
		util.Warnf("write reference.sql failed dir=%s err=%v", c.Dir, err)
	}
	if err := r.reporter.DumpData(ctx, c, r.exec, r.state); err != nil {
		util.Warnf("dump data failed dir=%s err=%v", c.Dir, err)
	}

	summary := r.buildSummary(ctx, c, f)
	if r.cfg.Report.Archive {
		if err := r.reporter.WriteSummary(c, summary); err != nil {
			util.Warnf("write summary failed dir=%s err=%v", c.Dir, err)
		}
		name, codec, err := r.reporter.WriteCaseArchive(c)
		if err != nil {
			util.Warnf("case archive failed dir=%s err=%v", c.Dir, err)
		} else {
			summary.ArchiveName, summary.ArchiveCodec = name, codec
		}
	}
	if r.uploader.Enabled() {
		location, err := r.uploader.UploadDir(ctx, c.Dir)
		if err != nil {
			util.Warnf("upload failed dir=%s err=%v", c.Dir, err)
		} else {
			summary.UploadLocation = location
		}
	}
	if err := r.reporter.WriteSummary(c, summary); err != nil {
		util.Warnf("write summary failed dir=%s err=%v", c.Dir, err)
	}
	if summary.UploadLocation != "" {
		util.Highlightf("case %s uploaded to %s", c.ID, summary.UploadLocation)
	} else {
		util.Highlightf("case %s written to %s", c.ID, c.Dir)
	}
}

func (r *Runner) buildSummary(ctx context.Context, c report.Case, f *oracle.Failure) report.Summary {
	summary := report.Summary{
		Oracle:          f.Oracle,
		Kind:            string(f.Kind),
		Query:           f.Query,
		SQL:             f.Statements,
		Expected:        f.Expected,
		Actual:          f.Actual,
		ReferenceEngine: r.engine.Name(),
		CompareMode:     string(r.mode),
		Seed:            r.gen.Seed,
		CaseID:          c.ID,
		CaseDir:         c.Dir,
		Details:         f.Details,
		RunInfo:         r.runInfo,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		ServerVersion:   r.serverVersion(ctx),
	}
	if f.Err != nil {
		summary.Error = f.Err.Error()
	}
	return summary
}

func (r *Runner) serverVersion(ctx context.Context) string {
	values, err := r.session.QueryFirstColumn(ctx, "SELECT VERSION()")
	if err != nil || len(values) == 0 || !values[0].Valid {
		return ""
	}
	return values[0].String
}
