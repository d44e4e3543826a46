package runner

import (
	"diffsql/internal/db"
	"diffsql/internal/oracle"
	"diffsql/internal/util"
)

// isSkippable reports statement failures caused by the generator or rejected
// before execution; the loop carries on after them.
func isSkippable(err error) bool {
	if err == nil {
		return false
	}
	if db.IsGeneratorFault(err) {
		return true
	}
	_, isServerErr := db.ErrCode(err)
	return !isServerErr && !db.IsRuntimeError(err)
}

func logStatementError(sqlText string, err error) {
	switch {
	case db.IsRuntimeError(err):
		util.Errorf("statement hit a server runtime error sql=%s err=%v", sqlText, err)
	case db.IsGeneratorFault(err):
		if code, ok := db.ErrCode(err); ok {
			util.Detailf("sql error whitelisted code=%d sql=%s err=%v", code, sqlText, err)
		}
	default:
		util.Detailf("statement failed sql=%s err=%v", sqlText, err)
	}
}

// shouldReport drops SUT errors that only show the generator produced
// something the server legitimately rejects.
func (r *Runner) shouldReport(f *oracle.Failure) bool {
	if f.Kind == oracle.KindSUTError && db.IsGeneratorFault(f.Err) {
		r.stats.skipped.Add(1)
		util.Detailf("[%s] skip whitelisted sut error query=%s err=%v", f.Oracle, f.Query, f.Err)
		return false
	}
	return true
}
