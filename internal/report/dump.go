package report

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"diffsql/internal/schema"
	"diffsql/internal/util"
)

// Querier runs read queries against the system under test.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DumpData writes data.tsv with at most MaxDataDumpRows rows per table.
// Tables that cannot be read are noted and skipped.
func (r *Reporter) DumpData(ctx context.Context, c Case, exec Querier, state *schema.State) error {
	var b strings.Builder
	for _, tbl := range sortedTables(state.Tables) {
		fmt.Fprintf(&b, "-- %s\n", tbl.Name)
		query := fmt.Sprintf("SELECT * FROM %s", tbl.Name)
		if r.MaxDataDumpRows > 0 {
			query += fmt.Sprintf(" LIMIT %d", r.MaxDataDumpRows)
		}
		if err := dumpRows(ctx, &b, exec, query); err != nil {
			util.Warnf("dump data failed table=%s err=%v", tbl.Name, err)
			fmt.Fprintf(&b, "-- failed: %v\n", err)
		}
		b.WriteString("\n")
	}
	return r.WriteText(c, "data.tsv", b.String())
}

func dumpRows(ctx context.Context, b *strings.Builder, exec Querier, query string) error {
	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(rows, "dump rows")
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	b.WriteString(strings.Join(cols, "\t"))
	b.WriteString("\n")
	values := make([]sql.NullString, len(cols))
	scanArgs := make([]any, len(cols))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return err
		}
		row := make([]string, 0, len(cols))
		for _, v := range values {
			if !v.Valid {
				row = append(row, "NULL")
			} else {
				row = append(row, v.String)
			}
		}
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
	return rows.Err()
}

func sortedTables(tables []schema.Table) []schema.Table {
	out := append([]schema.Table(nil), tables...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
