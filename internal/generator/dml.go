package generator

import (
	"fmt"
	"strings"

	"diffsql/internal/ast/mysql"
	"diffsql/internal/schema"
)

// CanInsert reports whether the table is below the configured row cap.
func (g *Generator) CanInsert(tbl *schema.Table) bool {
	if g.Config.MaxRowsPerTable <= 0 {
		return true
	}
	return tbl.NextID <= int64(g.Config.MaxRowsPerTable)
}

// InsertSQL emits an INSERT statement and the number of rows it carries.
// The caller advances tbl.NextID once the statement has executed.
func (g *Generator) InsertSQL(tbl schema.Table) (string, int64) {
	rowCount := g.Rand.Intn(InsertRowCountMax) + 1
	cols := make([]string, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		cols = append(cols, col.Name)
	}
	rows := make([]string, 0, rowCount)
	for i := 0; i < rowCount; i++ {
		vals := make([]string, 0, len(tbl.Columns))
		for _, col := range tbl.Columns {
			vals = append(vals, mysql.AsString(g.literalForColumn(col)))
		}
		rows = append(rows, fmt.Sprintf("(%s)", strings.Join(vals, ", ")))
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", tbl.Name, strings.Join(cols, ", "), strings.Join(rows, ", "))
	return stmt, int64(rowCount)
}
