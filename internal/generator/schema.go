package generator

import (
	"fmt"
	"strings"

	"diffsql/internal/schema"
	"diffsql/internal/util"
)

func tableName(seq int) string { return fmt.Sprintf("t%d", seq) }

// GenerateTable creates a randomized table definition. The table is not added
// to the state; callers do that once the DDL succeeded.
func (g *Generator) GenerateTable() schema.Table {
	colCount := 1
	if g.Config.MaxColumns > 1 {
		colCount = g.Rand.Intn(g.Config.MaxColumns) + 1
	}
	cols := make([]schema.Column, 0, colCount)
	for i := 0; i < colCount; i++ {
		cols = append(cols, schema.Column{
			Name:     fmt.Sprintf("c%d", i),
			Type:     util.PickOne(g.Rand, schema.AllColumnTypes()),
			Nullable: util.Chance(g.Rand, ColumnNullableProb),
		})
	}
	return schema.Table{
		Name:    g.NextTableName(),
		Columns: cols,
		NextID:  1,
	}
}

// CreateTableSQL renders a CREATE TABLE statement for a schema table.
func (g *Generator) CreateTableSQL(tbl schema.Table) string {
	parts := make([]string, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		line := fmt.Sprintf("%s %s", col.Name, col.SQLType())
		if !col.Nullable {
			line += " NOT NULL"
		}
		parts = append(parts, line)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", tbl.Name, strings.Join(parts, ", "))
}
