package mysql

import (
	"strconv"

	"diffsql/internal/ast"
)

// Select is a single-block SELECT statement.
type Select struct {
	Distinct bool
	Fetch    []Expression
	From     []string
	Where    Expression
	OrderBy  []Expression
	Limit    int64
}

// Build emits the statement without a terminator.
func (s *Select) Build(b *ast.SQLBuilder) {
	b.Write("SELECT ")
	if s.Distinct {
		b.Write("DISTINCT ")
	}
	for i, expr := range s.Fetch {
		if i > 0 {
			b.Write(", ")
		}
		expr.Build(b)
	}
	if len(s.From) > 0 {
		b.Write(" FROM ")
		for i, tbl := range s.From {
			if i > 0 {
				b.Write(", ")
			}
			b.Write(tbl)
		}
	}
	if s.Where != nil {
		b.Write(" WHERE ")
		s.Where.Build(b)
	}
	if len(s.OrderBy) > 0 {
		b.Write(" ORDER BY ")
		for i, expr := range s.OrderBy {
			if i > 0 {
				b.Write(", ")
			}
			expr.Build(b)
		}
	}
	if s.Limit > 0 {
		b.Write(" LIMIT ")
		b.Write(strconv.FormatInt(s.Limit, 10))
	}
}

// AsString renders a MySQL node to SQL text.
func AsString(n ast.Node) string {
	return ast.String(n)
}
