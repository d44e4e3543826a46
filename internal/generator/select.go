package generator

import (
	"diffsql/internal/ast/mysql"
	"diffsql/internal/schema"
	"diffsql/internal/util"
)

// GenerateQuery builds a single-column SELECT whose fetch expression has at
// most size operator levels, capped by the configured depth. It returns nil
// when no table exists.
func (g *Generator) GenerateQuery(size int) *mysql.Select {
	if !g.State.HasTables() {
		return nil
	}
	depth := min(max(size, 1), g.maxDepth())
	tables := g.pickTables()
	names := make([]string, 0, len(tables))
	for _, tbl := range tables {
		names = append(names, tbl.Name)
	}
	fetch := g.GenerateExpression(tables, depth)
	query := &mysql.Select{
		Fetch: []mysql.Expression{fetch},
		From:  names,
	}
	if util.Chance(g.Rand, g.Config.Generator.WhereProb) {
		query.Where = g.GeneratePredicate(tables, depth)
	}
	if util.Chance(g.Rand, g.Config.Generator.OrderByProb) {
		query.OrderBy = []mysql.Expression{fetch}
	}
	return query
}

func (g *Generator) pickTables() []schema.Table {
	tables := g.State.Tables
	if len(tables) > 1 && util.Chance(g.Rand, JoinTableProb) {
		idx := g.Rand.Perm(len(tables))[:2]
		return []schema.Table{tables[idx[0]], tables[idx[1]]}
	}
	return []schema.Table{util.PickOne(g.Rand, tables)}
}
