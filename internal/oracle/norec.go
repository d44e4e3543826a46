package oracle

import (
	"context"
	"database/sql"
	"fmt"

	"diffsql/internal/ast/mysql"
)

// NoREC compares the row count of a filtered query with the number of rows
// for which the same predicate is true when evaluated per row, a form the
// optimizer cannot rewrite.
type NoREC struct {
	session Session
	gen     QueryGenerator
}

// NewNoREC builds the oracle.
func NewNoREC(session Session, gen QueryGenerator) *NoREC {
	return &NoREC{session: session, gen: gen}
}

// Name implements Oracle.
func (o *NoREC) Name() string { return "NoREC" }

// Check implements Oracle. SUT errors are inconclusive here.
func (o *NoREC) Check(ctx context.Context) error {
	query := o.gen.GenerateQuery(2)
	if query == nil || query.Where == nil || len(query.From) == 0 {
		return nil
	}
	optimized := NoRECOptimizedQuery(query)
	unoptimized := NoRECUnoptimizedQuery(query)

	optCount, err := o.count(ctx, optimized)
	if err != nil {
		return nil
	}
	unoptCount, err := o.count(ctx, unoptimized)
	if err != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if optCount != unoptCount {
		return &Failure{
			Oracle:     o.Name(),
			Kind:       KindCountMismatch,
			Query:      optimized,
			Statements: o.session.History(),
			Expected:   fmt.Sprintf("optimized count=%s", optCount.String),
			Actual:     fmt.Sprintf("unoptimized count=%s", unoptCount.String),
			Details: map[string]any{
				"unoptimized_query": unoptimized,
			},
		}
	}
	return nil
}

func (o *NoREC) count(ctx context.Context, query string) (sql.NullString, error) {
	values, err := o.session.QueryFirstColumn(ctx, query)
	if err != nil {
		return sql.NullString{}, err
	}
	if len(values) != 1 {
		return sql.NullString{}, fmt.Errorf("count query returned %d rows", len(values))
	}
	return values[0], nil
}

// NoRECOptimizedQuery counts the rows the WHERE clause keeps.
func NoRECOptimizedQuery(query *mysql.Select) string {
	counted := &mysql.Select{
		Fetch: []mysql.Expression{mysql.FunctionCall{Name: "COUNT", Args: []mysql.Expression{mysql.Star{}}}},
		From:  query.From,
		Where: query.Where,
	}
	return mysql.AsString(counted) + ";"
}

// NoRECUnoptimizedQuery sums the predicate per row instead of filtering.
func NoRECUnoptimizedQuery(query *mysql.Select) string {
	perRow := mysql.CaseWhen{
		When: query.Where,
		Then: mysql.NewIntConstant(1),
		Else: mysql.NewIntConstant(0),
	}
	sum := mysql.FunctionCall{Name: "SUM", Args: []mysql.Expression{perRow}}
	counted := &mysql.Select{
		Fetch: []mysql.Expression{mysql.FunctionCall{Name: "IFNULL", Args: []mysql.Expression{sum, mysql.NewIntConstant(0)}}},
		From:  query.From,
	}
	return mysql.AsString(counted) + ";"
}
