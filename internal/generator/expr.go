package generator

import (
	"diffsql/internal/ast/mysql"
	"diffsql/internal/schema"
	"diffsql/internal/util"
)

// GenerateExpression builds a random expression over the given tables with
// at most depth levels of operators.
func (g *Generator) GenerateExpression(tables []schema.Table, depth int) mysql.Expression {
	if depth <= 0 || util.Chance(g.Rand, LeafProb) {
		return g.leaf(tables)
	}
	if util.Chance(g.Rand, FunctionProb) {
		return g.functionCall(tables, depth-1)
	}
	switch g.Rand.Intn(6) {
	case 0:
		return mysql.NewUnaryPrefixOperation(g.GenerateExpression(tables, depth-1), g.prefixOperator())
	case 1:
		return mysql.NewUnaryPostfixOperation(g.GenerateExpression(tables, depth-1), g.postfixOperator())
	case 2:
		return g.comparison(tables, depth)
	case 3:
		return mysql.NewBinaryLogicalOperation(g.GenerateExpression(tables, depth-1), g.logicalOperator(), g.GenerateExpression(tables, depth-1))
	case 4:
		return mysql.NewBinaryArithmeticOperation(g.GenerateExpression(tables, depth-1), g.arithmeticOperator(), g.GenerateExpression(tables, depth-1))
	default:
		return mysql.NewBinaryBitwiseOperation(g.GenerateExpression(tables, depth-1), g.bitwiseOperator(), g.GenerateExpression(tables, depth-1))
	}
}

// GeneratePredicate builds a boolean-shaped expression for WHERE clauses.
func (g *Generator) GeneratePredicate(tables []schema.Table, depth int) mysql.Expression {
	if depth > 1 && util.Chance(g.Rand, 40) {
		return mysql.NewBinaryLogicalOperation(g.GeneratePredicate(tables, depth-1), g.logicalOperator(), g.GeneratePredicate(tables, depth-1))
	}
	if depth > 1 && util.Chance(g.Rand, 15) {
		return mysql.NewUnaryPrefixOperation(g.GeneratePredicate(tables, depth-1), mysql.OpNot)
	}
	if util.Chance(g.Rand, 20) {
		return mysql.NewUnaryPostfixOperation(g.GenerateExpression(tables, depth-1), g.postfixOperator())
	}
	return g.comparison(tables, max(depth, 1))
}

func (g *Generator) comparison(tables []schema.Table, depth int) mysql.Expression {
	left := g.GenerateExpression(tables, depth-1)
	var right mysql.Expression
	if col, ok := left.(mysql.ColumnReference); ok && util.Chance(g.Rand, 50) {
		right = g.literalForColumn(schema.Column{Type: col.Type, Nullable: true})
	} else {
		right = g.GenerateExpression(tables, depth-1)
	}
	return mysql.NewBinaryComparisonOperation(left, g.comparisonOperator(), right)
}

func (g *Generator) functionCall(tables []schema.Table, depth int) mysql.Expression {
	name := util.PickOne(g.Rand, functionNames)
	args := []mysql.Expression{g.GenerateExpression(tables, depth)}
	if name != "ABS" {
		args = append(args, g.GenerateExpression(tables, depth))
	}
	return mysql.FunctionCall{Name: name, Args: args}
}

func (g *Generator) leaf(tables []schema.Table) mysql.Expression {
	if len(tables) > 0 && util.Chance(g.Rand, ColumnLeafProb) {
		tbl := util.PickOne(g.Rand, tables)
		if len(tbl.Columns) > 0 {
			col := util.PickOne(g.Rand, tbl.Columns)
			return mysql.ColumnReference{Table: tbl.Name, Name: col.Name, Type: col.Type}
		}
	}
	return g.literalForColumn(schema.Column{Type: util.PickOne(g.Rand, schema.AllColumnTypes()), Nullable: true})
}

// literalForColumn draws a constant that fits the column type, or NULL for
// nullable columns.
func (g *Generator) literalForColumn(col schema.Column) mysql.Constant {
	if col.Nullable && util.Chance(g.Rand, g.Config.Generator.NullProb) {
		return mysql.NewNullConstant()
	}
	switch col.Type {
	case schema.TypeInt, schema.TypeBigInt:
		return mysql.NewIntConstant(int64(g.Rand.Intn(2*NumericLiteralMax+1) - NumericLiteralMax))
	case schema.TypeDouble:
		return mysql.NewDoubleConstant(float64(int(g.Rand.Float64()*FloatLiteralScale)) / FloatLiteralDiv)
	case schema.TypeVarchar:
		return mysql.NewStringConstant(g.faker.Word())
	case schema.TypeBool:
		return mysql.NewBoolConstant(g.Rand.Intn(2) == 0)
	default:
		return mysql.NewIntConstant(int64(g.Rand.Intn(NumericLiteralMax)))
	}
}
