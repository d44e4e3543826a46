package mysql

import (
	"fmt"
	"strconv"
	"strings"

	"diffsql/internal/ast"
	"diffsql/internal/schema"
)

// Expression is a MySQL expression node.
type Expression interface {
	ast.Node
	Columns() []ColumnReference
}

// ColumnReference renders a (possibly qualified) column.
type ColumnReference struct {
	Table string
	Name  string
	Type  schema.ColumnType
}

// Build emits the column reference.
func (e ColumnReference) Build(b *ast.SQLBuilder) {
	if e.Table != "" {
		b.Write(e.Table)
		b.Write(".")
	}
	b.Write(e.Name)
}

// Columns reports the column references used.
func (e ColumnReference) Columns() []ColumnReference { return []ColumnReference{e} }

// Constant is a literal value. A nil value is NULL.
type Constant struct {
	value any
}

// NewIntConstant returns an integer literal.
func NewIntConstant(v int64) Constant { return Constant{value: v} }

// NewDoubleConstant returns a floating point literal.
func NewDoubleConstant(v float64) Constant { return Constant{value: v} }

// NewStringConstant returns a string literal.
func NewStringConstant(v string) Constant { return Constant{value: v} }

// NewBoolConstant returns TRUE or FALSE.
func NewBoolConstant(v bool) Constant { return Constant{value: v} }

// NewNullConstant returns NULL.
func NewNullConstant() Constant { return Constant{} }

// IsNull reports whether the constant is NULL.
func (e Constant) IsNull() bool { return e.value == nil }

// Build emits the literal.
func (e Constant) Build(b *ast.SQLBuilder) {
	switch v := e.value.(type) {
	case nil:
		b.Write("NULL")
	case string:
		b.Write("'")
		b.Write(strings.ReplaceAll(v, "'", "''"))
		b.Write("'")
	case bool:
		if v {
			b.Write("TRUE")
		} else {
			b.Write("FALSE")
		}
	case int64:
		b.Write(strconv.FormatInt(v, 10))
	case float64:
		text := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(text, ".") {
			text += ".0"
		}
		b.Write(text)
	default:
		b.Write(fmt.Sprintf("%v", v))
	}
}

// Columns reports the column references used.
func (e Constant) Columns() []ColumnReference { return nil }

// UnaryPrefixOperation renders "(OP expr)".
type UnaryPrefixOperation struct {
	ast.UnaryOperatorNode[Expression, UnaryPrefixOperator]
}

// NewUnaryPrefixOperation builds a prefix operation.
func NewUnaryPrefixOperation(expr Expression, op UnaryPrefixOperator) UnaryPrefixOperation {
	return UnaryPrefixOperation{ast.NewUnaryOperatorNode(expr, op)}
}

// Build emits the expression.
func (e UnaryPrefixOperation) Build(b *ast.SQLBuilder) { ast.BuildPrefix(b, e.UnaryOperatorNode) }

// Columns reports the column references used.
func (e UnaryPrefixOperation) Columns() []ColumnReference { return e.Expr().Columns() }

// UnaryPostfixOperation renders "(expr OP)".
type UnaryPostfixOperation struct {
	ast.UnaryOperatorNode[Expression, UnaryPostfixOperator]
}

// NewUnaryPostfixOperation builds a postfix operation.
func NewUnaryPostfixOperation(expr Expression, op UnaryPostfixOperator) UnaryPostfixOperation {
	return UnaryPostfixOperation{ast.NewUnaryOperatorNode(expr, op)}
}

// Build emits the expression.
func (e UnaryPostfixOperation) Build(b *ast.SQLBuilder) { ast.BuildPostfix(b, e.UnaryOperatorNode) }

// Columns reports the column references used.
func (e UnaryPostfixOperation) Columns() []ColumnReference { return e.Expr().Columns() }

// BinaryComparisonOperation compares two expressions.
type BinaryComparisonOperation struct {
	ast.BinaryOperatorNode[Expression, BinaryComparisonOperator]
}

// NewBinaryComparisonOperation builds a comparison.
func NewBinaryComparisonOperation(left Expression, op BinaryComparisonOperator, right Expression) BinaryComparisonOperation {
	return BinaryComparisonOperation{ast.NewBinaryOperatorNode(left, op, right)}
}

// Build emits the expression.
func (e BinaryComparisonOperation) Build(b *ast.SQLBuilder) { ast.BuildBinary(b, e.BinaryOperatorNode) }

// Columns reports the column references used.
func (e BinaryComparisonOperation) Columns() []ColumnReference {
	return binaryColumns(e.Left(), e.Right())
}

// BinaryLogicalOperation joins two predicates.
type BinaryLogicalOperation struct {
	ast.BinaryOperatorNode[Expression, BinaryLogicalOperator]
}

// NewBinaryLogicalOperation builds a logical connective.
func NewBinaryLogicalOperation(left Expression, op BinaryLogicalOperator, right Expression) BinaryLogicalOperation {
	return BinaryLogicalOperation{ast.NewBinaryOperatorNode(left, op, right)}
}

// Build emits the expression.
func (e BinaryLogicalOperation) Build(b *ast.SQLBuilder) { ast.BuildBinary(b, e.BinaryOperatorNode) }

// Columns reports the column references used.
func (e BinaryLogicalOperation) Columns() []ColumnReference {
	return binaryColumns(e.Left(), e.Right())
}

// BinaryArithmeticOperation applies an arithmetic operator.
type BinaryArithmeticOperation struct {
	ast.BinaryOperatorNode[Expression, BinaryArithmeticOperator]
}

// NewBinaryArithmeticOperation builds an arithmetic operation.
func NewBinaryArithmeticOperation(left Expression, op BinaryArithmeticOperator, right Expression) BinaryArithmeticOperation {
	return BinaryArithmeticOperation{ast.NewBinaryOperatorNode(left, op, right)}
}

// Build emits the expression.
func (e BinaryArithmeticOperation) Build(b *ast.SQLBuilder) { ast.BuildBinary(b, e.BinaryOperatorNode) }

// Columns reports the column references used.
func (e BinaryArithmeticOperation) Columns() []ColumnReference {
	return binaryColumns(e.Left(), e.Right())
}

// BinaryBitwiseOperation applies a bitwise operator.
type BinaryBitwiseOperation struct {
	ast.BinaryOperatorNode[Expression, BinaryBitwiseOperator]
}

// NewBinaryBitwiseOperation builds a bitwise operation.
func NewBinaryBitwiseOperation(left Expression, op BinaryBitwiseOperator, right Expression) BinaryBitwiseOperation {
	return BinaryBitwiseOperation{ast.NewBinaryOperatorNode(left, op, right)}
}

// Build emits the expression.
func (e BinaryBitwiseOperation) Build(b *ast.SQLBuilder) { ast.BuildBinary(b, e.BinaryOperatorNode) }

// Columns reports the column references used.
func (e BinaryBitwiseOperation) Columns() []ColumnReference {
	return binaryColumns(e.Left(), e.Right())
}

func binaryColumns(left, right Expression) []ColumnReference {
	cols := make([]ColumnReference, 0, 4)
	cols = append(cols, left.Columns()...)
	return append(cols, right.Columns()...)
}

// FunctionCall renders NAME(arg, ...).
type FunctionCall struct {
	Name string
	Args []Expression
}

// Build emits the function call.
func (e FunctionCall) Build(b *ast.SQLBuilder) {
	b.Write(e.Name)
	b.Write("(")
	for i, arg := range e.Args {
		if i > 0 {
			b.Write(", ")
		}
		arg.Build(b)
	}
	b.Write(")")
}

// Columns reports the column references used.
func (e FunctionCall) Columns() []ColumnReference {
	cols := make([]ColumnReference, 0, len(e.Args))
	for _, arg := range e.Args {
		cols = append(cols, arg.Columns()...)
	}
	return cols
}

// CaseWhen renders CASE WHEN cond THEN a ELSE b END.
type CaseWhen struct {
	When Expression
	Then Expression
	Else Expression
}

// Build emits the CASE expression.
func (e CaseWhen) Build(b *ast.SQLBuilder) {
	b.Write("CASE WHEN ")
	e.When.Build(b)
	b.Write(" THEN ")
	e.Then.Build(b)
	if e.Else != nil {
		b.Write(" ELSE ")
		e.Else.Build(b)
	}
	b.Write(" END")
}

// Columns reports the column references used.
func (e CaseWhen) Columns() []ColumnReference {
	cols := append([]ColumnReference{}, e.When.Columns()...)
	cols = append(cols, e.Then.Columns()...)
	if e.Else != nil {
		cols = append(cols, e.Else.Columns()...)
	}
	return cols
}

// Star is the bare * argument of COUNT(*).
type Star struct{}

// Build emits *.
func (Star) Build(b *ast.SQLBuilder) { b.Write("*") }

// Columns reports no column references.
func (Star) Columns() []ColumnReference { return nil }
