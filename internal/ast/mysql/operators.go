// Package mysql defines the MySQL dialect of the expression AST.
package mysql

import "fmt"

// UnaryPrefixOperator enumerates prefix operators.
type UnaryPrefixOperator int

// Prefix operator constants.
const (
	OpNot UnaryPrefixOperator = iota
	OpPlus
	OpMinus
	OpInvert
)

var unaryPrefixText = [...]string{
	OpNot:    "NOT",
	OpPlus:   "+",
	OpMinus:  "-",
	OpInvert: "~",
}

// TextRepresentation returns the SQL text of the operator.
func (o UnaryPrefixOperator) TextRepresentation() string {
	return operatorText(unaryPrefixText[:], int(o), "prefix")
}

// Portable reports whether SQLite and DuckDB accept the operator.
func (o UnaryPrefixOperator) Portable() bool { return true }

// AllUnaryPrefixOperators lists every prefix operator.
func AllUnaryPrefixOperators() []UnaryPrefixOperator {
	return []UnaryPrefixOperator{OpNot, OpPlus, OpMinus, OpInvert}
}

// UnaryPostfixOperator enumerates postfix operators.
type UnaryPostfixOperator int

// Postfix operator constants.
const (
	OpIsNull UnaryPostfixOperator = iota
	OpIsNotNull
	OpIsTrue
	OpIsFalse
)

var unaryPostfixText = [...]string{
	OpIsNull:    "IS NULL",
	OpIsNotNull: "IS NOT NULL",
	OpIsTrue:    "IS TRUE",
	OpIsFalse:   "IS FALSE",
}

// TextRepresentation returns the SQL text of the operator.
func (o UnaryPostfixOperator) TextRepresentation() string {
	return operatorText(unaryPostfixText[:], int(o), "postfix")
}

// Portable reports whether SQLite and DuckDB accept the operator.
func (o UnaryPostfixOperator) Portable() bool {
	return o == OpIsNull || o == OpIsNotNull
}

// AllUnaryPostfixOperators lists every postfix operator.
func AllUnaryPostfixOperators() []UnaryPostfixOperator {
	return []UnaryPostfixOperator{OpIsNull, OpIsNotNull, OpIsTrue, OpIsFalse}
}

// BinaryComparisonOperator enumerates comparison operators.
type BinaryComparisonOperator int

// Comparison operator constants.
const (
	OpEquals BinaryComparisonOperator = iota
	OpNotEquals
	OpLess
	OpLessEquals
	OpGreater
	OpGreaterEquals
	OpNullSafeEquals
	OpLike
)

var comparisonText = [...]string{
	OpEquals:         "=",
	OpNotEquals:      "<>",
	OpLess:           "<",
	OpLessEquals:     "<=",
	OpGreater:        ">",
	OpGreaterEquals:  ">=",
	OpNullSafeEquals: "<=>",
	OpLike:           "LIKE",
}

// TextRepresentation returns the SQL text of the operator.
func (o BinaryComparisonOperator) TextRepresentation() string {
	return operatorText(comparisonText[:], int(o), "comparison")
}

// Portable reports whether SQLite and DuckDB accept the operator.
func (o BinaryComparisonOperator) Portable() bool { return o != OpNullSafeEquals }

// AllBinaryComparisonOperators lists every comparison operator.
func AllBinaryComparisonOperators() []BinaryComparisonOperator {
	return []BinaryComparisonOperator{OpEquals, OpNotEquals, OpLess, OpLessEquals, OpGreater, OpGreaterEquals, OpNullSafeEquals, OpLike}
}

// BinaryLogicalOperator enumerates logical connectives.
type BinaryLogicalOperator int

// Logical operator constants.
const (
	OpAnd BinaryLogicalOperator = iota
	OpOr
	OpXor
)

var logicalText = [...]string{
	OpAnd: "AND",
	OpOr:  "OR",
	OpXor: "XOR",
}

// TextRepresentation returns the SQL text of the operator.
func (o BinaryLogicalOperator) TextRepresentation() string {
	return operatorText(logicalText[:], int(o), "logical")
}

// Portable reports whether SQLite and DuckDB accept the operator.
func (o BinaryLogicalOperator) Portable() bool { return o != OpXor }

// AllBinaryLogicalOperators lists every logical operator.
func AllBinaryLogicalOperators() []BinaryLogicalOperator {
	return []BinaryLogicalOperator{OpAnd, OpOr, OpXor}
}

// BinaryArithmeticOperator enumerates arithmetic operators.
type BinaryArithmeticOperator int

// Arithmetic operator constants.
const (
	OpAdd BinaryArithmeticOperator = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpIntDivide
)

var arithmeticText = [...]string{
	OpAdd:       "+",
	OpSubtract:  "-",
	OpMultiply:  "*",
	OpDivide:    "/",
	OpModulo:    "%",
	OpIntDivide: "DIV",
}

// TextRepresentation returns the SQL text of the operator.
func (o BinaryArithmeticOperator) TextRepresentation() string {
	return operatorText(arithmeticText[:], int(o), "arithmetic")
}

// Portable reports whether SQLite and DuckDB accept the operator.
func (o BinaryArithmeticOperator) Portable() bool { return o != OpIntDivide }

// AllBinaryArithmeticOperators lists every arithmetic operator.
func AllBinaryArithmeticOperators() []BinaryArithmeticOperator {
	return []BinaryArithmeticOperator{OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulo, OpIntDivide}
}

// BinaryBitwiseOperator enumerates bitwise operators.
type BinaryBitwiseOperator int

// Bitwise operator constants.
const (
	OpBitAnd BinaryBitwiseOperator = iota
	OpBitOr
	OpBitXor
	OpShiftLeft
	OpShiftRight
)

var bitwiseText = [...]string{
	OpBitAnd:     "&",
	OpBitOr:      "|",
	OpBitXor:     "^",
	OpShiftLeft:  "<<",
	OpShiftRight: ">>",
}

// TextRepresentation returns the SQL text of the operator.
func (o BinaryBitwiseOperator) TextRepresentation() string {
	return operatorText(bitwiseText[:], int(o), "bitwise")
}

// Portable reports whether SQLite and DuckDB accept the operator.
// DuckDB spells XOR as xor(), SQLite has none.
func (o BinaryBitwiseOperator) Portable() bool { return o != OpBitXor }

// AllBinaryBitwiseOperators lists every bitwise operator.
func AllBinaryBitwiseOperators() []BinaryBitwiseOperator {
	return []BinaryBitwiseOperator{OpBitAnd, OpBitOr, OpBitXor, OpShiftLeft, OpShiftRight}
}

func operatorText(table []string, idx int, kind string) string {
	if idx < 0 || idx >= len(table) {
		panic(fmt.Sprintf("mysql: invalid %s operator %d", kind, idx))
	}
	return table[idx]
}
