package generator

// Generator tuning constants. Probabilities are percentages.

const (
	// InsertRowCountMax is the maximum number of rows in a single INSERT.
	InsertRowCountMax = 3
	// ColumnNullableProb is the chance to mark a column nullable.
	ColumnNullableProb = 60
	// JoinTableProb is the chance a query reads from two tables.
	JoinTableProb = 20
	// LeafProb is the chance to stop growing an expression early.
	LeafProb = 30
	// ColumnLeafProb is the chance a leaf is a column rather than a constant.
	ColumnLeafProb = 70
	// FunctionProb is the chance an inner node is a function call.
	FunctionProb = 10
	// NumericLiteralMax bounds generated integer literals.
	NumericLiteralMax = 100
	// FloatLiteralScale and FloatLiteralDiv shape generated doubles.
	FloatLiteralScale = 10000
	FloatLiteralDiv   = 100
)

// functionNames are scalar functions every reference engine understands.
var functionNames = []string{"ABS", "COALESCE", "IFNULL", "NULLIF"}
