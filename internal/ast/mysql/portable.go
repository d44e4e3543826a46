package mysql

// IsPortable reports whether every operator in e is accepted by SQLite and
// DuckDB as well as by MySQL.
func IsPortable(e Expression) bool {
	switch n := e.(type) {
	case nil:
		return true
	case UnaryPrefixOperation:
		return n.Operator().Portable() && IsPortable(n.Expr())
	case UnaryPostfixOperation:
		return n.Operator().Portable() && IsPortable(n.Expr())
	case BinaryComparisonOperation:
		return n.Operator().Portable() && IsPortable(n.Left()) && IsPortable(n.Right())
	case BinaryLogicalOperation:
		return n.Operator().Portable() && IsPortable(n.Left()) && IsPortable(n.Right())
	case BinaryArithmeticOperation:
		return n.Operator().Portable() && IsPortable(n.Left()) && IsPortable(n.Right())
	case BinaryBitwiseOperation:
		return n.Operator().Portable() && IsPortable(n.Left()) && IsPortable(n.Right())
	case FunctionCall:
		return allPortable(n.Args)
	case CaseWhen:
		return IsPortable(n.When) && IsPortable(n.Then) && IsPortable(n.Else)
	default:
		return true
	}
}

func allPortable(exprs []Expression) bool {
	for _, e := range exprs {
		if !IsPortable(e) {
			return false
		}
	}
	return true
}

// IsPortable reports whether every expression of the statement is portable.
func (s *Select) IsPortable() bool {
	return allPortable(s.Fetch) && IsPortable(s.Where) && allPortable(s.OrderBy)
}
