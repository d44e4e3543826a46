package generator

import (
	"diffsql/internal/ast/mysql"
	"diffsql/internal/util"
)

type portable interface {
	Portable() bool
}

// pickOperator draws from all, keeping only portable operators when configured.
func pickOperator[O portable](g *Generator, all []O) O {
	if !g.Config.Generator.PortableOperators {
		return util.PickOne(g.Rand, all)
	}
	allowed := make([]O, 0, len(all))
	for _, op := range all {
		if op.Portable() {
			allowed = append(allowed, op)
		}
	}
	return util.PickOne(g.Rand, allowed)
}

func (g *Generator) prefixOperator() mysql.UnaryPrefixOperator {
	return pickOperator(g, mysql.AllUnaryPrefixOperators())
}

func (g *Generator) postfixOperator() mysql.UnaryPostfixOperator {
	return pickOperator(g, mysql.AllUnaryPostfixOperators())
}

func (g *Generator) comparisonOperator() mysql.BinaryComparisonOperator {
	return pickOperator(g, mysql.AllBinaryComparisonOperators())
}

func (g *Generator) logicalOperator() mysql.BinaryLogicalOperator {
	return pickOperator(g, mysql.AllBinaryLogicalOperators())
}

func (g *Generator) arithmeticOperator() mysql.BinaryArithmeticOperator {
	return pickOperator(g, mysql.AllBinaryArithmeticOperators())
}

func (g *Generator) bitwiseOperator() mysql.BinaryBitwiseOperator {
	return pickOperator(g, mysql.AllBinaryBitwiseOperators())
}
