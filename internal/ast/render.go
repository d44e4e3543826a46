package ast

// BuildPrefix renders "(OP child)" for any unary operator node.
func BuildPrefix[E Node, O Operator](b *SQLBuilder, n UnaryOperatorNode[E, O]) {
	b.Write("(")
	b.Write(n.OperatorRepresentation())
	b.Write(" ")
	n.Expr().Build(b)
	b.Write(")")
}

// BuildPostfix renders "(child OP)" for any unary operator node.
func BuildPostfix[E Node, O Operator](b *SQLBuilder, n UnaryOperatorNode[E, O]) {
	b.Write("(")
	n.Expr().Build(b)
	b.Write(" ")
	b.Write(n.OperatorRepresentation())
	b.Write(")")
}

// BuildBinary renders "(left OP right)" for any binary operator node.
func BuildBinary[E Node, O Operator](b *SQLBuilder, n BinaryOperatorNode[E, O]) {
	b.Write("(")
	n.Left().Build(b)
	b.Write(" ")
	b.Write(n.OperatorRepresentation())
	b.Write(" ")
	n.Right().Build(b)
	b.Write(")")
}
