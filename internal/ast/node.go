// Package ast holds the dialect-independent expression node layer.
//
// Concrete dialects declare closed operator sets implementing Operator and
// instantiate the generic nodes below with them. Rendering goes through
// BuildPrefix, BuildPostfix and BuildBinary, which only look at the operator's
// text, so a new operator never needs its own rendering branch.
package ast

import "reflect"

// Operator is one member of a closed, per-dialect operator set.
type Operator interface {
	TextRepresentation() string
}

// OperatorNode is a node that renders an operator.
type OperatorNode interface {
	OperatorRepresentation() string
}

// UnaryNode owns exactly one child expression.
type UnaryNode[E any] struct {
	expr E
}

// NewUnaryNode wraps expr. A nil child is a caller bug and panics.
func NewUnaryNode[E any](expr E) UnaryNode[E] {
	if isNil(expr) {
		panic("ast: unary node requires a child expression")
	}
	return UnaryNode[E]{expr: expr}
}

// Expr returns the child expression.
func (n UnaryNode[E]) Expr() E { return n.expr }

// UnaryOperatorNode is a unary node bound to one operator.
type UnaryOperatorNode[E any, O Operator] struct {
	UnaryNode[E]
	op O
}

// NewUnaryOperatorNode builds a unary operator node.
func NewUnaryOperatorNode[E any, O Operator](expr E, op O) UnaryOperatorNode[E, O] {
	return UnaryOperatorNode[E, O]{UnaryNode: NewUnaryNode(expr), op: op}
}

// Operator returns the node's operator.
func (n UnaryOperatorNode[E, O]) Operator() O { return n.op }

// OperatorRepresentation returns the operator text used for rendering.
func (n UnaryOperatorNode[E, O]) OperatorRepresentation() string {
	return n.op.TextRepresentation()
}

// BinaryOperatorNode owns a left and right child and one operator.
type BinaryOperatorNode[E any, O Operator] struct {
	left  E
	right E
	op    O
}

// NewBinaryOperatorNode builds a binary operator node. Nil children panic.
func NewBinaryOperatorNode[E any, O Operator](left E, op O, right E) BinaryOperatorNode[E, O] {
	if isNil(left) || isNil(right) {
		panic("ast: binary node requires two child expressions")
	}
	return BinaryOperatorNode[E, O]{left: left, right: right, op: op}
}

// Left returns the left child.
func (n BinaryOperatorNode[E, O]) Left() E { return n.left }

// Right returns the right child.
func (n BinaryOperatorNode[E, O]) Right() E { return n.right }

// Operator returns the node's operator.
func (n BinaryOperatorNode[E, O]) Operator() O { return n.op }

// OperatorRepresentation returns the operator text used for rendering.
func (n BinaryOperatorNode[E, O]) OperatorRepresentation() string {
	return n.op.TextRepresentation()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
