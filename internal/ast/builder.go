package ast

import "strings"

// SQLBuilder accumulates rendered SQL text.
type SQLBuilder struct {
	sb strings.Builder
}

// Write appends raw SQL text to the builder.
func (b *SQLBuilder) Write(s string) {
	b.sb.WriteString(s)
}

// String returns the assembled SQL text.
func (b *SQLBuilder) String() string {
	return b.sb.String()
}

// Node is anything that can render itself into a SQLBuilder.
type Node interface {
	Build(b *SQLBuilder)
}

// String renders a single node.
func String(n Node) string {
	b := SQLBuilder{}
	n.Build(&b)
	return b.String()
}
