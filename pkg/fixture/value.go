// Package fixture renders decoded binary structures as C++ literal
// fragments that can be compiled into test fixtures.
package fixture

import (
	"errors"
	"strings"
)

// Errors returned by the renderer
var (
	ErrUnsupportedValueKind = errors.New("unsupported value kind")
	ErrInvalidIndent        = errors.New("invalid indent")
	ErrDepthExceeded        = errors.New("nesting depth exceeded")
)

// NestedValue is either a Bytes leaf or a List of nested values.
type NestedValue interface {
	nested()
}

// Bytes is a leaf byte sequence
type Bytes []byte

// List is an ordered sequence of nested values
type List []NestedValue

func (Bytes) nested() {}
func (List) nested()  {}

// Lines is rendered text, one finished line per element
type Lines []string

// String joins the lines with a newline after each one.
func (l Lines) String() string {
	var sb strings.Builder
	for _, line := range l {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// CountBytes returns the total number of leaf bytes in v.
func CountBytes(v NestedValue) int {
	total := 0
	stack := []NestedValue{v}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n := n.(type) {
		case Bytes:
			total += len(n)
		case List:
			stack = append(stack, n...)
		}
	}
	return total
}
