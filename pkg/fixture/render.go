package fixture

import (
	"fmt"
	"strings"
)

const (
	// DefaultIndentUnit is the number of spaces per nesting level
	DefaultIndentUnit = 4
	// DefaultMaxDepth bounds the nesting depth Render accepts
	DefaultMaxDepth = 1024
	// BytesPerRow is the number of byte literals on one row
	BytesPerRow = 16
	// SampleBytesPerRow is the row width of ByteRows
	SampleBytesPerRow = 32
)

// Renderer turns a NestedValue into an indented brace-initializer block.
type Renderer struct {
	IndentUnit int
	MaxDepth   int
}

// NewRenderer returns a renderer with the given indent unit and the default depth limit.
func NewRenderer(indentUnit int) *Renderer {
	return &Renderer{IndentUnit: indentUnit, MaxDepth: DefaultMaxDepth}
}

// Render renders value with the given indent unit, starting at nesting level
// indentFactor. siblingIndex is the 1-based position of value among its
// siblings, or 0 for a root value.
func Render(value NestedValue, indentUnit, indentFactor, siblingIndex int) (Lines, error) {
	return NewRenderer(indentUnit).Render(value, indentFactor, siblingIndex)
}

// frame is one pending step of the depth-first walk. A frame either
// renders node or, when node is nil, emits line as is.
type frame struct {
	node    NestedValue
	depth   int
	sibling int
	line    string
}

// Render walks value depth first with an explicit stack.
func (r *Renderer) Render(value NestedValue, indentFactor, siblingIndex int) (Lines, error) {
	if r.IndentUnit <= 0 || indentFactor < 0 || siblingIndex < 0 {
		return nil, fmt.Errorf("%w: unit=%d factor=%d sibling=%d",
			ErrInvalidIndent, r.IndentUnit, indentFactor, siblingIndex)
	}
	if value == nil {
		return nil, fmt.Errorf("%w: nil root", ErrUnsupportedValueKind)
	}

	maxDepth := r.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var out Lines
	stack := []frame{{node: value, depth: indentFactor, sibling: siblingIndex}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node == nil {
			out = append(out, f.line)
			continue
		}
		if f.depth-indentFactor > maxDepth {
			return nil, fmt.Errorf("%w: depth %d", ErrDepthExceeded, f.depth-indentFactor)
		}

		indent := r.indent(f.depth)
		switch n := f.node.(type) {
		case Bytes:
			out = append(out, r.leaf(n, f.depth)...)

		case List:
			out = append(out, indent+"{")

			childIndent := r.indent(f.depth + 1)
			prefix := ""
			if f.sibling > 0 {
				prefix = fmt.Sprintf("%02d.", f.sibling)
			}

			// Children are pushed in reverse so they pop in order, each
			// preceded by its index comment.
			stack = append(stack, frame{line: indent + "},"})
			for i := len(n) - 1; i >= 0; i-- {
				if n[i] == nil {
					return nil, fmt.Errorf("%w: nil item %d at depth %d",
						ErrUnsupportedValueKind, i+1, f.depth+1)
				}
				stack = append(stack,
					frame{node: n[i], depth: f.depth + 1, sibling: i + 1},
					frame{line: fmt.Sprintf("%s// %s%02d.", childIndent, prefix, i+1)},
				)
			}

		default:
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedValueKind, f.node)
		}
	}

	return out, nil
}

// leaf renders a byte block. A new row starts after every 16th byte unless
// that byte is the last one.
func (r *Renderer) leaf(b Bytes, depth int) Lines {
	indent := r.indent(depth)
	if len(b) == 0 {
		return Lines{indent + "{", indent + "},"}
	}

	rowIndent := r.indent(depth + 1)
	out := Lines{indent + "{"}

	var row strings.Builder
	for i, x := range b {
		row.WriteString(Token(x))
		row.WriteString(", ")
		if i%BytesPerRow == BytesPerRow-1 && i != len(b)-1 {
			out = append(out, rowIndent+strings.TrimRight(row.String(), " "))
			row.Reset()
		}
	}
	out = append(out, rowIndent+strings.TrimRight(row.String(), " "))

	return append(out, indent+"},", fmt.Sprintf("%s// %d bytes", indent, len(b)))
}

func (r *Renderer) indent(depth int) string {
	return strings.Repeat(" ", depth*r.IndentUnit)
}

// Token formats one byte as an unsigned C literal, e.g. 0x0AU.
func Token(b byte) string {
	return fmt.Sprintf("0x%02XU", b)
}
