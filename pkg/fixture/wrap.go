package fixture

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotWrapped is returned when unwrapping text that lacks the expected header or footer.
var ErrNotWrapped = errors.New("lines are not wrapped as expected")

// HexList renders b as rows of byte literals, perLine per row, followed by a
// byte count comment.
func HexList(b []byte, perLine int) Lines {
	if perLine <= 0 {
		perLine = BytesPerRow
	}

	var out Lines
	var row strings.Builder
	for i, x := range b {
		row.WriteString(Token(x))
		row.WriteString(", ")
		if (i+1)%perLine == 0 {
			out = append(out, strings.TrimSpace(row.String()))
			row.Reset()
		}
	}
	if row.Len() > 0 {
		out = append(out, strings.TrimSpace(row.String()))
	}

	return append(out, fmt.Sprintf("// %d bytes", len(b)))
}

// ByteRows renders b as rows of lowercase byte literals, perLine per row,
// without a count comment.
func ByteRows(b []byte, perLine int) Lines {
	if perLine <= 0 {
		perLine = SampleBytesPerRow
	}

	var out Lines
	var row strings.Builder
	for i, x := range b {
		fmt.Fprintf(&row, "0x%02xU, ", x)
		if (i+1)%perLine == 0 {
			out = append(out, strings.TrimSpace(row.String()))
			row.Reset()
		}
	}
	if row.Len() > 0 {
		out = append(out, strings.TrimSpace(row.String()))
	}
	return out
}

// BraceScope surrounds lines with braces and indents them with a tab.
func BraceScope(lines Lines) Lines {
	out := make(Lines, 0, len(lines)+2)
	out = append(out, "{")
	for _, line := range lines {
		out = append(out, "\t"+line)
	}
	return append(out, "}")
}

// ArrayLiteral turns a grouped block into a typed array initializer:
// typeName( ... ),
func ArrayLiteral(lines Lines, typeName string) Lines {
	if len(lines) == 0 {
		return Lines{typeName + "(),"}
	}
	out := append(Lines(nil), lines...)
	out[0] = typeName + "(" + out[0]
	out[len(out)-1] += "),"
	return out
}

// Declaration wraps lines in a brace scope declared as a static const variable.
func Declaration(lines Lines, typeName, varName string) Lines {
	out := BraceScope(lines)
	out[0] = declHeader(typeName, varName) + out[0]
	out[len(out)-1] += ";"
	return out
}

// Accessor wraps lines in a function body that returns varName.
func Accessor(lines Lines, typeName, funcName, varName string) Lines {
	out := make(Lines, 0, len(lines)+4)
	out = append(out, accessorHeader(typeName, funcName))
	body := BraceScope(lines)
	out = append(out, body[:len(body)-1]...)
	return append(out, "\treturn "+varName+";", "}")
}

// UnwrapDeclaration reverses Declaration.
func UnwrapDeclaration(lines Lines, typeName, varName string) (Lines, error) {
	header := declHeader(typeName, varName)
	if len(lines) < 2 || !strings.HasPrefix(lines[0], header) ||
		!strings.HasSuffix(lines[len(lines)-1], ";") {
		return nil, fmt.Errorf("%w: declaration of %s", ErrNotWrapped, varName)
	}
	scoped := append(Lines(nil), lines...)
	scoped[0] = strings.TrimPrefix(scoped[0], header)
	scoped[len(scoped)-1] = strings.TrimSuffix(scoped[len(scoped)-1], ";")
	return unbrace(scoped)
}

// UnwrapAccessor reverses Accessor.
func UnwrapAccessor(lines Lines, typeName, funcName, varName string) (Lines, error) {
	if len(lines) < 4 || lines[0] != accessorHeader(typeName, funcName) ||
		lines[len(lines)-2] != "\treturn "+varName+";" {
		return nil, fmt.Errorf("%w: accessor %s", ErrNotWrapped, funcName)
	}
	scoped := append(Lines(nil), lines[1:len(lines)-2]...)
	return unbrace(append(scoped, lines[len(lines)-1]))
}

func unbrace(lines Lines) (Lines, error) {
	if len(lines) < 2 || lines[0] != "{" || lines[len(lines)-1] != "}" {
		return nil, fmt.Errorf("%w: brace scope", ErrNotWrapped)
	}
	inner := lines[1 : len(lines)-1]
	out := make(Lines, 0, len(inner))
	for _, line := range inner {
		if !strings.HasPrefix(line, "\t") {
			return nil, fmt.Errorf("%w: unindented line %q", ErrNotWrapped, line)
		}
		out = append(out, line[1:])
	}
	return out, nil
}

func declHeader(typeName, varName string) string {
	return fmt.Sprintf("static const %s %s = ", typeName, varName)
}

func accessorHeader(typeName, funcName string) string {
	return fmt.Sprintf("const %s& %s()", typeName, funcName)
}
