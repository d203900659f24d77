package fixture

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenRe = regexp.MustCompile(`0x([0-9A-F]{2})U`)

func seq(n int) Bytes {
	b := make(Bytes, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func tokens(t *testing.T, lines Lines) []byte {
	t.Helper()
	var out []byte
	for _, line := range lines {
		for _, m := range tokenRe.FindAllStringSubmatch(line, -1) {
			v, err := strconv.ParseUint(m[1], 16, 8)
			require.NoError(t, err)
			out = append(out, byte(v))
		}
	}
	return out
}

func TestRenderLeafWrapBoundary(t *testing.T) {
	lines, err := Render(seq(18), 4, 0, 0)
	require.NoError(t, err)

	require.Len(t, lines, 5)
	assert.Equal(t, "{", lines[0])
	assert.Equal(t, "    0x00U, 0x01U, 0x02U, 0x03U, 0x04U, 0x05U, 0x06U, 0x07U, "+
		"0x08U, 0x09U, 0x0AU, 0x0BU, 0x0CU, 0x0DU, 0x0EU, 0x0FU,", lines[1])
	assert.Equal(t, "    0x10U, 0x11U,", lines[2])
	assert.Equal(t, "},", lines[3])
	assert.Equal(t, "// 18 bytes", lines[4])
}

func TestRenderLeafExactRow(t *testing.T) {
	// the 16th byte being the last one never starts a new row
	lines, err := Render(seq(16), 4, 0, 0)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, 16, strings.Count(lines[1], "U,"))

	lines, err = Render(seq(32), 4, 0, 0)
	require.NoError(t, err)
	assert.Len(t, lines, 5)
}

func TestRenderEmptyLeaf(t *testing.T) {
	lines, err := Render(Bytes{}, 4, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, Lines{"{", "},"}, lines)

	lines, err = Render(Bytes(nil), 2, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, Lines{"      {", "      },"}, lines)
}

func TestRenderLeafRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 15, 16, 17, 31, 32, 33, 100, 255, 256, 1000} {
		b := make(Bytes, n)
		for i := range b {
			b[i] = byte(i*37 + 11)
		}

		lines, err := Render(b, 4, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, []byte(b), tokens(t, lines), "length %d", n)

		// rows between the braces, minus one, is the number of wraps
		rows := len(lines) - 3
		assert.Equal(t, (n-1)/BytesPerRow, rows-1, "length %d", n)
	}
}

func TestRenderList(t *testing.T) {
	v := List{Bytes{0xAA}, Bytes{0xBB, 0xCC}}

	lines, err := Render(v, 4, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, Lines{
		"{",
		"    // 01.",
		"    {",
		"        0xAAU,",
		"    },",
		"    // 1 bytes",
		"    // 02.",
		"    {",
		"        0xBBU, 0xCCU,",
		"    },",
		"    // 2 bytes",
		"},",
	}, lines)
}

func TestRenderCompoundIndex(t *testing.T) {
	v := List{
		Bytes{0x01},
		List{Bytes{}, List{}},
	}

	lines, err := Render(v, 2, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, Lines{
		"{",
		"  // 01.",
		"  {",
		"    0x01U,",
		"  },",
		"  // 1 bytes",
		"  // 02.",
		"  {",
		"    // 02.01.",
		"    {",
		"    },",
		"    // 02.02.",
		"    {",
		"    },",
		"  },",
		"},",
	}, lines)
}

func TestRenderRootSiblingIndex(t *testing.T) {
	lines, err := Render(List{Bytes{}}, 4, 0, 7)
	require.NoError(t, err)
	assert.Equal(t, "    // 07.01.", lines[1])
}

func TestRenderIndentationMatchesDepth(t *testing.T) {
	v := List{
		Bytes{1, 2, 3},
		List{
			seq(40),
			List{Bytes{9}},
		},
	}

	const unit = 3
	lines, err := Render(v, unit, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, CountBytes(v), len(tokens(t, lines)))

	// brace lines of the innermost leaf sit at depth 3
	innermost := strings.Repeat(" ", 3*unit) + "{"
	assert.Contains(t, lines, innermost)
	for _, line := range lines {
		indent := len(line) - len(strings.TrimLeft(line, " "))
		assert.Zero(t, indent%unit, "line %q", line)
	}
}

func TestRenderDeterministic(t *testing.T) {
	v := List{seq(20), List{Bytes{0xFF}}, Bytes{}}
	a, err := Render(v, 4, 0, 0)
	require.NoError(t, err)
	b, err := Render(v, 4, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

type bogus struct{}

func (bogus) nested() {}

func TestRenderErrors(t *testing.T) {
	_, err := Render(nil, 4, 0, 0)
	assert.ErrorIs(t, err, ErrUnsupportedValueKind)

	_, err = Render(List{Bytes{}, nil}, 4, 0, 0)
	assert.ErrorIs(t, err, ErrUnsupportedValueKind)

	_, err = Render(List{bogus{}}, 4, 0, 0)
	assert.ErrorIs(t, err, ErrUnsupportedValueKind)

	_, err = Render(Bytes{}, 0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidIndent)

	_, err = Render(Bytes{}, 4, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidIndent)
}

func TestRenderDepthLimit(t *testing.T) {
	var v NestedValue = Bytes{}
	for i := 0; i < 10; i++ {
		v = List{v}
	}

	r := &Renderer{IndentUnit: 1, MaxDepth: 5}
	_, err := r.Render(v, 0, 0)
	assert.ErrorIs(t, err, ErrDepthExceeded)

	r.MaxDepth = 10
	_, err = r.Render(v, 0, 0)
	assert.NoError(t, err)
}

func TestRenderDeepNesting(t *testing.T) {
	var v NestedValue = Bytes{0x42}
	for i := 0; i < 1000; i++ {
		v = List{v}
	}

	lines, err := Render(v, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x42}, tokens(t, lines))
}

func TestCountBytes(t *testing.T) {
	assert.Equal(t, 0, CountBytes(List{}))
	assert.Equal(t, 6, CountBytes(List{Bytes{1, 2}, List{Bytes{3}, Bytes{4, 5, 6}}}))
}
