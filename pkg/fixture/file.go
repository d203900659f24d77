package fixture

import (
	"fmt"
	"os"
)

// Default C++ names used by generated header fixtures
const (
	DefaultNamespace = "EclipseMonitor_Test"
	ByteVectorType   = "std::vector<uint8_t>"
	ByteTableType    = "std::vector<std::vector<uint8_t> >"
)

// Entry is one labelled byte sequence of a fixture table.
type Entry struct {
	Label string
	Data  []byte
}

// File describes a C++ source file exposing a table of byte vectors
// through an accessor function.
type File struct {
	Namespace string
	Includes  []string
	VarName   string
	FuncName  string
	Entries   []Entry
}

// NewHeaderFile returns the layout for historical headers [from, to).
func NewHeaderFile(from, to uint64) *File {
	return &File{
		Namespace: DefaultNamespace,
		Includes:  []string{"cstdint", "vector"},
		VarName:   fmt.Sprintf("ethHistHdr_%d_%d", from, to),
		FuncName:  fmt.Sprintf("GetEthHistHdr_%d_%d", from, to),
	}
}

// AddHeader appends the raw RLP of header number n.
func (f *File) AddHeader(n uint64, raw []byte) {
	f.Entries = append(f.Entries, Entry{Label: fmt.Sprintf("Header %d", n), Data: raw})
}

// Body renders the entries, wrapped in the declaration and accessor.
func (f *File) Body() Lines {
	var table Lines
	for _, e := range f.Entries {
		blk := ArrayLiteral(BraceScope(HexList(e.Data, BytesPerRow)), ByteVectorType)
		table = append(table, "// "+e.Label)
		table = append(table, blk...)
	}

	return Accessor(Declaration(table, ByteTableType, f.VarName), ByteTableType, f.FuncName, f.VarName)
}

// Lines renders the whole file.
func (f *File) Lines() Lines {
	out := Lines{""}
	for _, inc := range f.Includes {
		out = append(out, fmt.Sprintf("#include <%s>", inc))
	}
	out = append(out, "", "namespace "+f.Namespace, "{")
	out = append(out, f.Body()...)
	return append(out, "", "} // namespace "+f.Namespace)
}

// WriteFile writes the rendered file to path.
func (f *File) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(f.Lines().String()), 0644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}
