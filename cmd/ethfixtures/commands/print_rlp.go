package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/ethfixtures/pkg/fixture"
	"github.com/luxfi/ethfixtures/pkg/rlpvalue"
)

// NewPrintRLPCommand creates the print-rlp command
func NewPrintRLPCommand(rt *Runtime) *cobra.Command {
	var (
		rlpFile string
		raw     bool
	)

	cmd := &cobra.Command{
		Use:   "print-rlp",
		Short: "Print an RLP file as nested C++ byte array literals",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(rlpFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", rlpFile, err)
			}
			r := fixture.NewRenderer(rt.Config.Fixture.Indent)
			out := cmd.OutOrStdout()

			if raw {
				lines, err := r.Render(fixture.Bytes(data), 0, 0)
				if err != nil {
					return err
				}
				if err := printSection(out, "Raw RLP data:", lines); err != nil {
					return err
				}
			}

			value, err := rlpvalue.Decode(data)
			if err != nil {
				return fmt.Errorf("%s: %w", rlpFile, err)
			}
			lines, err := r.Render(value, 0, 0)
			if err != nil {
				return err
			}
			return printSection(out, "Parsed RLP data:", lines)
		},
	}

	cmd.Flags().StringVar(&rlpFile, "rlp-file", "", "file holding RLP encoded data")
	cmd.Flags().BoolVar(&raw, "raw", false, "also print the undecoded bytes")
	cmd.Flags().Int("indent", fixture.DefaultIndentUnit, "spaces per nesting level")
	_ = cmd.MarkFlagRequired("rlp-file")

	return cmd
}

func printSection(w io.Writer, title string, lines fixture.Lines) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", title, lines); err != nil {
		return fmt.Errorf("failed to print: %w", err)
	}
	return nil
}
