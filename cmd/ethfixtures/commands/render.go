package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/ethfixtures/pkg/fixture"
	"github.com/luxfi/ethfixtures/pkg/rlpvalue"
)

// NewRenderCommand creates the render command
func NewRenderCommand(rt *Runtime) *cobra.Command {
	var (
		input    string
		output   string
		format   string
		wrap     string
		perLine  int
		typeName string
		varName  string
		funcName string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a binary file as a C++ byte array literal",
		Long: `Renders a binary file either as nested literals of its RLP structure
(--format nested) or as a flat list of bytes (--format hex). The result can
be wrapped as an array literal, a static declaration or an accessor function.`,
		Example: `  ethfixtures render --input header.bin --format hex --wrap accessor \
    --var-name hdr --func-name GetHdr --output hdr.cpp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", input, err)
			}

			var lines fixture.Lines
			switch format {
			case "nested":
				value, err := rlpvalue.Decode(data)
				if err != nil {
					return fmt.Errorf("%s: %w", input, err)
				}
				if lines, err = fixture.NewRenderer(rt.Config.Fixture.Indent).Render(value, 0, 0); err != nil {
					return err
				}
			case "hex":
				lines = fixture.HexList(data, perLine)
			default:
				return fmt.Errorf("unknown format %q (nested or hex)", format)
			}

			switch wrap {
			case "none":
			case "array":
				lines = fixture.ArrayLiteral(fixture.BraceScope(lines), typeName)
			case "declaration":
				lines = fixture.Declaration(lines, typeName, varName)
			case "accessor":
				lines = fixture.Accessor(fixture.Declaration(lines, typeName, varName), typeName, funcName, varName)
			default:
				return fmt.Errorf("unknown wrap %q (none, array, declaration or accessor)", wrap)
			}

			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), lines)
				return err
			}
			if err := writeOutput(output, []byte(lines.String())); err != nil {
				return err
			}
			rt.Logger.Info().Str("input", input).Str("output", output).Int("lines", len(lines)).Msg("Rendered")
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "input file")
	cmd.Flags().StringVar(&output, "output", "", "output file (stdout when empty)")
	cmd.Flags().StringVar(&format, "format", "nested", "nested or hex")
	cmd.Flags().StringVar(&wrap, "wrap", "none", "none, array, declaration or accessor")
	cmd.Flags().IntVar(&perLine, "per-line", fixture.BytesPerRow, "bytes per row with --format hex")
	cmd.Flags().StringVar(&typeName, "type", fixture.ByteVectorType, "C++ type used by the wrap")
	cmd.Flags().StringVar(&varName, "var-name", "data", "variable name used by the wrap")
	cmd.Flags().StringVar(&funcName, "func-name", "GetData", "accessor name used by --wrap accessor")
	cmd.Flags().Int("indent", fixture.DefaultIndentUnit, "spaces per nesting level")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
