package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/ethfixtures/pkg/fixture"
	"github.com/luxfi/ethfixtures/pkg/source"
)

// NewHistHeadersCommand creates the hist-headers command
func NewHistHeadersCommand(rt *Runtime) *cobra.Command {
	var (
		from, to uint64
		output   string
		varName  string
		funcName string
	)

	cmd := &cobra.Command{
		Use:   "hist-headers",
		Short: "Generate a C++ fixture of historical headers [from, to)",
		Example: `  ethfixtures hist-headers --from 15209997 --to 15210007 --output EthHistHdr_15209997_15210007.cpp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from >= to {
				return fmt.Errorf("empty block range [%d, %d)", from, to)
			}

			src, err := rt.openSource()
			if err != nil {
				return err
			}
			defer src.Close()

			if db, ok := src.(*source.ChainDB); ok {
				if head, err := db.HeadNumber(); err == nil && to > head+1 {
					return fmt.Errorf("block range [%d, %d) is beyond head %d of %s", from, to, head, db.Path())
				}
			}

			file := fixture.NewHeaderFile(from, to)
			file.Namespace = rt.Config.Fixture.Namespace
			if varName != "" {
				file.VarName = varName
			}
			if funcName != "" {
				file.FuncName = funcName
			}

			for n := from; n < to; n++ {
				raw, err := src.HeaderRLP(cmd.Context(), n)
				if err != nil {
					return fmt.Errorf("failed to fetch header %d: %w", n, err)
				}
				rt.Logger.Debug().Uint64("block", n).Int("bytes", len(raw)).Msg("Fetched header")
				file.AddHeader(n, raw)
			}

			if err := file.WriteFile(output); err != nil {
				return err
			}

			rt.Logger.Info().
				Uint64("from", from).
				Uint64("to", to).
				Str("output", output).
				Msg("Wrote header fixture")
			return nil
		},
	}

	cmd.Flags().Uint64Var(&from, "from", 0, "first block number")
	cmd.Flags().Uint64Var(&to, "to", 0, "block number after the last one")
	cmd.Flags().StringVar(&output, "output", "", "output .cpp file")
	cmd.Flags().StringVar(&varName, "var-name", "", "name of the table variable (default ethHistHdr_<from>_<to>)")
	cmd.Flags().StringVar(&funcName, "func-name", "", "name of the accessor (default GetEthHistHdr_<from>_<to>)")
	cmd.Flags().String("namespace", fixture.DefaultNamespace, "C++ namespace of the fixture")
	addSourceFlags(cmd)
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
