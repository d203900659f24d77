package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/ethfixtures/pkg/rlpvalue"
)

// NewTxnsCommand creates the txns command
func NewTxnsCommand(rt *Runtime) *cobra.Command {
	var (
		blockNumber uint64
		output      string
	)

	cmd := &cobra.Command{
		Use:   "txns",
		Short: "Write the transactions of a block as an RLP list of byte strings",
		Long: `Fetches a raw block and writes its transactions as an RLP list. Typed
transactions are kept as they appear in the block; legacy transactions are
written as their own RLP encoding.`,
		Example: `  ethfixtures txns --blk-num 15415840 --output txns.bin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := rt.openSource()
			if err != nil {
				return err
			}
			defer src.Close()

			block, err := src.BlockRLP(cmd.Context(), blockNumber)
			if err != nil {
				return fmt.Errorf("failed to fetch block: %w", err)
			}
			txs, err := rlpvalue.BlockTransactions(block)
			if err != nil {
				return fmt.Errorf("block %d: %w", blockNumber, err)
			}
			encoded, err := rlpvalue.EncodeTransactions(txs)
			if err != nil {
				return fmt.Errorf("failed to encode transactions: %w", err)
			}
			if err := writeOutput(output, encoded); err != nil {
				return err
			}

			rt.Logger.Info().
				Uint64("block", blockNumber).
				Int("transactions", len(txs)).
				Str("output", output).
				Msg("Wrote transactions")
			return nil
		},
	}

	cmd.Flags().Uint64Var(&blockNumber, "blk-num", 0, "block number")
	cmd.Flags().StringVar(&output, "output", "", "output file")
	addSourceFlags(cmd)
	_ = cmd.MarkFlagRequired("blk-num")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
