package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/luxfi/ethfixtures/pkg/config"
	"github.com/luxfi/ethfixtures/pkg/logging"
	"github.com/luxfi/ethfixtures/pkg/source"
)

// Runtime carries the resolved configuration and logger to the commands.
// It is filled in before any subcommand runs.
type Runtime struct {
	ConfigPath string
	Config     *config.Config
	Logger     zerolog.Logger
}

// NewRootCommand creates the ethfixtures root command with all subcommands
func NewRootCommand(version string) *cobra.Command {
	rt := &Runtime{Logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "ethfixtures",
		Short: "Generate C++ test fixtures from Ethereum headers and blocks",
		Long: `ethfixtures fetches historical block headers and transactions from an
Ethereum node (or its chain database on disk) and renders them as literal
byte arrays for use in C++ test suites.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rt.ConfigPath, cmd.Flags())
			if err != nil {
				return err
			}
			rt.Config = cfg
			rt.Logger = logging.New(cfg.Logging, cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&rt.ConfigPath, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console or json)")

	rootCmd.AddCommand(
		NewHeaderCommand(rt),
		NewTxnsCommand(rt),
		NewHistHeadersCommand(rt),
		NewPrintRLPCommand(rt),
		NewRenderCommand(rt),
		NewABISamplesCommand(rt),
	)

	return rootCmd
}

// addSourceFlags registers the flags selecting where headers and blocks
// are read from.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("geth-addr", "localhost", "address of the geth node")
	cmd.Flags().Int("geth-port", 8545, "HTTP RPC port of the geth node")
	cmd.Flags().Duration("timeout", source.DefaultTimeout, "timeout of a single RPC call")
	cmd.Flags().String("chaindb", "", "read from this chain database instead of a node")
	cmd.Flags().String("db-backend", "", "chain database backend (pebble or leveldb, detected when empty)")
	cmd.Flags().String("ancient", "", "freezer directory of the chain database (default <chaindb>/ancient)")
}

// openSource opens the chain database when one is configured and the
// node RPC client otherwise.
func (rt *Runtime) openSource() (source.Source, error) {
	cfg := rt.Config
	if cfg.ChainDB.Path != "" {
		return source.OpenChainDB(cfg.ChainDB.Path, source.ChainDBOptions{
			Backend: source.Backend(cfg.ChainDB.Backend),
			Ancient: cfg.ChainDB.Ancient,
		}, rt.Logger)
	}
	return source.NewNodeClient(source.Endpoint(cfg.Node.Host, cfg.Node.Port), cfg.Node.Timeout, rt.Logger)
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
