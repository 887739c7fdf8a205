package cli

import (
	"context"
	"io"

	"bridge_router/internal/app"
	"bridge_router/internal/infrastructure/configloader"
	"bridge_router/internal/pkg/logger"
	"bridge_router/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const version = "0.3.0"

type rootOptions struct {
	configPath string
	verbose    bool
	json       bool
}

// NewRootCommand builds the bridgectl command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "bridgectl",
		Short: "Quote cross-chain stablecoin transfers from the command line",
		Long: `bridgectl runs the bridge router quote engine locally. It loads the same
configuration as the HTTP server, calls the route provider once and prints the
selected route together with the protocol fee.

Examples:
  bridgectl quote 100 --from solana --to ethereum
  bridgectl quote 2500 --from bsc --to base --token USDT --routing fastest
  bridgectl tokens --network solana`,
		Version:      version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", utils.GetEnv("CONFIG_PATH", configloader.DefaultPath), "Path to the YAML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")
	root.PersistentFlags().BoolVarP(&opts.json, "json", "j", false, "Output in JSON format")

	root.AddCommand(newQuoteCommand(opts), newTokensCommand(opts))
	return root
}

// bootstrap loads configuration and wires the quote engine. Logs stay quiet unless --verbose.
func (o *rootOptions) bootstrap(ctx context.Context) (*app.Container, error) {
	level := "error"
	if o.verbose {
		level = "debug"
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	cfg, err := configloader.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	zl := logger.InitSlog(level)
	return app.NewContainer(ctx, cfg, zl)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
