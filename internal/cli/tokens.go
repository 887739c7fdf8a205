package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"bridge_router/internal/domain/entity"
	"bridge_router/internal/infrastructure/restapi"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTokensCommand(root *rootOptions) *cobra.Command {
	var network, symbol string

	cmd := &cobra.Command{
		Use:     "tokens",
		Aliases: []string{"list-tokens", "ls"},
		Short:   "List whitelisted tokens",
		Long: `List the tokens the router accepts, grouped by network.

Examples:
  bridgectl tokens
  bridgectl tokens --network solana
  bridgectl tokens --symbol USDT`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := root.bootstrap(cmd.Context())
			if err != nil {
				return err
			}

			tokens := filterTokens(container.Registry.All(), network, symbol)
			if root.json {
				return writeJSON(cmd.OutOrStdout(), restapi.TokensResponse{Success: true, Tokens: tokens})
			}
			renderTokens(cmd.OutOrStdout(), tokens)
			return nil
		},
	}

	cmd.Flags().StringVar(&network, "network", "", "Filter by network")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Filter by token symbol")
	return cmd
}

func filterTokens(tokens []entity.TokenDescriptor, network, symbol string) []entity.TokenDescriptor {
	out := make([]entity.TokenDescriptor, 0, len(tokens))
	for _, t := range tokens {
		if network != "" && !strings.EqualFold(t.Network, strings.TrimSpace(network)) {
			continue
		}
		if symbol != "" && !strings.Contains(t.Symbol, strings.ToUpper(strings.TrimSpace(symbol))) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func renderTokens(w io.Writer, tokens []entity.TokenDescriptor) {
	if len(tokens) == 0 {
		fmt.Fprintln(w, "\nNo tokens found matching the criteria.")
		return
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 80))
	color.New(color.FgGreen).Fprintln(w, "                         WHITELISTED TOKENS")
	fmt.Fprintln(w, strings.Repeat("=", 80))

	byNetwork := make(map[string][]entity.TokenDescriptor)
	for _, t := range tokens {
		byNetwork[t.Network] = append(byNetwork[t.Network], t)
	}
	networks := make([]string, 0, len(byNetwork))
	for n := range byNetwork {
		networks = append(networks, n)
	}
	sort.Strings(networks)

	for _, n := range networks {
		color.New(color.FgCyan).Fprintf(w, "\n%s\n", strings.ToUpper(n))
		fmt.Fprintln(w, strings.Repeat("-", 80))
		for _, t := range byNetwork[n] {
			fmt.Fprintf(w, "  %-10s  %2d decimals  %s\n", color.YellowString(t.Symbol), t.Decimals, color.HiBlackString(t.OnChainID))
		}
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 80))
	fmt.Fprintf(w, "\nTotal: %d tokens across %d networks\n\n", len(tokens), len(networks))
}
