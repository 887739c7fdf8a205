package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"bridge_router/internal/domain/entity"
	"bridge_router/internal/infrastructure/restapi"
	"bridge_router/internal/pkg/logger"
	"bridge_router/internal/pkg/utils"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type quoteOptions struct {
	from      string
	to        string
	token     string
	destToken string
	routing   string
	slippage  string
	mev       bool
	refuel    bool
}

func newQuoteCommand(root *rootOptions) *cobra.Command {
	q := &quoteOptions{}

	cmd := &cobra.Command{
		Use:   "quote <amount>",
		Short: "Get a quote for a cross-chain transfer",
		Long: `Get the best route for moving <amount> of a stablecoin between two networks.

The amount is in human units (e.g. 100 or 0.5). Without --routing the provider's
first route is used; cheapest, fastest and safest pick by fee, time or provider order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, root, q, args[0])
		},
	}

	cmd.Flags().StringVar(&q.from, "from", "", "Source network (e.g. solana)")
	cmd.Flags().StringVar(&q.to, "to", "", "Destination network (e.g. ethereum)")
	cmd.Flags().StringVar(&q.token, "token", "", "Token symbol, defaults to the configured default token")
	cmd.Flags().StringVar(&q.destToken, "dest-token", "", "Destination token symbol, defaults to --token")
	cmd.Flags().StringVar(&q.routing, "routing", "", "Routing policy: default, cheapest, fastest or safest")
	cmd.Flags().StringVar(&q.slippage, "slippage", "", "Max slippage in percent (0-50), provider chooses when unset")
	cmd.Flags().BoolVar(&q.mev, "mev", false, "Request MEV protection")
	cmd.Flags().BoolVar(&q.refuel, "refuel", false, "Request native gas on the destination chain")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// buildRequest validates what can be checked without configuration.
func (q *quoteOptions) buildRequest(amount, defaultSymbol string) (entity.QuoteRequest, error) {
	policy, err := entity.ParseRoutingPolicy(q.routing)
	if err != nil {
		return entity.QuoteRequest{}, err
	}

	token := strings.TrimSpace(q.token)
	if token == "" {
		token = defaultSymbol
	}

	req := entity.QuoteRequest{
		SourceNetwork:   strings.ToLower(strings.TrimSpace(q.from)),
		DestNetwork:     strings.ToLower(strings.TrimSpace(q.to)),
		TokenSymbol:     token,
		DestTokenSymbol: strings.TrimSpace(q.destToken),
		HumanAmount:     strings.TrimSpace(amount),
		Policy:          policy,
		Protection:      entity.ProtectionFlags{MEV: q.mev, Refuel: q.refuel},
	}
	if q.slippage != "" {
		bps, err := utils.PercentToBps(q.slippage)
		if err != nil {
			return entity.QuoteRequest{}, err
		}
		req.SlippageBps = &bps
	}
	return req, nil
}

func runQuote(cmd *cobra.Command, root *rootOptions, q *quoteOptions, amount string) error {
	// Fail fast on bad flags before any config or network work.
	if _, err := q.buildRequest(amount, ""); err != nil {
		return err
	}

	container, err := root.bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer logger.Sync()

	req, err := q.buildRequest(amount, container.Config.Defaults.TokenSymbol)
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	if !root.json {
		s.Suffix = fmt.Sprintf(" Fetching routes %s -> %s...", req.SourceNetwork, req.DestNetwork)
		s.Start()
	}

	res, err := container.QuoteService.GetQuote(cmd.Context(), req)
	if !root.json {
		s.Stop()
	}
	if err != nil {
		return err
	}

	if root.json {
		return writeJSON(cmd.OutOrStdout(), restapi.NewQuoteResponse(res))
	}
	renderQuote(cmd.OutOrStdout(), res)
	return nil
}

func renderQuote(w io.Writer, res entity.QuoteResult) {
	src, dst := res.SourceToken, res.DestToken
	title := color.New(color.FgGreen, color.Bold)
	label := color.New(color.FgCyan)

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 70))
	title.Fprintf(w, "  QUOTE %s\n", res.QuoteID)
	fmt.Fprintln(w, strings.Repeat("=", 70))

	row := func(name, value string) {
		label.Fprintf(w, "  %-14s", name)
		fmt.Fprintln(w, value)
	}

	provider := res.SelectedRoute.ProviderLabel
	if provider == "" {
		provider = "unknown"
	}
	row("Route:", fmt.Sprintf("%s (%s, %d candidates)", color.YellowString(provider), res.Policy, res.CandidateCount))
	row("You send:", fmt.Sprintf("%s %s on %s", utils.ToHuman(res.AmountIn), src.Symbol, src.Network))
	row("Protocol fee:", fmt.Sprintf("%s %s (%d bps)", utils.ToHuman(res.Fee.FeeAmount), src.Symbol, res.Fee.FeeBps))
	row("Net amount:", fmt.Sprintf("%s %s", utils.ToHuman(res.Fee.NetAmount), src.Symbol))
	if res.SelectedRoute.NetAmountSmallest.Value != nil {
		row("Expected out:", fmt.Sprintf("%s %s on %s", utils.ToHuman(res.SelectedRoute.NetAmountSmallest), dst.Symbol, dst.Network))
	}
	if res.SelectedRoute.HasTimeEstimate() {
		eta := time.Duration(res.SelectedRoute.EstimatedSeconds * float64(time.Second)).Round(time.Second)
		row("Est. time:", eta.String())
	}
	if res.SelectedRoute.HasFeeEstimate() {
		row("Est. fee:", fmt.Sprintf("$%.2f", res.SelectedRoute.FeeEstimateUSD))
	}
	fmt.Fprintln(w, strings.Repeat("=", 70))
}
