package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"bridge_router/internal/app/port"
	"bridge_router/internal/app/provider"
	"bridge_router/internal/domain/entity"
	"bridge_router/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const swapNotImplemented = "Swap route not implemented yet. Please try again later."

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// QuoteResponse is the body of a successful GET /api/quote.
type QuoteResponse struct {
	Success            bool                   `json:"success"`
	QuoteID            string                 `json:"quoteId"`
	SelectedRoute      json.RawMessage        `json:"selectedRoute"`
	RawQuote           json.RawMessage        `json:"rawQuote"`
	NetAmount          string                 `json:"netAmount"`
	FeeAmount          string                 `json:"feeAmount"`
	AmountIn           string                 `json:"amountIn"`
	FeeBps             int64                  `json:"feeBps"`
	NetAmountFormatted string                 `json:"netAmountFormatted"`
	FeeAmountFormatted string                 `json:"feeAmountFormatted"`
	Routing            entity.RoutingPolicy   `json:"routing"`
	Provider           string                 `json:"provider,omitempty"`
	EstimatedSeconds   *float64               `json:"estimatedSeconds,omitempty"`
	FeeEstimateUSD     *float64               `json:"feeEstimateUsd,omitempty"`
	ExpectedAmountOut  string                 `json:"expectedAmountOut,omitempty"`
	CandidateCount     int                    `json:"candidateCount"`
	SourceToken        entity.TokenDescriptor `json:"sourceToken"`
	DestToken          entity.TokenDescriptor `json:"destToken"`
}

// TokensResponse is the body of GET /api/tokens.
type TokensResponse struct {
	Success bool                     `json:"success"`
	Tokens  []entity.TokenDescriptor `json:"tokens"`
}

// QuoteHandler serves the quote API.
type QuoteHandler struct {
	quoteService  port.QuoteService
	registry      port.TokenRegistry
	defaultSymbol string
	timeout       time.Duration
	logger        *zap.Logger
}

// NewQuoteHandler creates a new QuoteHandler. timeout bounds each quote request, zero means none.
func NewQuoteHandler(qs port.QuoteService, registry port.TokenRegistry, defaultSymbol string, timeout time.Duration, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService:  qs,
		registry:      registry,
		defaultSymbol: defaultSymbol,
		timeout:       timeout,
		logger:        logger.Named("QuoteHandler"),
	}
}

// Health answers liveness probes.
func (h *QuoteHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func firstQuery(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.Query(k)); v != "" {
			return v
		}
	}
	return ""
}

// ParseQuoteRequest maps query parameters onto a QuoteRequest.
// Only presence and syntax are checked here; the quote service validates the rest.
func ParseQuoteRequest(c *gin.Context, defaultSymbol string) (entity.QuoteRequest, error) {
	from := strings.ToLower(firstQuery(c, "fromChain", "sourceNetwork"))
	to := strings.ToLower(firstQuery(c, "toChain", "destNetwork"))
	amount := firstQuery(c, "amountIn", "amount")
	if from == "" || to == "" || amount == "" {
		return entity.QuoteRequest{}, entity.ErrMissingParameters
	}

	token := firstQuery(c, "token", "tokenSymbol")
	if token == "" {
		token = defaultSymbol
	}

	policy, err := entity.ParseRoutingPolicy(c.Query("routing"))
	if err != nil {
		return entity.QuoteRequest{}, err
	}

	req := entity.QuoteRequest{
		SourceNetwork:   from,
		DestNetwork:     to,
		TokenSymbol:     token,
		DestTokenSymbol: firstQuery(c, "destToken"),
		HumanAmount:     amount,
		Policy:          policy,
		Protection: entity.ProtectionFlags{
			MEV:    utils.ParseBoolLike(c.Query("mev")),
			Refuel: utils.ParseBoolLike(c.Query("refuel")),
		},
	}

	if raw := firstQuery(c, "slippage"); raw != "" {
		bps, err := utils.PercentToBps(raw)
		if err != nil {
			return entity.QuoteRequest{}, err
		}
		req.SlippageBps = &bps
	}
	return req, nil
}

// GetQuote handles GET /api/quote.
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	req, err := ParseQuoteRequest(c, h.defaultSymbol)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	res, err := h.quoteService.GetQuote(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, NewQuoteResponse(res))
}

// NewQuoteResponse renders a quote result for the wire.
func NewQuoteResponse(res entity.QuoteResult) QuoteResponse {
	out := QuoteResponse{
		Success:            true,
		QuoteID:            res.QuoteID,
		SelectedRoute:      res.SelectedRoute.Raw,
		RawQuote:           res.SelectedRoute.Raw,
		NetAmount:          res.Fee.NetAmount.String(),
		FeeAmount:          res.Fee.FeeAmount.String(),
		AmountIn:           res.AmountIn.String(),
		FeeBps:             res.Fee.FeeBps,
		NetAmountFormatted: utils.ToHuman(res.Fee.NetAmount),
		FeeAmountFormatted: utils.ToHuman(res.Fee.FeeAmount),
		Routing:            res.Policy,
		Provider:           res.SelectedRoute.ProviderLabel,
		CandidateCount:     res.CandidateCount,
		SourceToken:        res.SourceToken,
		DestToken:          res.DestToken,
	}
	if res.SelectedRoute.HasTimeEstimate() {
		v := res.SelectedRoute.EstimatedSeconds
		out.EstimatedSeconds = &v
	}
	if res.SelectedRoute.HasFeeEstimate() {
		v := res.SelectedRoute.FeeEstimateUSD
		out.FeeEstimateUSD = &v
	}
	if res.SelectedRoute.NetAmountSmallest.Value != nil {
		out.ExpectedAmountOut = res.SelectedRoute.NetAmountSmallest.String()
	}
	return out
}

// Swap handles POST /api/swap, which is not available yet.
func (h *QuoteHandler) Swap(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, errorResponse{Success: false, Error: swapNotImplemented})
}

// ListTokens handles GET /api/tokens[?network=].
func (h *QuoteHandler) ListTokens(c *gin.Context) {
	var tokens []entity.TokenDescriptor
	if network := c.Query("network"); network != "" {
		tokens = provider.TokensForNetwork(h.registry, network)
	} else {
		tokens = h.registry.All()
	}
	if tokens == nil {
		tokens = []entity.TokenDescriptor{}
	}
	c.JSON(http.StatusOK, TokensResponse{Success: true, Tokens: tokens})
}

// fail maps an error to a status and a public message. Details only go to the log.
func (h *QuoteHandler) fail(c *gin.Context, err error) {
	status := http.StatusBadGateway
	if entity.IsValidationError(err) {
		status = http.StatusBadRequest
	} else {
		h.logger.Error("Quote request failed", zap.String("request_id", c.GetString(requestIDKey)), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, errorResponse{Success: false, Error: entity.PublicMessage(err)})
}
