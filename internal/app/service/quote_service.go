package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bridge_router/internal/app/port"
	"bridge_router/internal/domain/entity"
	"bridge_router/internal/pkg/metrics"
	"bridge_router/internal/pkg/utils"

	"github.com/google/uuid"
)

// QuoteSettings is the configuration the quote engine consumes. It is built once at startup.
type QuoteSettings struct {
	FeeBps          int64
	ReferrerAddress string
	ReferrerBps     int64
	// RefuelGasDrop maps a destination network to the native amount requested when refuel is on.
	RefuelGasDrop map[string]string
}

// quoteServiceImpl implements port.QuoteService. It holds no per-request state.
type quoteServiceImpl struct {
	registry port.TokenRegistry
	provider port.RouteProvider
	settings QuoteSettings
	logger   port.Logger
	newID    func() string
}

// NewQuoteService creates a new instance of quoteServiceImpl.
// An out of range fee rate is replaced by entity.DefaultFeeBps.
func NewQuoteService(registry port.TokenRegistry, provider port.RouteProvider, settings QuoteSettings, l port.Logger) port.QuoteService {
	if settings.FeeBps < 0 || settings.FeeBps > entity.BpsDenominator {
		l.Warn("Invalid protocol fee rate, using default", "fee_bps", settings.FeeBps, "default_bps", entity.DefaultFeeBps)
		settings.FeeBps = entity.DefaultFeeBps
	}
	s := &quoteServiceImpl{
		registry: registry,
		provider: provider,
		settings: settings,
		logger:   l,
		newID:    uuid.NewString,
	}
	l.Info("QuoteService initialized", "fee_bps", settings.FeeBps, "referrer_set", settings.ReferrerAddress != "")
	return s
}

// GetQuote implements port.QuoteService.
// Everything that can be rejected locally is rejected before the single upstream call.
func (s *quoteServiceImpl) GetQuote(ctx context.Context, req entity.QuoteRequest) (entity.QuoteResult, error) {
	policy, err := entity.ParseRoutingPolicy(string(req.Policy))
	if err != nil {
		metrics.QuotesTotal.WithLabelValues("invalid", metrics.OutcomeValidation).Inc()
		return entity.QuoteResult{}, err
	}

	quoteID := s.newID()
	result, err := s.getQuote(ctx, quoteID, policy, req)
	metrics.QuotesTotal.WithLabelValues(string(policy), outcomeOf(err)).Inc()
	if err != nil {
		if entity.IsValidationError(err) {
			s.logger.Debug("Quote request rejected", "quote_id", quoteID, "error", err)
		} else {
			s.logger.Error("Quote failed", "quote_id", quoteID, "source", req.SourceNetwork, "dest", req.DestNetwork, "error", err)
		}
		return entity.QuoteResult{}, err
	}
	return result, nil
}

func (s *quoteServiceImpl) getQuote(ctx context.Context, quoteID string, policy entity.RoutingPolicy, req entity.QuoteRequest) (entity.QuoteResult, error) {
	if strings.TrimSpace(req.SourceNetwork) == "" || strings.TrimSpace(req.DestNetwork) == "" || strings.TrimSpace(req.TokenSymbol) == "" {
		return entity.QuoteResult{}, entity.ErrMissingParameters
	}
	if req.SlippageBps != nil && (*req.SlippageBps < 0 || *req.SlippageBps > entity.MaxSlippageBps) {
		return entity.QuoteResult{}, fmt.Errorf("%w: %d bps", entity.ErrInvalidSlippage, *req.SlippageBps)
	}

	src, err := s.registry.Lookup(req.SourceNetwork, req.TokenSymbol)
	if err != nil {
		return entity.QuoteResult{}, err
	}
	dst, err := s.registry.Lookup(req.DestNetwork, req.EffectiveDestSymbol())
	if err != nil {
		return entity.QuoteResult{}, err
	}

	amountIn, err := utils.ToSmallestUnits(req.HumanAmount, src.Decimals)
	if err != nil {
		return entity.QuoteResult{}, err
	}

	params := s.buildParams(src, dst, amountIn, req)

	started := time.Now()
	resp, err := s.provider.FetchRoutes(ctx, params)
	if err != nil {
		metrics.UpstreamDuration.WithLabelValues("error").Observe(time.Since(started).Seconds())
		if !errors.Is(err, entity.ErrUpstreamCall) {
			err = fmt.Errorf("%w: %w", entity.ErrUpstreamCall, err)
		}
		return entity.QuoteResult{}, err
	}
	metrics.UpstreamDuration.WithLabelValues("ok").Observe(time.Since(started).Seconds())

	candidates, err := NormalizeRoutes(resp)
	if err != nil {
		return entity.QuoteResult{}, err
	}
	metrics.RouteCandidates.Observe(float64(len(candidates)))

	selected, err := SelectRoute(candidates, policy)
	if err != nil {
		return entity.QuoteResult{}, err
	}
	if selected.NetAmountSmallest.Value != nil {
		selected.NetAmountSmallest = entity.NewSmallestUnitAmount(selected.NetAmountSmallest.Value, dst.Decimals)
	}
	metrics.SelectedProvider.WithLabelValues(providerLabel(selected)).Inc()

	// the protocol fee is taken from the user's input, independently of the provider's economics
	fee, err := ApplyFee(amountIn, s.settings.FeeBps)
	if err != nil {
		return entity.QuoteResult{}, err
	}

	s.logger.Info("Quote served",
		"quote_id", quoteID,
		"source", src.Network,
		"dest", dst.Network,
		"token", src.Symbol,
		"amount_in", amountIn.String(),
		"policy", string(policy),
		"candidates", len(candidates),
		"provider", selected.ProviderLabel,
		"fee", fee.FeeAmount.String(),
	)

	return entity.QuoteResult{
		QuoteID:        quoteID,
		SourceToken:    src,
		DestToken:      dst,
		AmountIn:       amountIn,
		Policy:         policy,
		SelectedRoute:  selected,
		CandidateCount: len(candidates),
		Fee:            fee,
	}, nil
}

func (s *quoteServiceImpl) buildParams(src, dst entity.TokenDescriptor, amountIn entity.SmallestUnitAmount, req entity.QuoteRequest) entity.UpstreamQuoteParams {
	slippage := entity.SlippageAuto
	if req.SlippageBps != nil {
		slippage = strconv.Itoa(*req.SlippageBps)
	}

	gasDrop := "0"
	if req.Protection.Refuel {
		if v, ok := s.settings.RefuelGasDrop[dst.Network]; ok && v != "" {
			gasDrop = v
		}
	}

	return entity.UpstreamQuoteParams{
		FromToken:     src.OnChainID,
		ToToken:       dst.OnChainID,
		FromChain:     src.Network,
		ToChain:       dst.Network,
		AmountIn64:    amountIn.String(),
		Slippage:      slippage,
		GasDrop:       gasDrop,
		Referrer:      s.settings.ReferrerAddress,
		ReferrerBps:   s.settings.ReferrerBps,
		MEVProtection: req.Protection.MEV,
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case entity.IsValidationError(err):
		return metrics.OutcomeValidation
	case errors.Is(err, entity.ErrNoRoutes):
		return metrics.OutcomeNoRoutes
	default:
		return metrics.OutcomeUpstream
	}
}

func providerLabel(c entity.RouteCandidate) string {
	if c.ProviderLabel == "" {
		return "unknown"
	}
	return c.ProviderLabel
}
