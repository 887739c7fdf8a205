package client

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bridge_router/internal/domain/entity"
	wire "bridge_router/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxLoggedBody = 512

// MayanClient calls the Mayan price API. It implements port.RouteProvider.
type MayanClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a MayanClient.
type Option func(*MayanClient)

// WithHTTPClient replaces the underlying fasthttp client.
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *MayanClient) { c.client = hc }
}

// NewMayanClient creates a client for baseURL (e.g. https://price-api.mayan.finance/v3).
// timeout applies when the caller's context carries no deadline.
func NewMayanClient(baseURL string, timeout time.Duration, logger *zap.Logger, opts ...Option) *MayanClient {
	c := &MayanClient{
		client: &fasthttp.Client{
			Name:                "bridge-router",
			MaxIdleConnDuration: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("MayanClient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QuoteURL builds the request URL for params.
func (c *MayanClient) QuoteURL(params entity.UpstreamQuoteParams) string {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)

	args.Add("amountIn64", params.AmountIn64)
	args.Add("fromToken", params.FromToken)
	args.Add("fromChain", params.FromChain)
	args.Add("toToken", params.ToToken)
	args.Add("toChain", params.ToChain)
	args.Add("slippageBps", params.Slippage)
	args.Add("gasDrop", params.GasDrop)
	if params.Referrer != "" {
		args.Add("referrer", params.Referrer)
		args.Add("referrerBps", strconv.FormatInt(params.ReferrerBps, 10))
	}
	if params.MEVProtection {
		args.Add("gasless", "false")
		args.Add("mevProtection", "true")
	}
	args.Add("swift", "true")
	args.Add("mctp", "true")
	args.Add("wormhole", "true")

	return c.baseURL + "/quote?" + args.String()
}

// FetchRoutes performs exactly one GET against the quote endpoint. It never retries.
// If ctx is cancelled first, the call is abandoned and ctx's error is returned.
// Every failure wraps entity.ErrUpstreamCall.
func (c *MayanClient) FetchRoutes(ctx context.Context, params entity.UpstreamQuoteParams) (entity.ProviderResponse, error) {
	if err := ctx.Err(); err != nil {
		return entity.ProviderResponse{}, fmt.Errorf("%w: %w", entity.ErrUpstreamCall, err)
	}

	requestURL := c.QuoteURL(params)
	c.logger.Debug("Requesting quote from Mayan", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	done := make(chan error, 1)
	go func() {
		if deadline, ok := ctx.Deadline(); ok {
			done <- c.client.DoDeadline(req, resp, deadline)
			return
		}
		done <- c.client.DoTimeout(req, resp, c.timeout)
	}()

	select {
	case <-ctx.Done():
		// the in-flight call still owns req/resp
		go func() {
			<-done
			fasthttp.ReleaseRequest(req)
			fasthttp.ReleaseResponse(resp)
		}()
		c.logger.Warn("Mayan request abandoned by caller", zap.Error(ctx.Err()))
		return entity.ProviderResponse{}, fmt.Errorf("%w: %w", entity.ErrUpstreamCall, ctx.Err())
	case err := <-done:
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)
		if err != nil {
			c.logger.Error("Failed to execute request to Mayan", zap.String("url", requestURL), zap.Error(err))
			return entity.ProviderResponse{}, fmt.Errorf("%w: %w", entity.ErrUpstreamCall, err)
		}
		return c.decode(resp.StatusCode(), resp.Body())
	}
}

func (c *MayanClient) decode(status int, rawBody []byte) (entity.ProviderResponse, error) {
	if status != fasthttp.StatusOK {
		var body wire.MayanErrorBody
		_ = json.Unmarshal(rawBody, &body)
		c.logger.Error("Mayan API request failed",
			zap.Int("statusCode", status),
			zap.String("code", body.Code),
			zap.String("message", body.Text()),
			zap.ByteString("responseBody", truncate(rawBody)),
		)
		return entity.ProviderResponse{}, fmt.Errorf("%w: status %d", entity.ErrUpstreamCall, status)
	}

	resp, err := DecodeProviderResponse(rawBody)
	if err != nil {
		c.logger.Error("Failed to decode Mayan response", zap.ByteString("responseBody", truncate(rawBody)), zap.Error(err))
		return entity.ProviderResponse{}, err
	}
	return resp, nil
}

// DecodeProviderResponse classifies a 200 body as a bare array or an object envelope.
func DecodeProviderResponse(rawBody []byte) (entity.ProviderResponse, error) {
	trimmed := bytes.TrimSpace(rawBody)
	if len(trimmed) == 0 {
		return entity.ProviderResponse{}, fmt.Errorf("%w: empty response body", entity.ErrUpstreamCall)
	}

	switch trimmed[0] {
	case '[':
		var list []stdjson.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return entity.ProviderResponse{}, fmt.Errorf("%w: malformed array body: %w", entity.ErrUpstreamCall, err)
		}
		if list == nil {
			list = []stdjson.RawMessage{}
		}
		return entity.ProviderResponse{List: list}, nil
	case '{':
		var env wire.MayanQuoteEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return entity.ProviderResponse{}, fmt.Errorf("%w: malformed object body: %w", entity.ErrUpstreamCall, err)
		}
		return entity.ProviderResponse{Routes: env.Routes, BestRoute: env.BestRoute, Quotes: env.Quotes}, nil
	default:
		return entity.ProviderResponse{}, fmt.Errorf("%w: %w", entity.ErrUpstreamCall, errUnexpectedBody)
	}
}

var errUnexpectedBody = errors.New("response body is neither a JSON array nor an object")

func truncate(b []byte) []byte {
	if len(b) > maxLoggedBody {
		return b[:maxLoggedBody]
	}
	return b
}
