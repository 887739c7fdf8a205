package client

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"bridge_router/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"go.uber.org/zap/zaptest"
)

type testServer struct {
	client *MayanClient
	calls  *atomic.Int32
	last   chan *fasthttp.Args
}

func newTestServer(t *testing.T, handler fasthttp.RequestHandler) testServer {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	calls := &atomic.Int32{}
	last := make(chan *fasthttp.Args, 8)

	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		calls.Add(1)
		args := &fasthttp.Args{}
		ctx.QueryArgs().CopyTo(args)
		last <- args
		handler(ctx)
	}}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	hc := &fasthttp.Client{Dial: func(string) (net.Conn, error) { return ln.Dial() }}
	c := NewMayanClient("http://mayan.test/v3/", 2*time.Second, zaptest.NewLogger(t), WithHTTPClient(hc))
	return testServer{client: c, calls: calls, last: last}
}

var sampleParams = entity.UpstreamQuoteParams{
	FromToken:   "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	ToToken:     "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
	FromChain:   "solana",
	ToChain:     "ethereum",
	AmountIn64:  "100000000",
	Slippage:    entity.SlippageAuto,
	GasDrop:     "0",
	Referrer:    "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
	ReferrerBps: 50,
}

func TestFetchRoutes_BareArray(t *testing.T) {
	ts := newTestServer(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`[{"type":"SWIFT","etaSeconds":20},{"type":"MCTP","etaSeconds":60}]`)
	})

	resp, err := ts.client.FetchRoutes(context.Background(), sampleParams)
	require.NoError(t, err)
	assert.True(t, resp.IsList())
	assert.Len(t, resp.List, 2)
	assert.JSONEq(t, `{"type":"SWIFT","etaSeconds":20}`, string(resp.List[0]))
	assert.Equal(t, int32(1), ts.calls.Load())

	args := <-ts.last
	assert.Equal(t, "100000000", string(args.Peek("amountIn64")))
	assert.Equal(t, "auto", string(args.Peek("slippageBps")))
	assert.Equal(t, "solana", string(args.Peek("fromChain")))
	assert.Equal(t, "ethereum", string(args.Peek("toChain")))
	assert.Equal(t, "50", string(args.Peek("referrerBps")))
	assert.Equal(t, sampleParams.Referrer, string(args.Peek("referrer")))
	assert.False(t, args.Has("mevProtection"))
}

func TestFetchRoutes_ObjectShapes(t *testing.T) {
	ts := newTestServer(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`{"bestRoute":{"type":"WH"},"routes":[{"type":"SWIFT"}]}`)
	})

	resp, err := ts.client.FetchRoutes(context.Background(), sampleParams)
	require.NoError(t, err)
	assert.False(t, resp.IsList())
	assert.Len(t, resp.Routes, 1)
	assert.JSONEq(t, `{"type":"WH"}`, string(resp.BestRoute))
}

func TestFetchRoutes_EmptyArrayIsStillAList(t *testing.T) {
	ts := newTestServer(t, func(ctx *fasthttp.RequestCtx) { ctx.SetBodyString(`[]`) })

	resp, err := ts.client.FetchRoutes(context.Background(), sampleParams)
	require.NoError(t, err)
	assert.True(t, resp.IsList())
	assert.Empty(t, resp.List)
}

func TestFetchRoutes_Failures(t *testing.T) {
	tests := map[string]fasthttp.RequestHandler{
		"server error": func(ctx *fasthttp.RequestCtx) {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			ctx.SetBodyString(`{"code":"AMOUNT_TOO_SMALL","msg":"internal detail"}`)
		},
		"scalar body": func(ctx *fasthttp.RequestCtx) { ctx.SetBodyString(`"nope"`) },
		"broken json": func(ctx *fasthttp.RequestCtx) { ctx.SetBodyString(`{"routes":[`) },
		"empty body":  func(ctx *fasthttp.RequestCtx) {},
	}

	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			ts := newTestServer(t, h)
			_, err := ts.client.FetchRoutes(context.Background(), sampleParams)
			require.ErrorIs(t, err, entity.ErrUpstreamCall)
			assert.NotContains(t, err.Error(), "internal detail")
			assert.Equal(t, int32(1), ts.calls.Load(), "no retry")
		})
	}
}

func TestFetchRoutes_CancelledContextAbandonsCall(t *testing.T) {
	release := make(chan struct{})
	ts := newTestServer(t, func(ctx *fasthttp.RequestCtx) {
		<-release
		ctx.SetBodyString(`[]`)
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := ts.client.FetchRoutes(ctx, sampleParams)
	require.ErrorIs(t, err, entity.ErrUpstreamCall)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFetchRoutes_AlreadyCancelled(t *testing.T) {
	ts := newTestServer(t, func(ctx *fasthttp.RequestCtx) { ctx.SetBodyString(`[]`) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ts.client.FetchRoutes(ctx, sampleParams)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), ts.calls.Load())
}

func TestQuoteURL_MEVAndNoReferrer(t *testing.T) {
	c := NewMayanClient("https://price-api.mayan.finance/v3", time.Second, zaptest.NewLogger(t))
	p := sampleParams
	p.Referrer = ""
	p.MEVProtection = true
	p.Slippage = "300"

	u := c.QuoteURL(p)
	assert.Contains(t, u, "https://price-api.mayan.finance/v3/quote?")
	assert.Contains(t, u, "slippageBps=300")
	assert.Contains(t, u, "mevProtection=true")
	assert.NotContains(t, u, "referrer")
}

func TestDecodeProviderResponse_WhitespaceAndQuotes(t *testing.T) {
	resp, err := DecodeProviderResponse([]byte("  \n{\"quotes\":[{\"type\":\"SWIFT\"}]}"))
	require.NoError(t, err)
	assert.Len(t, resp.Quotes, 1)
	assert.False(t, resp.IsList())
}
