package entity

import (
	"encoding/json"
	"math"
)

// UnknownEstimate marks a route estimate the provider did not report.
// It sorts after every reported value.
var UnknownEstimate = math.Inf(1)

// RouteCandidate is one normalized route offered by the upstream provider.
// Candidates are produced by the route normalizer only.
type RouteCandidate struct {
	ProviderLabel    string
	EstimatedSeconds float64
	FeeEstimateUSD   float64
	// NetAmountSmallest is the provider's expected output in destination token units.
	// Value is nil when the provider did not report it.
	NetAmountSmallest SmallestUnitAmount
	// Raw is the provider payload, passed through uninterpreted.
	Raw json.RawMessage
}

// HasFeeEstimate reports whether the provider supplied a fee estimate.
func (c RouteCandidate) HasFeeEstimate() bool { return !math.IsInf(c.FeeEstimateUSD, 1) }

// HasTimeEstimate reports whether the provider supplied a time estimate.
func (c RouteCandidate) HasTimeEstimate() bool { return !math.IsInf(c.EstimatedSeconds, 1) }

// ProviderResponse is the upstream response decoded into its possible shapes.
// At most one of List and the object fields is populated: List for a bare JSON array,
// Routes/BestRoute/Quotes for a JSON object.
type ProviderResponse struct {
	List      []json.RawMessage
	Routes    []json.RawMessage
	BestRoute json.RawMessage
	Quotes    []json.RawMessage
}

// IsList reports whether the body was a bare array.
func (r ProviderResponse) IsList() bool { return r.List != nil }

// SlippageAuto is the sentinel sent upstream when the user gave no explicit slippage.
const SlippageAuto = "auto"

// UpstreamQuoteParams are the parameters of the single upstream quote call.
type UpstreamQuoteParams struct {
	FromToken     string
	ToToken       string
	FromChain     string
	ToChain       string
	AmountIn64    string // smallest units, base 10
	Slippage      string // integer bps or SlippageAuto
	GasDrop       string // native units of the destination chain, "0" for none
	Referrer      string
	ReferrerBps   int64
	MEVProtection bool
}
