package entity

import (
	"fmt"
	"strings"
)

// RoutingPolicy is the objective used to pick one route among candidates.
type RoutingPolicy string

const (
	PolicyDefault  RoutingPolicy = "default"
	PolicyFastest  RoutingPolicy = "fastest"
	PolicyCheapest RoutingPolicy = "cheapest"
	PolicySafest   RoutingPolicy = "safest"
)

// MaxSlippageBps is the largest explicit slippage tolerance accepted (50%).
const MaxSlippageBps = 5000

// ParseRoutingPolicy maps a user supplied policy name to a RoutingPolicy.
// An empty name yields PolicyDefault.
func ParseRoutingPolicy(raw string) (RoutingPolicy, error) {
	switch p := RoutingPolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PolicyDefault, nil
	case PolicyDefault, PolicyFastest, PolicyCheapest, PolicySafest:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRoutingPolicy, raw)
	}
}

// ProtectionFlags are optional transfer protections requested by the user.
type ProtectionFlags struct {
	MEV    bool `json:"mev"`
	Refuel bool `json:"refuel"`
}

// QuoteRequest is a user's transfer intent.
// SourceNetwork == DestNetwork is not rejected here.
type QuoteRequest struct {
	SourceNetwork   string
	DestNetwork     string
	TokenSymbol     string
	DestTokenSymbol string // empty means TokenSymbol
	HumanAmount     string
	Policy          RoutingPolicy
	SlippageBps     *int // nil means let the provider choose
	Protection      ProtectionFlags
}

// EffectiveDestSymbol returns the destination token symbol, defaulting to the source symbol.
func (r QuoteRequest) EffectiveDestSymbol() string {
	if strings.TrimSpace(r.DestTokenSymbol) == "" {
		return r.TokenSymbol
	}
	return r.DestTokenSymbol
}

// QuoteResult is built once per request and not mutated afterwards.
type QuoteResult struct {
	QuoteID        string
	SourceToken    TokenDescriptor
	DestToken      TokenDescriptor
	AmountIn       SmallestUnitAmount
	Policy         RoutingPolicy
	SelectedRoute  RouteCandidate
	CandidateCount int
	Fee            FeeResult
}
