package entity

import "errors"

var (
	ErrUnsupportedToken     = errors.New("unsupported token/network combination")
	ErrInvalidAmount        = errors.New("amount must be a positive number")
	ErrNegativeAmount       = errors.New("amount must be non-negative")
	ErrInvalidFeeConfig     = errors.New("invalid fee configuration")
	ErrInvalidSlippage      = errors.New("slippage must be between 0 and 50 percent")
	ErrInvalidRoutingPolicy = errors.New("routing must be one of fastest, cheapest, safest, default")
	ErrMissingParameters    = errors.New("missing parameters")
	ErrNoRoutes             = errors.New("no routes returned by provider")
	ErrUpstreamCall         = errors.New("route provider call failed")
)

// GenericQuoteFailure is the only message surfaced for upstream and no-route failures.
const GenericQuoteFailure = "Failed to fetch quote from route provider"

var validationErrors = []error{
	ErrUnsupportedToken,
	ErrInvalidAmount,
	ErrNegativeAmount,
	ErrInvalidSlippage,
	ErrInvalidRoutingPolicy,
	ErrMissingParameters,
}

// IsValidationError reports whether err was raised while validating a request locally.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// PublicMessage returns the short, stable message that may be shown to a caller.
// Wrapped details (upstream payloads, addresses, raw input) are never included.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedToken):
		return "Unsupported token/chain combination"
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount):
		return "Amount must be a positive number"
	case errors.Is(err, ErrInvalidSlippage):
		return "Slippage must be between 0 and 50"
	case errors.Is(err, ErrInvalidRoutingPolicy):
		return "Routing must be one of fastest, cheapest, safest, default"
	case errors.Is(err, ErrMissingParameters):
		return "Missing parameters"
	default:
		return GenericQuoteFailure
	}
}
