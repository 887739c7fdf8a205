package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// BpsDenominator is the number of basis points in 100%.
const BpsDenominator = 10_000

// DefaultFeeBps is the protocol fee used when no valid rate is configured (0.5%).
const DefaultFeeBps = 50

// FeeResult is the outcome of applying the protocol fee.
// FeeAmount + NetAmount == GrossAmount holds exactly.
type FeeResult struct {
	GrossAmount SmallestUnitAmount
	FeeAmount   SmallestUnitAmount
	NetAmount   SmallestUnitAmount
	FeeBps      int64
}

// ParseFeeBps parses an externally configured fee rate.
// A blank value yields DefaultFeeBps with no error. Anything that is not an integer in
// [0, BpsDenominator] yields DefaultFeeBps together with an ErrInvalidFeeConfig error the
// caller is expected to log and otherwise ignore.
func ParseFeeBps(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultFeeBps, nil
	}
	bps, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return DefaultFeeBps, fmt.Errorf("%w: fee bps %q is not an integer", ErrInvalidFeeConfig, raw)
	}
	if bps < 0 || bps > BpsDenominator {
		return DefaultFeeBps, fmt.Errorf("%w: fee bps %d out of range [0, %d]", ErrInvalidFeeConfig, bps, BpsDenominator)
	}
	return bps, nil
}
