package utils

import (
	"fmt"
	"math/big"
	"strings"

	"bridge_router/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// DisplayFractionDigits is the number of fractional digits kept by ToHuman.
const DisplayFractionDigits = 6

// maxIntegerDigits bounds the integer part of a human amount so exponent notation
// like "1e100000" cannot blow up the smallest-unit integer.
const maxIntegerDigits = 40

// ToSmallestUnits converts a human decimal amount to smallest units of a token with the given
// precision. Fractional digits beyond decimals are truncated, never rounded up.
// Example: human="90.5", decimals=6 => 90500000
func ToSmallestUnits(human string, decimals uint8) (entity.SmallestUnitAmount, error) {
	if decimals > entity.MaxTokenDecimals {
		return entity.SmallestUnitAmount{}, fmt.Errorf("token precision %d exceeds %d", decimals, entity.MaxTokenDecimals)
	}

	trimmed := strings.TrimSpace(human)
	if trimmed == "" {
		return entity.SmallestUnitAmount{}, fmt.Errorf("%w: empty amount", entity.ErrInvalidAmount)
	}

	// NaN and Inf are rejected by the parser.
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return entity.SmallestUnitAmount{}, fmt.Errorf("%w: %q is not a decimal number", entity.ErrInvalidAmount, trimmed)
	}
	if d.Sign() <= 0 {
		return entity.SmallestUnitAmount{}, fmt.Errorf("%w: %s", entity.ErrInvalidAmount, trimmed)
	}
	if int(d.Exponent())+d.NumDigits() > maxIntegerDigits {
		return entity.SmallestUnitAmount{}, fmt.Errorf("%w: amount too large", entity.ErrInvalidAmount)
	}

	units := d.Shift(int32(decimals)).Truncate(0).BigInt()
	if units.Sign() == 0 {
		return entity.SmallestUnitAmount{}, fmt.Errorf("%w: %s is below token precision (%d decimals)", entity.ErrInvalidAmount, trimmed, decimals)
	}

	return entity.SmallestUnitAmount{Value: units, Decimals: decimals}, nil
}

// ToHuman renders a smallest-unit amount as a decimal string with at most
// DisplayFractionDigits fractional digits and no trailing zeros.
// Example: 1234567890 at 6 decimals => "1234.56789"
func ToHuman(amount entity.SmallestUnitAmount) string {
	return FormatBigInt(amount.Value, amount.Decimals, DisplayFractionDigits)
}

// FormatBigInt converts an integer amount to a human-readable string,
// considering the given number of decimals. The fractional part is truncated to maxFraction
// digits (negative means unlimited) and trailing zeros are stripped.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8, maxFraction int) string {
	if amount == nil {
		return "0"
	}

	value := decimal.NewFromBigInt(amount, -int32(decimals))
	if maxFraction >= 0 && maxFraction < int(decimals) {
		value = value.Truncate(int32(maxFraction))
	}

	// decimal.String drops trailing zeros of the fractional part.
	return value.String()
}

// PercentToBps converts a percentage string ("0.5", "3") into whole basis points,
// truncating sub-bps precision. A non-zero tolerance below 1 bps becomes 1 bps, never 0.
// The result must lie within [0, entity.MaxSlippageBps].
func PercentToBps(percent string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(percent))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", entity.ErrInvalidSlippage, percent)
	}
	bps := d.Mul(decimal.NewFromInt(100))
	if d.Sign() < 0 || bps.GreaterThan(decimal.NewFromInt(entity.MaxSlippageBps)) {
		return 0, fmt.Errorf("%w: got %s%%", entity.ErrInvalidSlippage, strings.TrimSpace(percent))
	}
	whole := bps.Truncate(0).IntPart()
	if whole == 0 && bps.Sign() > 0 {
		whole = 1
	}
	return int(whole), nil
}
