package entity

import "math/big"

// SmallestUnitAmount is a non-negative integer token amount at full on-chain precision,
// tagged with the precision it was derived from.
type SmallestUnitAmount struct {
	Value    *big.Int
	Decimals uint8
}

// NewSmallestUnitAmount copies v so the caller cannot mutate the result afterwards.
func NewSmallestUnitAmount(v *big.Int, decimals uint8) SmallestUnitAmount {
	if v == nil {
		return SmallestUnitAmount{Value: new(big.Int), Decimals: decimals}
	}
	return SmallestUnitAmount{Value: new(big.Int).Set(v), Decimals: decimals}
}

// String returns the integer in base 10, "0" for a zero value.
func (a SmallestUnitAmount) String() string {
	if a.Value == nil {
		return "0"
	}
	return a.Value.String()
}

// Int returns a copy of the underlying integer.
func (a SmallestUnitAmount) Int() *big.Int {
	if a.Value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.Value)
}

// SamePrecision reports whether a and b can be combined arithmetically without re-scaling.
func (a SmallestUnitAmount) SamePrecision(b SmallestUnitAmount) bool {
	return a.Decimals == b.Decimals
}
