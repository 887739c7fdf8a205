package service

import (
	"fmt"
	"math/big"

	"bridge_router/internal/domain/entity"
)

var bpsDenominator = big.NewInt(entity.BpsDenominator)

// ApplyFee computes the protocol fee on gross as floor(gross * feeBps / 10000).
// The net amount is gross minus the fee, so fee + net == gross always holds.
// Rates above 100% are rejected so that 0 <= fee <= gross.
func ApplyFee(gross entity.SmallestUnitAmount, feeBps int64) (entity.FeeResult, error) {
	if feeBps < 0 || feeBps > entity.BpsDenominator {
		return entity.FeeResult{}, fmt.Errorf("%w: fee bps %d out of range [0, %d]", entity.ErrInvalidFeeConfig, feeBps, entity.BpsDenominator)
	}
	g := gross.Int()
	if g.Sign() < 0 {
		return entity.FeeResult{}, fmt.Errorf("%w: gross %s", entity.ErrNegativeAmount, g.String())
	}

	fee := new(big.Int).Mul(g, big.NewInt(feeBps))
	fee.Quo(fee, bpsDenominator) // g and feeBps are non-negative, so truncation is floor
	net := new(big.Int).Sub(g, fee)

	return entity.FeeResult{
		GrossAmount: entity.NewSmallestUnitAmount(g, gross.Decimals),
		FeeAmount:   entity.NewSmallestUnitAmount(fee, gross.Decimals),
		NetAmount:   entity.NewSmallestUnitAmount(net, gross.Decimals),
		FeeBps:      feeBps,
	}, nil
}
