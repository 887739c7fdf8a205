package service

import (
	"fmt"

	"bridge_router/internal/domain/entity"
)

// SelectRoute picks one candidate according to policy.
// cheapest minimizes FeeEstimateUSD, fastest minimizes EstimatedSeconds, with ties going to the
// earlier candidate. safest and default keep the provider's own first choice.
// Candidates are never modified.
func SelectRoute(candidates []entity.RouteCandidate, policy entity.RoutingPolicy) (entity.RouteCandidate, error) {
	if len(candidates) == 0 {
		return entity.RouteCandidate{}, fmt.Errorf("%w: nothing to select from", entity.ErrNoRoutes)
	}

	var metric func(entity.RouteCandidate) float64
	switch policy {
	case entity.PolicyCheapest:
		metric = func(c entity.RouteCandidate) float64 { return c.FeeEstimateUSD }
	case entity.PolicyFastest:
		metric = func(c entity.RouteCandidate) float64 { return c.EstimatedSeconds }
	case entity.PolicySafest, entity.PolicyDefault, "":
		return candidates[0], nil
	default:
		return entity.RouteCandidate{}, fmt.Errorf("%w: %q", entity.ErrInvalidRoutingPolicy, policy)
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		// strict comparison keeps the first of equal candidates
		if metric(candidates[i]) < metric(candidates[best]) {
			best = i
		}
	}
	return candidates[best], nil
}
