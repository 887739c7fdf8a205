package provider

import (
	"fmt"
	"sort"
	"strings"

	"bridge_router/internal/app/port"
	"bridge_router/internal/domain/entity"
	networkdefinition "bridge_router/internal/infrastructure/network/definition"
)

// tokenRegistryImpl is an immutable (network, symbol) -> token map.
type tokenRegistryImpl struct {
	tokens map[entity.TokenKey]entity.TokenDescriptor
	sorted []entity.TokenDescriptor
}

// NewTokenRegistry validates the given tokens and builds the registry.
// Later entries replace earlier ones with the same key, so file tokens passed after the
// built-ins override them. Any invalid entry fails construction.
func NewTokenRegistry(tokens []entity.TokenDescriptor, networks port.NetworkDefinitionProvider, logger port.Logger) (port.TokenRegistry, error) {
	r := &tokenRegistryImpl{tokens: make(map[entity.TokenKey]entity.TokenDescriptor, len(tokens))}

	for _, t := range tokens {
		key := t.Key()
		def, ok := networks.GetNetworkDefinitionByName(key.Network)
		if !ok {
			// built-ins for networks disabled in config land here
			logger.Debug("Skipping token for inactive network", "network", key.Network, "symbol", key.Symbol)
			continue
		}
		if key.Symbol == "" {
			return nil, fmt.Errorf("token on %s has an empty symbol", key.Network)
		}
		if t.Decimals > entity.MaxTokenDecimals {
			return nil, fmt.Errorf("token %s on %s declares %d decimals, max is %d", key.Symbol, key.Network, t.Decimals, entity.MaxTokenDecimals)
		}
		addr, err := networkdefinition.NormalizeAddress(def.Family, t.OnChainID)
		if err != nil {
			return nil, fmt.Errorf("token %s on %s: %w", key.Symbol, key.Network, err)
		}

		if prev, dup := r.tokens[key]; dup {
			logger.Info("Token definition overridden", "network", key.Network, "symbol", key.Symbol, "old_address", prev.OnChainID, "new_address", addr)
		}
		r.tokens[key] = entity.TokenDescriptor{
			Network:   key.Network,
			Symbol:    key.Symbol,
			OnChainID: addr,
			Decimals:  t.Decimals,
		}
	}

	r.sorted = make([]entity.TokenDescriptor, 0, len(r.tokens))
	for _, t := range r.tokens {
		r.sorted = append(r.sorted, t)
	}
	sort.Slice(r.sorted, func(i, j int) bool {
		if r.sorted[i].Network != r.sorted[j].Network {
			return r.sorted[i].Network < r.sorted[j].Network
		}
		return r.sorted[i].Symbol < r.sorted[j].Symbol
	})

	logger.Info("Token registry initialized", "tokens", len(r.sorted))
	return r, nil
}

// Lookup implements port.TokenRegistry.
func (r *tokenRegistryImpl) Lookup(network, symbol string) (entity.TokenDescriptor, error) {
	key := entity.NewTokenKey(network, symbol)
	t, ok := r.tokens[key]
	if !ok {
		return entity.TokenDescriptor{}, fmt.Errorf("%w: %s on %s", entity.ErrUnsupportedToken, key.Symbol, key.Network)
	}
	return t, nil
}

// All implements port.TokenRegistry.
func (r *tokenRegistryImpl) All() []entity.TokenDescriptor {
	out := make([]entity.TokenDescriptor, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// TokensForNetwork filters a registry listing by network identifier.
func TokensForNetwork(reg port.TokenRegistry, network string) []entity.TokenDescriptor {
	network = strings.ToLower(strings.TrimSpace(network))
	var out []entity.TokenDescriptor
	for _, t := range reg.All() {
		if t.Network == network {
			out = append(out, t)
		}
	}
	return out
}
