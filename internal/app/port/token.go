package port

import "bridge_router/internal/domain/entity"

// TokenRegistry resolves (network, symbol) pairs to token descriptors.
// Implementations are read-only after construction and safe for concurrent use.
type TokenRegistry interface {
	// Lookup fails with entity.ErrUnsupportedToken when the pair is not whitelisted.
	Lookup(network, symbol string) (entity.TokenDescriptor, error)
	// All returns every registered token sorted by network then symbol.
	All() []entity.TokenDescriptor
}

// NetworkDefinitionProvider provides the networks the router knows about.
type NetworkDefinitionProvider interface {
	GetAllNetworkDefinitions() []entity.NetworkDefinition
	// GetNetworkDefinitionByName returns the definition and true, or false when unknown.
	GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool)
}
