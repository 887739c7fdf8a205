package entity

import "strings"

// MaxTokenDecimals is the largest precision a registered token may declare.
const MaxTokenDecimals = 18

// TokenDescriptor identifies a token on one network.
// Descriptors are created at startup and never mutated afterwards.
type TokenDescriptor struct {
	Network   string `json:"network"`
	Symbol    string `json:"symbol"`
	OnChainID string `json:"address"`
	Decimals  uint8  `json:"decimals"`
}

// TokenKey is the registry key for a (network, symbol) pair.
type TokenKey struct {
	Network string
	Symbol  string
}

// NewTokenKey builds a normalized key: lowercase network, uppercase symbol.
func NewTokenKey(network, symbol string) TokenKey {
	return TokenKey{
		Network: strings.ToLower(strings.TrimSpace(network)),
		Symbol:  strings.ToUpper(strings.TrimSpace(symbol)),
	}
}

// Key returns the registry key of the descriptor.
func (t TokenDescriptor) Key() TokenKey {
	return NewTokenKey(t.Network, t.Symbol)
}
