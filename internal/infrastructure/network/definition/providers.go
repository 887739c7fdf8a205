package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"bridge_router/internal/app/port"
	"bridge_router/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// NetworkDefinitionProvider provides the networks the router can quote on.
type NetworkDefinitionProvider struct {
	logger  port.Logger
	defs    map[string]entity.NetworkDefinition
	ordered []entity.NetworkDefinition
}

// Predefined network definitions. Identifier is the chain name the route provider expects.
var ( //nolint:gochecknoglobals // Global for definitions
	Solana = entity.NetworkDefinition{
		ChainID:      0, // not an EVM chain
		Name:         "Solana Mainnet",
		Identifier:   "solana",
		Family:       entity.FamilySolana,
		NativeSymbol: "SOL",
		Decimals:     9,
	}
	Ethereum = entity.NetworkDefinition{
		ChainID:      1,
		Name:         "Ethereum Mainnet",
		Identifier:   "ethereum",
		Family:       entity.FamilyEVM,
		NativeSymbol: "ETH",
		Decimals:     18,
	}
	BSC = entity.NetworkDefinition{
		ChainID:      56,
		Name:         "BNB Smart Chain",
		Identifier:   "bsc",
		Family:       entity.FamilyEVM,
		NativeSymbol: "BNB",
		Decimals:     18,
	}
	Polygon = entity.NetworkDefinition{
		ChainID:      137,
		Name:         "Polygon PoS",
		Identifier:   "polygon",
		Family:       entity.FamilyEVM,
		NativeSymbol: "POL",
		Decimals:     18,
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:      42161,
		Name:         "Arbitrum One",
		Identifier:   "arbitrum",
		Family:       entity.FamilyEVM,
		NativeSymbol: "ETH",
		Decimals:     18,
	}
	Avalanche = entity.NetworkDefinition{
		ChainID:      43114,
		Name:         "Avalanche C-Chain",
		Identifier:   "avalanche",
		Family:       entity.FamilyEVM,
		NativeSymbol: "AVAX",
		Decimals:     18,
	}
	Base = entity.NetworkDefinition{
		ChainID:      8453,
		Name:         "Base Mainnet",
		Identifier:   "base",
		Family:       entity.FamilyEVM,
		NativeSymbol: "ETH",
		Decimals:     18,
	}
	Optimism = entity.NetworkDefinition{
		ChainID:      10,
		Name:         "OP Mainnet",
		Identifier:   "optimism",
		Family:       entity.FamilyEVM,
		NativeSymbol: "ETH",
		Decimals:     18,
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[string]entity.NetworkDefinition{
	Solana.Identifier:    Solana,
	Ethereum.Identifier:  Ethereum,
	BSC.Identifier:       BSC,
	Polygon.Identifier:   Polygon,
	Arbitrum.Identifier:  Arbitrum,
	Avalanche.Identifier: Avalanche,
	Base.Identifier:      Base,
	Optimism.Identifier:  Optimism,
}

// BuiltinTokens is the whitelist every deployment starts from.
// Token files may add entries or override these by (network, symbol).
var BuiltinTokens = []entity.TokenDescriptor{ //nolint:gochecknoglobals
	{Network: "solana", Symbol: "USDC", OnChainID: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Decimals: 6},
	{Network: "ethereum", Symbol: "USDC", OnChainID: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6},
	{Network: "bsc", Symbol: "USDC", OnChainID: "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d", Decimals: 18},
	{Network: "arbitrum", Symbol: "USDC", OnChainID: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Decimals: 6},
	{Network: "base", Symbol: "USDC", OnChainID: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6},
	{Network: "polygon", Symbol: "USDC", OnChainID: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", Decimals: 6},
	{Network: "avalanche", Symbol: "USDC", OnChainID: "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E", Decimals: 6},
	{Network: "optimism", Symbol: "USDC", OnChainID: "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85", Decimals: 6},
	{Network: "solana", Symbol: "USDT", OnChainID: "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", Decimals: 6},
	{Network: "ethereum", Symbol: "USDT", OnChainID: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6},
	{Network: "bsc", Symbol: "USDT", OnChainID: "0x55d398326f99059fF775485246999027B3197955", Decimals: 18},
	{Network: "arbitrum", Symbol: "USDT", OnChainID: "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9", Decimals: 6},
}

// NewNetworkDefinitionProvider creates a provider over the hardcoded definitions.
// When enabled is non-empty only the listed identifiers are served.
func NewNetworkDefinitionProvider(log port.Logger, enabled []string) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger: log,
		defs:   make(map[string]entity.NetworkDefinition, len(allKnownDefinitions)),
	}

	if len(enabled) == 0 {
		for id, def := range allKnownDefinitions {
			p.defs[id] = def
		}
	} else {
		for _, raw := range enabled {
			id := strings.ToLower(strings.TrimSpace(raw))
			def, ok := allKnownDefinitions[id]
			if !ok {
				p.logger.Warn(fmt.Sprintf("Network '%s' is enabled in config but has no hardcoded definition. Skipping.", raw))
				continue
			}
			p.defs[id] = def
		}
	}

	for _, def := range p.defs {
		p.ordered = append(p.ordered, def)
	}
	sort.Slice(p.ordered, func(i, j int) bool { return p.ordered[i].Identifier < p.ordered[j].Identifier })

	if len(p.ordered) == 0 {
		p.logger.Warn("No networks are enabled. Every quote request will be rejected.")
	} else {
		p.logger.Info(fmt.Sprintf("NetworkDefinitionProvider initialized. Active networks: %d", len(p.ordered)))
		for _, def := range p.ordered {
			p.logger.Debug(fmt.Sprintf("  - Active network: %s (ID: %s, ChainID: %d, family: %s)", def.Name, def.Identifier, def.ChainID, def.Family))
		}
	}
	return p
}

// GetAllNetworkDefinitions returns the active network definitions sorted by identifier.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defsCopy := make([]entity.NetworkDefinition, len(p.ordered))
	copy(defsCopy, p.ordered)
	return defsCopy
}

// GetNetworkDefinitionByName returns a specific network definition by its identifier if it's active.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.defs[strings.ToLower(strings.TrimSpace(identifier))]
	return def, ok
}

// GetNetworkDefinitionByChainID returns an active EVM network by its chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil || chainID == 0 {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.ordered {
		if def.ChainID == chainID {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// NormalizeAddress validates an on-chain identifier for the given family and returns its
// canonical form: EIP-55 checksum for EVM, base58 for Solana.
func NormalizeAddress(family entity.NetworkFamily, address string) (string, error) {
	address = strings.TrimSpace(address)
	switch family {
	case entity.FamilyEVM:
		if !common.IsHexAddress(address) {
			return "", fmt.Errorf("invalid EVM address %q", address)
		}
		return common.HexToAddress(address).Hex(), nil
	case entity.FamilySolana:
		pk, err := solana.PublicKeyFromBase58(address)
		if err != nil {
			return "", fmt.Errorf("invalid Solana address %q: %w", address, err)
		}
		return pk.String(), nil
	default:
		return "", fmt.Errorf("unknown network family %q", family)
	}
}
