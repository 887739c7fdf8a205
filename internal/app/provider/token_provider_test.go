package provider

import (
	"testing"

	"bridge_router/internal/domain/entity"
	networkdefinition "bridge_router/internal/infrastructure/network/definition"
	"bridge_router/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newRegistry(t *testing.T, enabled []string, tokens []entity.TokenDescriptor) (*tokenRegistryImpl, error) {
	t.Helper()
	log := logger.NewZapAdapter(zaptest.NewLogger(t))
	networks := networkdefinition.NewNetworkDefinitionProvider(log, enabled)
	reg, err := NewTokenRegistry(tokens, networks, log)
	if err != nil {
		return nil, err
	}
	return reg.(*tokenRegistryImpl), nil
}

func TestTokenRegistry_Lookup(t *testing.T) {
	reg, err := newRegistry(t, nil, networkdefinition.BuiltinTokens)
	require.NoError(t, err)

	tok, err := reg.Lookup("BSC", "usdc")
	require.NoError(t, err)
	assert.Equal(t, uint8(18), tok.Decimals)
	assert.Equal(t, "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d", tok.OnChainID)
	assert.Equal(t, "bsc", tok.Network)
	assert.Equal(t, "USDC", tok.Symbol)

	tok, err = reg.Lookup("solana", "USDC")
	require.NoError(t, err)
	assert.Equal(t, uint8(6), tok.Decimals)

	for _, miss := range [][2]string{{"tron", "USDC"}, {"base", "USDT"}, {"ethereum", "DOGE"}, {"", ""}} {
		_, err := reg.Lookup(miss[0], miss[1])
		assert.ErrorIs(t, err, entity.ErrUnsupportedToken, "%v", miss)
	}
}

func TestTokenRegistry_AllIsSortedCopy(t *testing.T) {
	reg, err := newRegistry(t, nil, networkdefinition.BuiltinTokens)
	require.NoError(t, err)

	all := reg.All()
	require.Len(t, all, len(networkdefinition.BuiltinTokens))
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		assert.True(t, prev.Network < cur.Network || (prev.Network == cur.Network && prev.Symbol < cur.Symbol))
	}

	all[0].Symbol = "MUTATED"
	assert.NotEqual(t, "MUTATED", reg.All()[0].Symbol)

	eth := TokensForNetwork(reg, "Ethereum")
	assert.Len(t, eth, 2)
}

func TestTokenRegistry_OverridesAndDisabledNetworks(t *testing.T) {
	tokens := append([]entity.TokenDescriptor{}, networkdefinition.BuiltinTokens...)
	tokens = append(tokens,
		entity.TokenDescriptor{Network: "ethereum", Symbol: "usdc", OnChainID: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", Decimals: 6},
		entity.TokenDescriptor{Network: "ethereum", Symbol: "WETH", OnChainID: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18},
	)

	reg, err := newRegistry(t, []string{"ethereum"}, tokens)
	require.NoError(t, err)

	all := reg.All()
	require.Len(t, all, 3)

	weth, err := reg.Lookup("ethereum", "weth")
	require.NoError(t, err)
	assert.Equal(t, uint8(18), weth.Decimals)

	_, err = reg.Lookup("solana", "USDC")
	assert.ErrorIs(t, err, entity.ErrUnsupportedToken, "solana is disabled")
}

func TestTokenRegistry_RejectsInvalidEntries(t *testing.T) {
	tests := map[string]entity.TokenDescriptor{
		"bad evm address":    {Network: "ethereum", Symbol: "BAD", OnChainID: "0x1234", Decimals: 6},
		"bad solana address": {Network: "solana", Symbol: "BAD", OnChainID: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6},
		"too many decimals":  {Network: "base", Symbol: "BIG", OnChainID: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 19},
		"empty symbol":       {Network: "base", Symbol: " ", OnChainID: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6},
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := newRegistry(t, nil, []entity.TokenDescriptor{tok})
			assert.Error(t, err)
		})
	}
}
