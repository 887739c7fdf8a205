package tokenloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	networkdefinition "bridge_router/internal/infrastructure/network/definition"
	"bridge_router/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestLoadTokens(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "ethereum.json", `[
		{"symbol":"weth","address":"0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2","decimals":18},
		{"symbol":"DAI","address":"0x6B175474E89094C44Da98b954EedeAC495271d0F","decimals":18},
		{"symbol":"HUGE","address":"0x6B175474E89094C44Da98b954EedeAC495271d0F","decimals":30}
	]`)
	write(t, dir, "Solana.json", `[{"symbol":"BONK","address":"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263","decimals":5}]`)
	write(t, dir, "tron.json", `[{"symbol":"USDT","address":"TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t","decimals":6}]`)
	write(t, dir, "bsc.json", `{not json`)
	write(t, dir, "README.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o700))

	log := logger.NewZapAdapter(zaptest.NewLogger(t))
	networks := networkdefinition.NewNetworkDefinitionProvider(log, nil)

	tokens, err := NewTokenLoader(dir, networks, log).LoadTokens(context.Background())
	require.NoError(t, err)
	require.Len(t, tokens, 3)

	assert.Equal(t, "ethereum", tokens[0].Network)
	assert.Equal(t, "DAI", tokens[0].Symbol)
	assert.Equal(t, "WETH", tokens[1].Symbol)
	assert.Equal(t, uint8(18), tokens[1].Decimals)
	assert.Equal(t, "solana", tokens[2].Network)
	assert.Equal(t, "BONK", tokens[2].Symbol)
}

func TestLoadTokens_MissingOrUnsetDir(t *testing.T) {
	log := logger.NewZapAdapter(zaptest.NewLogger(t))
	networks := networkdefinition.NewNetworkDefinitionProvider(log, nil)

	tokens, err := NewTokenLoader(filepath.Join(t.TempDir(), "absent"), networks, log).LoadTokens(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tokens)

	tokens, err = NewTokenLoader("", networks, log).LoadTokens(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestLoadTokens_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "ethereum.json", `[]`)

	log := logger.NewZapAdapter(zaptest.NewLogger(t))
	networks := networkdefinition.NewNetworkDefinitionProvider(log, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTokenLoader(dir, networks, log).LoadTokens(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
