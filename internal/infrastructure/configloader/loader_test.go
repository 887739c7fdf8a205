package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"bridge_router/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"), env(nil))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, ":3000", cfg.Server.Addr())
	assert.Equal(t, int64(entity.DefaultFeeBps), cfg.Fees.FeeBps)
	assert.Equal(t, int64(entity.DefaultFeeBps), cfg.Fees.ReferrerBpsValue())
	assert.Equal(t, DefaultUpstreamBaseURL, cfg.Upstream.BaseURL)
	assert.Equal(t, int64(10000), cfg.Upstream.RequestTimeoutMillis)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 60, cfg.RateLimit.Burst)
	assert.Equal(t, "USDC", cfg.Defaults.TokenSymbol)
	assert.Equal(t, int64(200<<10), cfg.Server.MaxBodyBytes)
	assert.ElementsMatch(t,
		[]string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"},
		cfg.Server.AllowedOrigins)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8080"
  allowedOrigins: ["https://app.example.com/"]
fees:
  feeBps: 30
  referrerBps: 20
  referrerAddress: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
upstream:
  requestTimeoutMillis: 2500
rateLimit:
  requestsPerMinute: 10
tokens:
  networks: [solana, ethereum]
defaults:
  tokenSymbol: usdt
`)
	cfg, err := LoadWithEnv(path, env(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Contains(t, cfg.Server.AllowedOrigins, "https://app.example.com")
	assert.Equal(t, int64(30), cfg.Fees.FeeBps)
	assert.Equal(t, int64(20), cfg.Fees.ReferrerBpsValue())
	assert.Equal(t, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", cfg.Fees.ReferrerAddress)
	assert.Equal(t, int64(2500), cfg.Upstream.RequestTimeoutMillis)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, []string{"solana", "ethereum"}, cfg.Tokens.Networks)
	assert.Equal(t, "USDT", cfg.Defaults.TokenSymbol)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "fees:\n  feeBps: 30\n")

	cfg, err := LoadWithEnv(path, env(map[string]string{
		"PORT":               "9000",
		"MAYAN_REFERRER_BPS": "40",
		"MAYAN_FEE_BPS":      "45",
		"FRONTEND_ORIGIN":    "https://bridge.example.org",
		"LOG_LEVEL":          "debug",
		"REFERRER_ADDRESS":   "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, int64(40), cfg.Fees.FeeBps, "MAYAN_REFERRER_BPS wins over MAYAN_FEE_BPS")
	assert.Contains(t, cfg.Server.AllowedOrigins, "https://bridge.example.org")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", cfg.Fees.ReferrerAddress)

	cfg, err = LoadWithEnv(path, env(map[string]string{"FEE_BPS": "25", "MAYAN_REFERRER_BPS": "40"}))
	require.NoError(t, err)
	assert.Equal(t, int64(25), cfg.Fees.FeeBps)
}

func TestLoad_InvalidFeeFallsBackToDefault(t *testing.T) {
	for _, raw := range []string{"-10", "abc", "12.5", "99999"} {
		cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "none.yaml"), env(map[string]string{"FEE_BPS": raw}))
		require.NoError(t, err, raw)
		assert.Equal(t, int64(entity.DefaultFeeBps), cfg.Fees.FeeBps, raw)
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := LoadWithEnv(writeConfig(t, "server: [unterminated"), env(nil))
	assert.Error(t, err)

	_, err = LoadWithEnv(writeConfig(t, "fees:\n  referrerAddress: not-an-address\n"), env(nil))
	assert.Error(t, err)

	_, err = LoadWithEnv(writeConfig(t, "fees:\n  referrerBps: -1\n"), env(nil))
	assert.ErrorIs(t, err, entity.ErrInvalidFeeConfig)
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := LoadWithEnv(filepath.Join("..", "..", "..", DefaultPath), env(nil))
	require.NoError(t, err)

	assert.Equal(t, int64(entity.DefaultFeeBps), cfg.Fees.FeeBps)
	assert.Empty(t, cfg.Fees.ReferrerAddress)
	assert.Equal(t, "0.002", cfg.Upstream.RefuelGasDrop["ethereum"])
	assert.Equal(t, "data/tokens", cfg.Tokens.Dir)
	assert.Empty(t, cfg.Tokens.Networks)
}
