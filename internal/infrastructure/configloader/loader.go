package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"bridge_router/internal/domain/entity"
	networkdefinition "bridge_router/internal/infrastructure/network/definition"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath            = "config/config.yaml"
	DefaultUpstreamBaseURL = "https://price-api.mayan.finance/v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port            string   `yaml:"port"`
	ReadTimeout     int      `yaml:"readTimeout"`     // seconds
	WriteTimeout    int      `yaml:"writeTimeout"`    // seconds
	IdleTimeout     int      `yaml:"idleTimeout"`     // seconds
	ShutdownTimeout int      `yaml:"shutdownTimeout"` // seconds
	AllowedOrigins  []string `yaml:"allowedOrigins"`
	StaticDir       string   `yaml:"staticDir"`
	MaxBodyBytes    int64    `yaml:"maxBodyBytes"`
}

// Addr returns the listen address for net/http.
func (s ServerConfig) Addr() string {
	if strings.Contains(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// FeesConfig holds the protocol fee and the referrer identity sent upstream.
type FeesConfig struct {
	// FeeBpsRaw is kept as text so a malformed value can fall back to the default.
	FeeBpsRaw       string `yaml:"feeBps"`
	FeeBps          int64  `yaml:"-"`
	ReferrerAddress string `yaml:"referrerAddress"`
	ReferrerBps     *int64 `yaml:"referrerBps"` // defaults to FeeBps
}

// UpstreamConfig holds the route provider client settings.
type UpstreamConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	// RefuelGasDrop is the native amount requested on the destination chain when refuel is on.
	RefuelGasDrop map[string]string `yaml:"refuelGasDrop"`
}

// RequestTimeout returns the default upstream timeout.
func (u UpstreamConfig) RequestTimeout() time.Duration {
	return time.Duration(u.RequestTimeoutMillis) * time.Millisecond
}

// RateLimitConfig configures the per-client limiter on quote and swap endpoints.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requestsPerMinute"`
	Burst             int `yaml:"burst"`
	IdleTTLMinutes    int `yaml:"idleTTLMinutes"`
}

// TokensConfig configures the token whitelist.
type TokensConfig struct {
	Dir      string   `yaml:"dir"`
	Networks []string `yaml:"networks"` // empty means every known network
}

// DefaultsConfig holds request defaults.
type DefaultsConfig struct {
	TokenSymbol string `yaml:"tokenSymbol"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Fees      FeesConfig      `yaml:"fees"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Tokens    TokensConfig    `yaml:"tokens"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads the YAML configuration file, applies environment overrides and defaults.
// A missing file is not an error: defaults and the environment are used.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, lookup LookupFunc) (*Config, error) {
	var cfg Config

	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		logrus.Warnf("Config file %s not found, using defaults and environment", path)
	default:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnv(&cfg, lookup)
	applyDefaults(&cfg)

	if err := resolveFees(&cfg.Fees); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func firstEnv(lookup LookupFunc, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func applyEnv(cfg *Config, lookup LookupFunc) {
	if v, ok := firstEnv(lookup, "PORT"); ok {
		cfg.Server.Port = v
	}
	if v, ok := firstEnv(lookup, "FEE_BPS", "MAYAN_REFERRER_BPS", "MAYAN_FEE_BPS"); ok {
		cfg.Fees.FeeBpsRaw = v
	}
	if v, ok := firstEnv(lookup, "REFERRER_ADDRESS"); ok {
		cfg.Fees.ReferrerAddress = v
	}
	if v, ok := firstEnv(lookup, "FRONTEND_ORIGIN"); ok {
		cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, v)
	}
	if v, ok := firstEnv(lookup, "LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := firstEnv(lookup, "MAYAN_PRICE_API"); ok {
		cfg.Upstream.BaseURL = v
	}
	if v, ok := firstEnv(lookup, "STATIC_DIR"); ok {
		cfg.Server.StaticDir = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "3000"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 5
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = 200 << 10
	}
	cfg.Server.AllowedOrigins = mergeOrigins(
		[]string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"},
		cfg.Server.AllowedOrigins,
	)

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = DefaultUpstreamBaseURL
	}
	if cfg.Upstream.RequestTimeoutMillis <= 0 {
		cfg.Upstream.RequestTimeoutMillis = 10000
		logrus.Infof("Upstream.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Upstream.RequestTimeoutMillis)
	}
	if cfg.Upstream.RefuelGasDrop == nil {
		cfg.Upstream.RefuelGasDrop = map[string]string{
			"solana":    "0.01",
			"ethereum":  "0.002",
			"bsc":       "0.005",
			"polygon":   "1",
			"avalanche": "0.05",
			"arbitrum":  "0.0005",
			"base":      "0.0005",
			"optimism":  "0.0005",
		}
	}

	if cfg.RateLimit.RequestsPerMinute <= 0 {
		cfg.RateLimit.RequestsPerMinute = 60
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = cfg.RateLimit.RequestsPerMinute
	}
	if cfg.RateLimit.IdleTTLMinutes <= 0 {
		cfg.RateLimit.IdleTTLMinutes = 10
	}

	if cfg.Tokens.Dir == "" {
		cfg.Tokens.Dir = "data/tokens"
	}
	if cfg.Defaults.TokenSymbol == "" {
		cfg.Defaults.TokenSymbol = "USDC"
	}
	cfg.Defaults.TokenSymbol = strings.ToUpper(cfg.Defaults.TokenSymbol)
}

func mergeOrigins(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, o := range append(append([]string{}, base...), extra...) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}

// resolveFees parses the fee rate, falling back to the default on bad input, and checks the referrer.
func resolveFees(f *FeesConfig) error {
	bps, err := entity.ParseFeeBps(f.FeeBpsRaw)
	if err != nil {
		logrus.Warnf("%v; using default of %d bps", err, entity.DefaultFeeBps)
	}
	f.FeeBps = bps

	if f.ReferrerBps == nil {
		f.ReferrerBps = &bps
	} else if *f.ReferrerBps < 0 || *f.ReferrerBps > entity.BpsDenominator {
		return fmt.Errorf("%w: referrerBps %d out of range", entity.ErrInvalidFeeConfig, *f.ReferrerBps)
	}

	if f.ReferrerAddress != "" {
		addr, err := normalizeReferrer(f.ReferrerAddress)
		if err != nil {
			return fmt.Errorf("invalid referrer address: %w", err)
		}
		f.ReferrerAddress = addr
	}
	return nil
}

// normalizeReferrer accepts either an EVM or a Solana address.
func normalizeReferrer(addr string) (string, error) {
	if strings.HasPrefix(strings.TrimSpace(addr), "0x") {
		return networkdefinition.NormalizeAddress(entity.FamilyEVM, addr)
	}
	return networkdefinition.NormalizeAddress(entity.FamilySolana, addr)
}

// ReferrerBpsValue returns the referrer rate sent upstream.
func (f FeesConfig) ReferrerBpsValue() int64 {
	if f.ReferrerBps == nil {
		return f.FeeBps
	}
	return *f.ReferrerBps
}

