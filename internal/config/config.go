package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Logging       LoggingConfig       `yaml:"logging"`
	Helius        HeliusConfig        `yaml:"helius"`
	Moralis       MoralisConfig       `yaml:"moralis"`
	DEXScreener   DEXScreenerConfig   `yaml:"dexScreener"`
	Jupiter       JupiterConfig       `yaml:"jupiter"`
	ExchangeRate  ExchangeRateConfig  `yaml:"exchangeRate"`
	PriceResolver PriceResolverConfig `yaml:"priceResolver"`
	Portfolio     PortfolioConfig     `yaml:"portfolio"`
	Storage       StorageConfig       `yaml:"storage"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// HeliusConfig holds the node-RPC provider configuration. The API key is a
// UUID provisioned per account.
type HeliusConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// MoralisConfig holds the token-index provider configuration. The API key is
// a JWT.
type MoralisConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// DEXScreenerConfig holds the primary price provider configuration.
type DEXScreenerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// JupiterConfig holds the secondary price provider configuration.
type JupiterConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// ExchangeRateConfig holds the fiat rate provider configuration.
type ExchangeRateConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// PriceResolverConfig holds configuration for the price fallback chain.
type PriceResolverConfig struct {
	MaxMintsPerBatchRequest int `yaml:"maxMintsPerBatchRequest"`
	QuoteCacheTTLSeconds    int `yaml:"quoteCacheTTLSeconds"`
	RateLimit               int `yaml:"rateLimit"`
	BurstLimit              int `yaml:"burstLimit"`
}

// PortfolioConfig holds configuration for the aggregation cycle.
type PortfolioConfig struct {
	MaxConcurrentWallets   int `yaml:"maxConcurrentWallets"`
	RefreshIntervalSeconds int `yaml:"refreshIntervalSeconds"`
}

// StorageConfig holds configuration for the local key/value store.
type StorageConfig struct {
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// LoadConfig loads configuration from a YAML file and applies defaults.
// API keys may also arrive via HELIUS_API_KEY / MORALIS_API_KEY, which take
// precedence over the file.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	if key := os.Getenv("HELIUS_API_KEY"); key != "" {
		cfg.Helius.APIKey = key
	}
	if key := os.Getenv("MORALIS_API_KEY"); key != "" {
		cfg.Moralis.APIKey = key
	}

	applyDefaults(&cfg)

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Helius.BaseURL == "" {
		cfg.Helius.BaseURL = "https://mainnet.helius-rpc.com"
	}
	if cfg.Helius.RequestTimeoutMillis == 0 {
		cfg.Helius.RequestTimeoutMillis = 10000
	}

	if cfg.Moralis.BaseURL == "" {
		cfg.Moralis.BaseURL = "https://solana-gateway.moralis.io"
	}
	if cfg.Moralis.RequestTimeoutMillis == 0 {
		cfg.Moralis.RequestTimeoutMillis = 10000
	}

	if cfg.DEXScreener.BaseURL == "" {
		cfg.DEXScreener.BaseURL = "https://api.dexscreener.com"
		logrus.Infof("DEXScreener.BaseURL not set, defaulting to %s", cfg.DEXScreener.BaseURL)
	}
	if cfg.DEXScreener.RequestTimeoutMillis == 0 {
		cfg.DEXScreener.RequestTimeoutMillis = 10000
	}

	if cfg.Jupiter.BaseURL == "" {
		cfg.Jupiter.BaseURL = "https://api.jup.ag"
	}
	if cfg.Jupiter.RequestTimeoutMillis == 0 {
		cfg.Jupiter.RequestTimeoutMillis = 5000
	}

	if cfg.ExchangeRate.BaseURL == "" {
		cfg.ExchangeRate.BaseURL = "https://api.exchangerate-api.com"
	}
	if cfg.ExchangeRate.RequestTimeoutMillis == 0 {
		cfg.ExchangeRate.RequestTimeoutMillis = 10000
	}

	if cfg.PriceResolver.MaxMintsPerBatchRequest == 0 {
		cfg.PriceResolver.MaxMintsPerBatchRequest = 30 // DEXScreener limit
		logrus.Infof("MaxMintsPerBatchRequest not set, defaulting to %d", cfg.PriceResolver.MaxMintsPerBatchRequest)
	}
	// QuoteCacheTTLSeconds stays 0 unless configured: quotes are fetched per
	// refresh cycle, never carried across cycles.
	if cfg.PriceResolver.RateLimit <= 0 {
		cfg.PriceResolver.RateLimit = 5
	}
	if cfg.PriceResolver.BurstLimit <= 0 {
		cfg.PriceResolver.BurstLimit = 5
	}

	if cfg.Portfolio.MaxConcurrentWallets <= 0 {
		cfg.Portfolio.MaxConcurrentWallets = 4
	}
	if cfg.Portfolio.RefreshIntervalSeconds <= 0 {
		cfg.Portfolio.RefreshIntervalSeconds = 60
	}

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "data/store.json"
	}
	if cfg.Storage.Namespace == "" {
		cfg.Storage.Namespace = "solana-portfolio"
	}
}

var heliusKeyPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// IsValidHeliusKey reports whether a node-RPC API key has the expected UUID
// shape.
func IsValidHeliusKey(key string) bool {
	return heliusKeyPattern.MatchString(strings.ToLower(key))
}

// IsValidMoralisKey reports whether a token-index API key has the expected
// JWT shape: three non-empty dot-separated segments.
func IsValidMoralisKey(key string) bool {
	parts := strings.Split(key, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	return true
}
