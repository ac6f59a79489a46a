// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rovshanmuradov/eos-network/internal/types"
)

const (
	QuoterStored = "stored"
	QuoterHTTP   = "http"
)

type QuoterConfig struct {
	Mode      string `mapstructure:"mode"`
	URL       string `mapstructure:"url"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

type PairConfig struct {
	Src    string  `mapstructure:"src"`
	Dest   string  `mapstructure:"dest"`
	Amount float64 `mapstructure:"amount"`
}

type MonitorConfig struct {
	IntervalMS  int          `mapstructure:"interval_ms"`
	MetricsAddr string       `mapstructure:"metrics_addr"`
	Pairs       []PairConfig `mapstructure:"pairs"`
}

type Config struct {
	NodeURL          string               `mapstructure:"node_url"`
	NetworkAccount   string               `mapstructure:"network_account"`
	EOSTokenAccount  string               `mapstructure:"eos_token_account"`
	Concurrency      int                  `mapstructure:"concurrency"`
	RequestTimeoutMS int                  `mapstructure:"request_timeout_ms"`
	StartupRetries   int                  `mapstructure:"startup_retries"`
	KeysFile         string               `mapstructure:"keys_file"`
	DebugLogging     bool                 `mapstructure:"debug_logging"`
	LogFile          string               `mapstructure:"log_file"`
	Slippage         types.SlippageConfig `mapstructure:"slippage"`
	Quoter           QuoterConfig         `mapstructure:"quoter"`
	Monitor          MonitorConfig        `mapstructure:"monitor"`
}

const (
	DefaultEOSTokenAccount  = "eosio.token"
	DefaultConcurrency      = 8
	DefaultRequestTimeoutMS = 10000
	DefaultStartupRetries   = 3
	DefaultQuoterTimeoutMS  = 5000
	DefaultMonitorInterval  = 5000
	DefaultSlippagePercent  = 1.0
	envPrefix               = "EOSNET"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"eos_token_account":   DefaultEOSTokenAccount,
		"concurrency":         DefaultConcurrency,
		"request_timeout_ms":  DefaultRequestTimeoutMS,
		"startup_retries":     DefaultStartupRetries,
		"quoter.mode":         QuoterStored,
		"quoter.timeout_ms":   DefaultQuoterTimeoutMS,
		"monitor.interval_ms": DefaultMonitorInterval,
		"slippage.type":       string(types.SlippagePercent),
		"slippage.value":      DefaultSlippagePercent,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config error: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

// RequestTimeout returns the per-RPC deadline.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// QuoterTimeout returns the rate-service request deadline.
func (c *Config) QuoterTimeout() time.Duration {
	return time.Duration(c.Quoter.TimeoutMS) * time.Millisecond
}

// MonitorInterval returns the rate polling period.
func (c *Config) MonitorInterval() time.Duration {
	return time.Duration(c.Monitor.IntervalMS) * time.Millisecond
}

func validateConfig(cfg *Config) error {
	if cfg.NodeURL == "" {
		return errors.New("node_url is empty")
	}
	if err := validateURL(cfg.NodeURL, "http"); err != nil {
		return fmt.Errorf("invalid node_url: %w", err)
	}
	if cfg.NetworkAccount == "" {
		return errors.New("network_account is empty")
	}
	if cfg.EOSTokenAccount == "" {
		return errors.New("eos_token_account is empty")
	}

	switch cfg.Quoter.Mode {
	case QuoterStored:
	case QuoterHTTP:
		if cfg.Quoter.URL == "" {
			return errors.New("quoter.url is required in http mode")
		}
		if err := validateURL(cfg.Quoter.URL, "http"); err != nil {
			return fmt.Errorf("invalid quoter.url: %w", err)
		}
	default:
		return fmt.Errorf("unknown quoter.mode %q", cfg.Quoter.Mode)
	}

	if err := cfg.Slippage.Validate(); err != nil {
		return err
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.Concurrency <= 0 {
		return errors.New("invalid concurrency")
	}
	if cfg.RequestTimeoutMS <= 0 {
		return errors.New("invalid request_timeout_ms")
	}
	if cfg.StartupRetries <= 0 {
		return errors.New("invalid startup_retries")
	}
	if cfg.Quoter.TimeoutMS <= 0 {
		return errors.New("invalid quoter.timeout_ms")
	}
	if cfg.Monitor.IntervalMS <= 0 {
		return errors.New("invalid monitor.interval_ms")
	}
	for i, p := range cfg.Monitor.Pairs {
		if p.Src == "" || p.Dest == "" {
			return fmt.Errorf("monitor.pairs[%d]: src and dest are required", i)
		}
		if p.Amount < 0 {
			return fmt.Errorf("monitor.pairs[%d]: negative amount", i)
		}
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) || parsed.Host == "" {
		return errors.New("invalid URL protocol")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if envNode := v.GetString("NODE_URL"); envNode != "" {
		cfg.NodeURL = strings.TrimSpace(envNode)
	}
	if envNetwork := v.GetString("NETWORK_ACCOUNT"); envNetwork != "" {
		cfg.NetworkAccount = strings.TrimSpace(envNetwork)
	}
	if envQuoter := v.GetString("QUOTER_URL"); envQuoter != "" {
		cfg.Quoter.URL = strings.TrimSpace(envQuoter)
	}
	if envKeys := v.GetString("KEYS_FILE"); envKeys != "" {
		cfg.KeysFile = strings.TrimSpace(envKeys)
	}
}
