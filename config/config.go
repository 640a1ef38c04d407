package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/optiondesk/market"
	"github.com/rustyeddy/optiondesk/strategies"
)

// Config represents the complete desk configuration
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Settings   SettingsConfig   `json:"settings" yaml:"settings"`
	Feed       FeedConfig       `json:"feed" yaml:"feed"`
	Strategies []StrategyConfig `json:"strategies,omitempty" yaml:"strategies,omitempty"`
	AutoTrade  AutoTradeConfig  `json:"auto_trade" yaml:"auto_trade"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// SettingsConfig contains the trading limits applied at startup
type SettingsConfig struct {
	RiskLevel      string  `json:"risk_level" yaml:"risk_level"` // low, medium, high
	MaxTradeSize   float64 `json:"max_trade_size" yaml:"max_trade_size"`
	DailyLossLimit float64 `json:"daily_loss_limit" yaml:"daily_loss_limit"`
}

// FeedConfig tunes the synthetic price feed
type FeedConfig struct {
	Interval string   `json:"interval,omitempty" yaml:"interval,omitempty"` // e.g. "1s", "250ms"
	Latency  string   `json:"latency,omitempty" yaml:"latency,omitempty"`
	Symbols  []string `json:"symbols,omitempty" yaml:"symbols,omitempty"` // subset of the symbol table; empty means all
	Seed     int64    `json:"seed,omitempty" yaml:"seed,omitempty"`
	Drift    bool     `json:"drift,omitempty" yaml:"drift,omitempty"` // random-walk quote center instead of the fixed base
}

// ParseInterval converts the interval string to time.Duration
func (f FeedConfig) ParseInterval() (time.Duration, error) {
	if f.Interval == "" {
		return 0, nil
	}
	return time.ParseDuration(f.Interval)
}

// ParseLatency converts the latency string to time.Duration
func (f FeedConfig) ParseLatency() (time.Duration, error) {
	if f.Latency == "" {
		return 0, nil
	}
	return time.ParseDuration(f.Latency)
}

// StrategyConfig names one strategy and its parameters
type StrategyConfig struct {
	Name              string  `json:"name" yaml:"name"`
	Kind              string  `json:"kind" yaml:"kind"`
	Period            int     `json:"period" yaml:"period"`
	Threshold         float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	BreakoutThreshold float64 `json:"breakout_threshold,omitempty" yaml:"breakout_threshold,omitempty"`
	Active            bool    `json:"active" yaml:"active"`
}

// Strategy converts the entry to a strategies.Config
func (s StrategyConfig) Strategy() strategies.Config {
	return strategies.Config{
		Kind:              strategies.Kind(s.Kind),
		Period:            s.Period,
		Threshold:         s.Threshold,
		BreakoutThreshold: s.BreakoutThreshold,
	}
}

// AutoTradeConfig controls the automatic trading loop
type AutoTradeConfig struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Symbol  string  `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Stake   float64 `json:"stake,omitempty" yaml:"stake,omitempty"`
	Expiry  string  `json:"expiry,omitempty" yaml:"expiry,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile  string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	BalanceFile string `json:"balance_file,omitempty" yaml:"balance_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	switch c.Settings.RiskLevel {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("settings.risk_level must be low, medium or high")
	}
	if c.Settings.MaxTradeSize <= 0 {
		return fmt.Errorf("settings.max_trade_size must be positive")
	}
	if c.Settings.DailyLossLimit < 0 {
		return fmt.Errorf("settings.daily_loss_limit must not be negative")
	}
	if _, err := c.Feed.ParseInterval(); err != nil {
		return fmt.Errorf("feed.interval: %w", err)
	}
	if _, err := c.Feed.ParseLatency(); err != nil {
		return fmt.Errorf("feed.latency: %w", err)
	}
	for _, sym := range c.Feed.Symbols {
		if _, ok := market.Symbols[sym]; !ok {
			return fmt.Errorf("unknown symbol: %s", sym)
		}
	}
	seen := make(map[string]bool)
	for _, s := range c.Strategies {
		if s.Name == "" {
			return fmt.Errorf("strategy name is required")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate strategy name: %s", s.Name)
		}
		seen[s.Name] = true
		if err := s.Strategy().Validate(); err != nil {
			return fmt.Errorf("strategy %s: %w", s.Name, err)
		}
	}
	if c.AutoTrade.Enabled {
		if _, ok := market.Symbols[c.AutoTrade.Symbol]; !ok {
			return fmt.Errorf("auto_trade.symbol: unknown symbol %q", c.AutoTrade.Symbol)
		}
		if c.AutoTrade.Stake <= 0 {
			return fmt.Errorf("auto_trade.stake must be positive")
		}
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.BalanceFile == "" {
			return fmt.Errorf("journal trades_file and balance_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "DESK-001",
			Currency: "USD",
			Balance:  10000,
		},
		Settings: SettingsConfig{
			RiskLevel:      "medium",
			MaxTradeSize:   1000,
			DailyLossLimit: 500,
		},
		Feed: FeedConfig{
			Interval: "1s",
			Drift:    true,
		},
		Strategies: []StrategyConfig{
			{Name: "trend", Kind: "trend-following", Period: 10, Threshold: 0.001},
			{Name: "reversion", Kind: "mean-reversion", Period: 14},
			{Name: "breakout", Kind: "breakout", Period: 10, BreakoutThreshold: 0.002},
		},
		AutoTrade: AutoTradeConfig{
			Enabled: false,
			Symbol:  "EUR/USD",
			Stake:   50,
			Expiry:  "1m",
		},
		Journal: JournalConfig{
			Type:        "csv",
			TradesFile:  "./trades.csv",
			BalanceFile: "./balance.csv",
		},
	}
}
