package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestRoundTripYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk.yaml")
	cfg := Default()
	cfg.Account.Balance = 25000
	cfg.AutoTrade.Enabled = true

	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 25000.0, got.Account.Balance)
	assert.True(t, got.AutoTrade.Enabled)
	assert.Len(t, got.Strategies, 3)
}

func TestRoundTripJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk.json")
	cfg := Default()
	cfg.Settings.MaxTradeSize = 2500

	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, got.Settings.MaxTradeSize)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero balance", func(c *Config) { c.Account.Balance = 0 }},
		{"bad risk level", func(c *Config) { c.Settings.RiskLevel = "extreme" }},
		{"zero max trade size", func(c *Config) { c.Settings.MaxTradeSize = 0 }},
		{"unknown feed symbol", func(c *Config) { c.Feed.Symbols = []string{"EUR/XYZ"} }},
		{"bad feed interval", func(c *Config) { c.Feed.Interval = "soonish" }},
		{"duplicate strategy name", func(c *Config) {
			c.Strategies = append(c.Strategies, c.Strategies[0])
		}},
		{"strategy missing period", func(c *Config) { c.Strategies[0].Period = 0 }},
		{"auto trade unknown symbol", func(c *Config) {
			c.AutoTrade.Enabled = true
			c.AutoTrade.Symbol = "NOPE"
		}},
		{"csv journal missing paths", func(c *Config) { c.Journal.TradesFile = "" }},
		{"bad journal type", func(c *Config) { c.Journal.Type = "postgres" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadYAMLDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk.yaml")
	doc := `account:
  id: DESK-042
  currency: USD
  balance: 5000
settings:
  risk_level: low
  max_trade_size: 250
  daily_loss_limit: 100
feed:
  interval: 250ms
  symbols: ["EUR/USD", "Gold"]
journal:
  type: none
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DESK-042", cfg.Account.ID)
	assert.Equal(t, 250.0, cfg.Settings.MaxTradeSize)

	interval, err := cfg.Feed.ParseInterval()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, interval)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
