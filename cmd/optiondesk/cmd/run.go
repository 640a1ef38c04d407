package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/optiondesk/broker"
	"github.com/rustyeddy/optiondesk/config"
	"github.com/rustyeddy/optiondesk/journal"
	"github.com/rustyeddy/optiondesk/market"
	"github.com/rustyeddy/optiondesk/platform"
	"github.com/rustyeddy/optiondesk/risk"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the desk from a config file",
	Long: `Run a live desk session using settings from a configuration file.

The config file specifies the account, trading limits, feed tuning,
strategies and the auto-trade loop. The session runs against the
synthetic feed for the requested duration and prints a summary.

Example:
  optiondesk run -f desk.yaml --duration 30s`,
	RunE: runRun,
}

var (
	runConfigPath string
	runDuration   time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().DurationVar(&runDuration, "duration", 30*time.Second, "how long to run the session")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Printf("Running desk with config: %s\n", runConfigPath)
	fmt.Printf("  Account: %s (Balance: $%.2f %s)\n", cfg.Account.ID, cfg.Account.Balance, cfg.Account.Currency)
	fmt.Printf("  Limits: max trade $%.2f, daily loss limit $%.2f\n",
		cfg.Settings.MaxTradeSize, cfg.Settings.DailyLossLimit)
	fmt.Println()

	var j journal.Journal
	switch cfg.Journal.Type {
	case "csv":
		j, err = journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.BalanceFile)
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	default:
		j = journal.Nop{}
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	feed, err := buildFeed(cfg.Feed)
	if err != nil {
		return err
	}
	if err := feed.Connect(); err != nil {
		return fmt.Errorf("connect feed: %w", err)
	}
	defer feed.Disconnect()

	engine := platform.New(broker.Account{
		ID:       cfg.Account.ID,
		Currency: cfg.Account.Currency,
		Balance:  cfg.Account.Balance,
	}, feed,
		platform.WithJournal(j),
		platform.WithSettings(platform.Settings{
			RiskLevel:      risk.Level(cfg.Settings.RiskLevel),
			MaxTradeSize:   cfg.Settings.MaxTradeSize,
			DailyLossLimit: cfg.Settings.DailyLossLimit,
			AutoTrade:      cfg.AutoTrade.Enabled,
		}),
	)
	defer engine.Close()

	for _, s := range cfg.Strategies {
		if err := engine.Registry().Register(s.Name, s.Strategy()); err != nil {
			return fmt.Errorf("register strategy: %w", err)
		}
		if s.Active {
			if err := engine.Registry().Activate(s.Name); err != nil {
				return fmt.Errorf("activate strategy: %w", err)
			}
		}
		fmt.Printf("Strategy %-12s %-16s active=%v\n", s.Name, s.Kind, s.Active)
	}

	if cfg.AutoTrade.Enabled {
		at := platform.NewAutoTrader(engine, platform.AutoTraderConfig{
			Symbol: cfg.AutoTrade.Symbol,
			Stake:  cfg.AutoTrade.Stake,
			Expiry: cfg.AutoTrade.Expiry,
		})
		if err := at.Start(); err != nil {
			return fmt.Errorf("start auto trader: %w", err)
		}
		defer at.Stop()
		fmt.Printf("Auto-trade on %s, $%.2f per trade, %s expiry\n",
			cfg.AutoTrade.Symbol, cfg.AutoTrade.Stake, cfg.AutoTrade.Expiry)
	}

	fmt.Printf("\nRunning for %s...\n\n", runDuration)
	time.Sleep(runDuration)

	state := engine.GetState()
	fmt.Printf("Session Results:\n")
	fmt.Printf("  Balance: $%.2f\n", state.Balance)
	fmt.Printf("  Open Trades: %d (exposure $%.2f)\n", len(state.OpenTrades), state.Risk.TotalExposure)
	fmt.Printf("  Settled Trades: %d (win rate %.1f%%)\n",
		state.Performance.TotalTrades, state.Performance.WinRate)
	fmt.Printf("  Total Profit/Loss: $%.2f\n", state.Performance.TotalProfit)
	for name, perf := range state.Strategies {
		if perf.TotalTrades == 0 {
			continue
		}
		fmt.Printf("  Strategy %-12s trades=%d win=%.1f%% pl=$%.2f\n",
			name, perf.TotalTrades, perf.WinRate(), perf.TotalPL)
	}

	return nil
}

func buildFeed(fc config.FeedConfig) (*broker.Demo, error) {
	var opts []broker.DemoOption

	if iv, err := fc.ParseInterval(); err != nil {
		return nil, fmt.Errorf("feed interval: %w", err)
	} else if iv > 0 {
		opts = append(opts, broker.WithInterval(iv))
	}
	if lat, err := fc.ParseLatency(); err != nil {
		return nil, fmt.Errorf("feed latency: %w", err)
	} else if lat > 0 {
		opts = append(opts, broker.WithLatency(lat))
	}
	if len(fc.Symbols) > 0 {
		subset := make(map[string]market.SymbolMeta, len(fc.Symbols))
		for _, sym := range fc.Symbols {
			meta, ok := market.Symbols[sym]
			if !ok {
				return nil, fmt.Errorf("unknown symbol: %s", sym)
			}
			subset[sym] = meta
		}
		opts = append(opts, broker.WithSymbols(subset))
	}
	if fc.Seed != 0 {
		opts = append(opts, broker.WithSeed(fc.Seed))
	}
	if fc.Drift {
		opts = append(opts, broker.WithDrift())
	}

	return broker.NewDemo(opts...), nil
}
