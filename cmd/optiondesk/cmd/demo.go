package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/optiondesk/broker"
	"github.com/rustyeddy/optiondesk/internal/clock"
	"github.com/rustyeddy/optiondesk/journal"
	"github.com/rustyeddy/optiondesk/market"
	"github.com/rustyeddy/optiondesk/platform"
	"github.com/rustyeddy/optiondesk/strategies"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run example desk sessions and demos",
	Long: `Run various example sessions to learn how the desk works.

Available demos:
  basic      - Place a single call option and settle it at expiry
  strategies - Show how each strategy kind reads a price history
  feed       - Stream live synthetic quotes for a few seconds

Examples:
  optiondesk demo basic
  optiondesk demo strategies`,
}

var demoBasicCmd = &cobra.Command{
	Use:   "basic",
	Short: "Run a basic single trade demo",
	Long: `Demonstrates a single fixed-payout call option.

Shows the basic workflow of:
  1. Connecting the demo broker
  2. Placing a call with a one-minute expiry
  3. Watching the mark-to-market move with the feed
  4. Settling at expiry and reading the outcome`,
	RunE: runDemoBasic,
}

var demoStrategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Run a strategy evaluation demo",
	Long: `Evaluates each built-in strategy kind against the same price history.

Shows how:
  - Trend-following compares the latest price to a moving average
  - Mean-reversion reads RSI oversold/overbought levels
  - Breakout watches for escapes from the recent range`,
	RunE: runDemoStrategies,
}

var demoFeedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Stream synthetic quotes",
	Long: `Subscribes to the synthetic feed and prints a few seconds of quotes
for every tradable symbol.`,
	RunE: runDemoFeed,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.AddCommand(demoBasicCmd)
	demoCmd.AddCommand(demoStrategiesCmd)
	demoCmd.AddCommand(demoFeedCmd)
}

func runDemoBasic(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Println("=== Basic Trade Demo ===")
	fmt.Println()

	j, err := journal.NewCSV("./demo-trades.csv", "./demo-balance.csv")
	if err != nil {
		return err
	}
	defer j.Close()

	// A manual clock lets the demo jump straight to expiry instead of
	// waiting a real minute.
	clk := clock.NewManual(time.Now())
	feed := broker.NewDemo(broker.WithClock(clk), broker.WithSeed(7))
	if err := feed.Connect(); err != nil {
		return err
	}
	defer feed.Disconnect()

	engine := platform.New(broker.Account{
		ID:       "DEMO-001",
		Currency: "USD",
		Balance:  10_000,
	}, feed, platform.WithClock(clk), platform.WithJournal(j))
	defer engine.Close()

	q, err := feed.Quote(ctx, "EUR/USD")
	if err != nil {
		return err
	}
	fmt.Printf("Initial Price - Bid: %.4f, Ask: %.4f\n", q.Bid, q.Ask)
	fmt.Printf("Starting Balance: $%.2f\n\n", engine.Account().Balance)

	fmt.Println("Placing CALL option:")
	tr, err := engine.PlaceTrade(ctx, "EUR/USD", platform.Call, 100, "1m")
	if err != nil {
		return err
	}
	fmt.Printf("  Trade ID: %s\n", tr.ID)
	fmt.Printf("  Entry: %.4f\n", tr.EntryPrice)
	fmt.Printf("  Stake: $%.2f, Payout on win: $%.2f\n", tr.Amount, tr.Payout)
	fmt.Printf("  Expires: %s\n\n", tr.ExpiresAt.Format(time.Kitchen))

	fmt.Println("Advancing the market to expiry...")
	clk.Advance(time.Minute)

	state := engine.GetState()
	if len(state.History) == 0 {
		return fmt.Errorf("trade did not settle")
	}
	settled := state.History[0]

	fmt.Printf("\nSettlement:\n")
	fmt.Printf("  Exit: %.4f (%s)\n", settled.ExitPrice, settled.Status)
	fmt.Printf("  Profit/Loss: $%.2f\n", settled.Profit)
	fmt.Printf("  Ending Balance: $%.2f\n", state.Balance)
	fmt.Printf("\n✓ Check demo-trades.csv and demo-balance.csv for detailed records.\n")

	return nil
}

func runDemoStrategies(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Strategy Evaluation Demo ===")
	fmt.Println()

	// A dip followed by a sharp rally, oldest first.
	history := []float64{
		1.0850, 1.0846, 1.0841, 1.0837, 1.0832,
		1.0828, 1.0824, 1.0821, 1.0826, 1.0834,
		1.0845, 1.0858, 1.0872, 1.0888, 1.0905,
	}

	fmt.Printf("Price history (%d samples): %.4f ... %.4f\n\n",
		len(history), history[0], history[len(history)-1])

	configs := []struct {
		name string
		cfg  strategies.Config
	}{
		{"trend", strategies.Config{Kind: strategies.TrendFollowing, Period: 10, Threshold: 0.001}},
		{"reversion", strategies.Config{Kind: strategies.MeanReversion, Period: 14}},
		{"breakout", strategies.Config{Kind: strategies.Breakout, Period: 5, BreakoutThreshold: 0.002}},
	}

	for _, c := range configs {
		d, err := strategies.Evaluate(c.cfg, history)
		if err != nil {
			return err
		}
		fmt.Printf("%-10s (%s):\n", c.name, c.cfg.Kind)
		fmt.Printf("  Signal: %s\n", d.Signal)
		fmt.Printf("  Reason: %s\n\n", d.Reason)
	}

	fmt.Printf("RSI over the last 14 deltas: %.1f\n", strategies.RSI(history, 14))
	return nil
}

func runDemoFeed(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Synthetic Feed Demo ===")
	fmt.Println()

	feed := broker.NewDemo(broker.WithInterval(500 * time.Millisecond))
	if err := feed.Connect(); err != nil {
		return err
	}
	defer feed.Disconnect()

	var subs []broker.Subscription
	for _, meta := range feed.Assets() {
		sub, err := feed.Subscribe(meta.Symbol, func(q market.Quote) {
			fmt.Printf("%-8s %-10s bid=%-12.4f ask=%-12.4f\n",
				q.Time.Format("15:04:05"), q.Symbol, q.Bid, q.Ask)
		})
		if err != nil {
			return err
		}
		subs = append(subs, sub)
	}

	time.Sleep(3 * time.Second)

	for _, sub := range subs {
		feed.Unsubscribe(sub)
	}
	fmt.Println("\n✓ Feed demo complete.")
	return nil
}
