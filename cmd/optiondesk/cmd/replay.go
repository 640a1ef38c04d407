package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/optiondesk/broker"
	"github.com/rustyeddy/optiondesk/journal"
	"github.com/rustyeddy/optiondesk/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a scripted market scenario from CSV",
	Long: `Replay a CSV scenario through the trading engine on a manual clock.

Rows are time,symbol,bid,ask,event,arg1,arg2,arg3; a PLACE event opens a
trade (direction, amount, expiry label) and settlements fire at the
scripted timestamps.

Examples:
  optiondesk replay -s scenarios/rally.csv
  optiondesk replay -s scenarios/rally.csv --db desk.sqlite`,
	RunE: runReplay,
}

var (
	replayScenarioPath string
	replayBalance      float64
	replayDBPath       string
	replaySettleEnd    bool
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayScenarioPath, "scenario", "s", "", "CSV scenario file (required)")
	replayCmd.Flags().Float64Var(&replayBalance, "balance", 10_000, "starting account balance")
	replayCmd.Flags().StringVarP(&replayDBPath, "db", "d", "", "SQLite journal path (optional)")
	replayCmd.Flags().BoolVar(&replaySettleEnd, "settle-end", true, "settle remaining open trades at end")
	replayCmd.MarkFlagRequired("scenario")
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	opts := replay.Options{SettleRemaining: replaySettleEnd}
	if replayDBPath != "" {
		j, err := journal.NewSQLite(replayDBPath)
		if err != nil {
			return fmt.Errorf("create journal: %w", err)
		}
		defer j.Close()
		opts.Journal = j
	}

	fmt.Printf("Replaying scenario: %s\n", replayScenarioPath)

	state, err := replay.CSV(ctx, replayScenarioPath, broker.Account{
		ID:       "DESK-REPLAY",
		Currency: "USD",
		Balance:  replayBalance,
	}, opts)
	if err != nil {
		return fmt.Errorf("replay error: %w", err)
	}

	fmt.Printf("\nReplay complete!\n")
	fmt.Printf("  Balance: $%.2f\n", state.Balance)
	fmt.Printf("  Settled Trades: %d (win rate %.1f%%)\n",
		state.Performance.TotalTrades, state.Performance.WinRate)
	fmt.Printf("  Profit/Loss: $%.2f\n", state.Balance-replayBalance)
	for _, tr := range state.History {
		fmt.Printf("  %-8s %-10s $%-8.2f entry=%.4f exit=%.4f %s\n",
			tr.Direction, tr.Symbol, tr.Amount, tr.EntryPrice, tr.ExitPrice, tr.Status)
	}
	if len(state.OpenTrades) > 0 {
		fmt.Printf("  Still open: %d trades\n", len(state.OpenTrades))
	}
	if replayDBPath != "" {
		fmt.Printf("\nResults saved to: %s\n", replayDBPath)
	}

	return nil
}
