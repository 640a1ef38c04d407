package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "optiondesk",
	Short: "A binary-options trading desk simulator",
	Long: `Optiondesk is a binary-options trading desk simulator written in Go.

It provides tools for:
  - Placing fixed-payout call/put trades against a synthetic price feed
  - Automatic trading with trend, mean-reversion and breakout strategies
  - Risk limits: stake checks, max trade size, daily loss circuit breaker
  - Performance tracking per account and per strategy
  - Replaying scripted market scenarios deterministically
  - Journaling settlements to CSV or SQLite

Complete documentation is available at https://github.com/rustyeddy/optiondesk`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
