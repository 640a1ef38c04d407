package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders one settled trade as an org-mode subtree: a
// heading, a properties drawer, and empty narrative sections for desk
// notes.
func FormatTradeOrg(t TradeRecord) string {
	shortID := t.TradeID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s (%s)\n", t.Symbol, shortID)
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.TradeID)
	fmt.Fprintf(&b, ":ID: %s\n", t.TradeID)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", t.Symbol)
	fmt.Fprintf(&b, ":DIRECTION: %s\n", t.Direction)
	fmt.Fprintf(&b, ":AMOUNT: %.2f\n", t.Amount)
	fmt.Fprintf(&b, ":ENTRY_PRICE: %.5f\n", t.EntryPrice)
	fmt.Fprintf(&b, ":EXIT_PRICE: %.5f\n", t.ExitPrice)
	fmt.Fprintf(&b, ":OPEN_TIME: %s\n", t.OpenTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":CLOSE_TIME: %s\n", t.CloseTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":PROFIT: %.2f\n", t.Profit)
	fmt.Fprintf(&b, ":OUTCOME: %s\n", t.Outcome)
	if t.Strategy != "" {
		fmt.Fprintf(&b, ":STRATEGY: %s\n", t.Strategy)
	}
	b.WriteString(":END:\n")
	b.WriteString("*** Thesis\n")
	b.WriteString("*** Execution\n")
	b.WriteString("*** Review\n")
	return b.String()
}

// FormatTradesOrg renders a list of trades, blank-line separated.
// An empty list renders as an empty string.
func FormatTradesOrg(trades []TradeRecord) string {
	parts := make([]string, 0, len(trades))
	for _, t := range trades {
		parts = append(parts, FormatTradeOrg(t))
	}
	return strings.Join(parts, "\n\n")
}
