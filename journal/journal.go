// Package journal records settled trades and balance marks to an
// append-only sink. The in-memory ledger stays authoritative; the journal
// is for later analysis only and is never read back at startup.
package journal

import "time"

type TradeRecord struct {
	TradeID    string
	Symbol     string
	Direction  string
	Amount     float64
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	Profit     float64
	Outcome    string // "won", "lost"
	Strategy   string // empty for manual trades
}

// BalanceMark is the account position after a settlement.
type BalanceMark struct {
	Time       time.Time
	Balance    float64
	Exposure   float64
	OpenTrades int
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordBalance(BalanceMark) error
	Close() error
}

// Nop discards everything. It is the engine's default journal.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error   { return nil }
func (Nop) RecordBalance(BalanceMark) error { return nil }
func (Nop) Close() error                    { return nil }
