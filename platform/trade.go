// Package platform owns the binary-options trade lifecycle: order
// placement, mark-to-market on price ticks, timed settlement, and the
// risk/performance views over the ledger.
package platform

import (
	"errors"
	"fmt"
	"time"
)

type Direction int

const (
	Call Direction = iota
	Put
)

func (d Direction) String() string {
	if d == Put {
		return "put"
	}
	return "call"
}

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "call", "CALL":
		return Call, nil
	case "put", "PUT":
		return Put, nil
	}
	return 0, fmt.Errorf("bad direction %q", s)
}

type Status int

const (
	StatusActive Status = iota
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "active"
	}
}

// Trade is a fixed-payout contract: the stake is committed at open and the
// payout (stake × multiplier) is credited only when the price finishes on
// the predicted side of the entry at expiry.
type Trade struct {
	ID         string
	Symbol     string
	Direction  Direction
	Amount     float64
	EntryPrice float64
	OpenTime   time.Time
	ExpiresAt  time.Time
	Payout     float64 // amount × payout multiplier, credited on a win
	Status     Status
	Strategy   string // origin strategy for auto trades, empty otherwise

	// Mark-to-market while active; frozen at settlement values after.
	MarkPrice float64
	MarkPL    float64

	// Settlement results.
	ExitPrice float64
	CloseTime time.Time
	Profit    float64

	// Guards the window between expiry firing and the settlement quote
	// landing: ticks skip the trade and a second settle call is a no-op.
	settling bool
}

// markPL is the informational profit this trade settles at if the mark
// were the exit price. Ties count as a loss for both directions.
func markPL(dir Direction, amount, payout, entry, mark float64) float64 {
	inTheMoney := mark > entry
	if dir == Put {
		inTheMoney = mark < entry
	}
	if inTheMoney {
		return payout - amount
	}
	return -amount
}

// ErrBadExpiry rejects expiry labels outside the enumerated set.
// Labels are never fuzzy-matched or silently defaulted.
var ErrBadExpiry = errors.New("unrecognized expiry label")

// DefaultExpiry applies when no label is given.
const DefaultExpiry = time.Minute

var expiries = map[string]time.Duration{
	"30s": 30 * time.Second,
	"1m":  time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"1h":  time.Hour,
}

// ParseExpiry maps an expiry label to its duration. The empty label means
// DefaultExpiry; anything not in the table fails with ErrBadExpiry.
func ParseExpiry(label string) (time.Duration, error) {
	if label == "" {
		return DefaultExpiry, nil
	}
	d, ok := expiries[label]
	if !ok {
		return 0, fmt.Errorf("%q: %w", label, ErrBadExpiry)
	}
	return d, nil
}
