// Package risk holds the account-level trade checks and exposure math the
// platform engine applies before and after order placement.
package risk

import (
	"errors"
	"fmt"
)

var (
	ErrBelowMinimum        = errors.New("trade amount below minimum")
	ErrExceedsMaxTradeSize = errors.New("trade amount exceeds maximum trade size")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDailyLossLimit      = errors.New("daily loss limit reached")
)

// CheckStake validates a stake against the account, in fixed order:
// minimum floor, max trade size, then available balance. The first
// violated check wins; a rejected stake leaves no state to unwind.
func CheckStake(amount, minimum, maxTradeSize, balance float64) error {
	if amount < minimum {
		return fmt.Errorf("amount %.2f: %w (minimum %.2f)", amount, ErrBelowMinimum, minimum)
	}
	if amount > maxTradeSize {
		return fmt.Errorf("amount %.2f: %w (max %.2f)", amount, ErrExceedsMaxTradeSize, maxTradeSize)
	}
	if amount > balance {
		return fmt.Errorf("amount %.2f: %w (balance %.2f)", amount, ErrInsufficientBalance, balance)
	}
	return nil
}

// CheckDailyLoss is the circuit breaker on realized losses since the start
// of the trading day. A limit of 0 disables it.
func CheckDailyLoss(realizedLoss, limit float64) error {
	if limit <= 0 {
		return nil
	}
	if realizedLoss >= limit {
		return fmt.Errorf("realized loss %.2f: %w (limit %.2f)", realizedLoss, ErrDailyLossLimit, limit)
	}
	return nil
}
