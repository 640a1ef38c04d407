// Package strategies turns price history into directional signals and
// tracks per-strategy performance.
package strategies

import (
	"errors"
	"fmt"
)

type Signal int

const (
	Hold Signal = iota
	Call
	Put
)

func (s Signal) String() string {
	switch s {
	case Call:
		return "CALL"
	case Put:
		return "PUT"
	default:
		return "HOLD"
	}
}

// Kind selects the evaluation rule for a strategy configuration.
type Kind string

const (
	TrendFollowing Kind = "trend-following"
	MeanReversion  Kind = "mean-reversion"
	Breakout       Kind = "breakout"
)

var (
	ErrUnknownKind      = errors.New("unknown strategy kind")
	ErrUnknownStrategy  = errors.New("unknown strategy")
	ErrMissingPeriod    = errors.New("period must be positive")
	ErrMissingThreshold = errors.New("threshold must be positive")
)

// Config is a tagged strategy variant: Kind picks the rule, the remaining
// fields parameterize it.
type Config struct {
	Kind              Kind    `json:"kind" yaml:"kind"`
	Period            int     `json:"period" yaml:"period"`
	Threshold         float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	BreakoutThreshold float64 `json:"breakout_threshold,omitempty" yaml:"breakout_threshold,omitempty"`
}

// Validate checks the per-kind required parameters.
func (c Config) Validate() error {
	if c.Period <= 0 {
		return fmt.Errorf("%s: %w", c.Kind, ErrMissingPeriod)
	}
	switch c.Kind {
	case TrendFollowing:
		if c.Threshold <= 0 {
			return fmt.Errorf("%s: %w", c.Kind, ErrMissingThreshold)
		}
	case MeanReversion:
		// RSI thresholds are fixed at 30/70.
	case Breakout:
		if c.BreakoutThreshold <= 0 {
			return fmt.Errorf("%s: %w", c.Kind, ErrMissingThreshold)
		}
	default:
		return fmt.Errorf("%q: %w", c.Kind, ErrUnknownKind)
	}
	return nil
}

// Decision is a strategy's output for one history snapshot.
type Decision struct {
	Signal Signal
	Reason string
}
