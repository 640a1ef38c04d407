package strategies

import "fmt"

// Evaluate runs the configured rule over a price history, oldest first.
// It is a pure function: strategies hold no state between evaluations.
// Insufficient history is not an error; it decides Hold.
func Evaluate(cfg Config, history []float64) (Decision, error) {
	switch cfg.Kind {
	case TrendFollowing:
		return evalTrend(cfg, history), nil
	case MeanReversion:
		return evalMeanReversion(cfg, history), nil
	case Breakout:
		return evalBreakout(cfg, history), nil
	default:
		return Decision{}, fmt.Errorf("evaluate %q: %w", cfg.Kind, ErrUnknownKind)
	}
}

// evalTrend compares the latest price against the simple moving average of
// the last Period prices; a move of more than Threshold (fractional) away
// from the average follows the trend.
func evalTrend(cfg Config, history []float64) Decision {
	if len(history) < cfg.Period {
		return Decision{Signal: Hold, Reason: "warming up"}
	}

	sum := 0.0
	for _, p := range history[len(history)-cfg.Period:] {
		sum += p
	}
	sma := sum / float64(cfg.Period)
	latest := history[len(history)-1]

	switch {
	case latest > sma*(1+cfg.Threshold):
		return Decision{Signal: Call, Reason: fmt.Sprintf("price %.5f above sma %.5f", latest, sma)}
	case latest < sma*(1-cfg.Threshold):
		return Decision{Signal: Put, Reason: fmt.Sprintf("price %.5f below sma %.5f", latest, sma)}
	}
	return Decision{Signal: Hold, Reason: "within trend band"}
}

// evalMeanReversion computes a Wilder-style RSI over the last Period price
// deltas. Oversold (<30) expects a bounce up, overbought (>70) a pullback.
func evalMeanReversion(cfg Config, history []float64) Decision {
	// Period deltas need Period+1 samples.
	if len(history) < cfg.Period+1 {
		return Decision{Signal: Hold, Reason: "warming up"}
	}

	rsi := RSI(history, cfg.Period)

	switch {
	case rsi < 30:
		return Decision{Signal: Call, Reason: fmt.Sprintf("rsi %.1f oversold", rsi)}
	case rsi > 70:
		return Decision{Signal: Put, Reason: fmt.Sprintf("rsi %.1f overbought", rsi)}
	}
	return Decision{Signal: Hold, Reason: fmt.Sprintf("rsi %.1f neutral", rsi)}
}

// RSI computes the relative strength index over the last period deltas of
// prices. avgLoss == 0 yields 100 by convention.
func RSI(prices []float64, period int) float64 {
	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := prices[len(prices)-i] - prices[len(prices)-i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// evalBreakout splits the last 2×Period samples into two halves and looks
// for the latest price escaping the previous half's range by more than
// BreakoutThreshold (fractional).
func evalBreakout(cfg Config, history []float64) Decision {
	if len(history) < cfg.Period*2 {
		return Decision{Signal: Hold, Reason: "warming up"}
	}

	previous := history[len(history)-cfg.Period*2 : len(history)-cfg.Period]
	prevHigh, prevLow := previous[0], previous[0]
	for _, p := range previous[1:] {
		if p > prevHigh {
			prevHigh = p
		}
		if p < prevLow {
			prevLow = p
		}
	}

	latest := history[len(history)-1]

	switch {
	case latest > prevHigh*(1+cfg.BreakoutThreshold):
		return Decision{Signal: Call, Reason: fmt.Sprintf("broke above %.5f", prevHigh)}
	case latest < prevLow*(1-cfg.BreakoutThreshold):
		return Decision{Signal: Put, Reason: fmt.Sprintf("broke below %.5f", prevLow)}
	}
	return Decision{Signal: Hold, Reason: "inside range"}
}
