package platform

import (
	"context"
	"sync"

	"github.com/rustyeddy/optiondesk/broker"
	"github.com/rustyeddy/optiondesk/market"
	"github.com/rustyeddy/optiondesk/strategies"
)

const defaultHistoryWindow = 200

// AutoTrader subscribes to one symbol, accumulates a bounded mid-price
// history, and — while Settings.AutoTrade is on — places a trade for every
// non-Hold proposal the active strategies produce, tagged with the
// strategy's name. At most one open trade per strategy at a time.
type AutoTrader struct {
	engine *Engine
	symbol string
	stake  float64
	expiry string
	window int

	mu      sync.Mutex
	history []float64
	sub     broker.Subscription
	running bool
}

type AutoTraderConfig struct {
	Symbol string
	Stake  float64
	Expiry string
	Window int // history length, defaultHistoryWindow when 0
}

func NewAutoTrader(e *Engine, cfg AutoTraderConfig) *AutoTrader {
	window := cfg.Window
	if window <= 0 {
		window = defaultHistoryWindow
	}
	return &AutoTrader{
		engine: e,
		symbol: cfg.Symbol,
		stake:  cfg.Stake,
		expiry: cfg.Expiry,
		window: window,
	}
}

func (at *AutoTrader) Start() error {
	at.mu.Lock()
	defer at.mu.Unlock()
	if at.running {
		return nil
	}
	sub, err := at.engine.provider.Subscribe(at.symbol, at.onQuote)
	if err != nil {
		return err
	}
	at.sub = sub
	at.running = true
	return nil
}

func (at *AutoTrader) Stop() {
	at.mu.Lock()
	if !at.running {
		at.mu.Unlock()
		return
	}
	sub := at.sub
	at.running = false
	at.mu.Unlock()

	at.engine.provider.Unsubscribe(sub)
}

// History returns a copy of the accumulated price window.
func (at *AutoTrader) History() []float64 {
	at.mu.Lock()
	defer at.mu.Unlock()
	out := make([]float64, len(at.history))
	copy(out, at.history)
	return out
}

func (at *AutoTrader) onQuote(q market.Quote) {
	at.mu.Lock()
	at.history = append(at.history, q.Mid())
	if len(at.history) > at.window {
		at.history = at.history[len(at.history)-at.window:]
	}
	history := make([]float64, len(at.history))
	copy(history, at.history)
	at.mu.Unlock()

	if !at.engine.Settings().AutoTrade {
		return
	}

	for _, p := range at.engine.registry.RunActive(history) {
		if at.engine.hasOpenFromStrategy(p.Name) {
			continue
		}
		dir := Call
		if p.Signal == strategies.Put {
			dir = Put
		}
		// Rejections (limits, balance) just skip this proposal; the
		// feed keeps running and the next tick re-evaluates.
		_, _ = at.engine.PlaceStrategyTrade(context.Background(), at.symbol, dir, at.stake, at.expiry, p.Name)
	}
}
