package broker

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rustyeddy/optiondesk/internal/clock"
	"github.com/rustyeddy/optiondesk/market"
)

const (
	defaultInterval = time.Second

	// Random-walk clamp: with drift enabled the quote center stays within
	// ±5% of the configured base price so long runs remain plausible.
	maxDriftPct = 0.05
)

// Demo is a synthetic quote provider. Each quote perturbs the symbol's
// base price by a uniform value in [-volatility, +volatility]; bid/ask
// straddle the perturbed price by the symbol's half-spread. With
// WithDrift the perturbation is applied to a clamped random-walk center
// instead of the fixed base.
type Demo struct {
	mu        sync.Mutex
	clk       clock.Clock
	rng       *rand.Rand
	interval  time.Duration
	latency   time.Duration
	drift     bool
	connected bool
	symbols   map[string]*symbolState
	subs      map[string]map[int]func(market.Quote)
	feeds     map[string]clock.Timer
	nextSub   int
}

type symbolState struct {
	meta  market.SymbolMeta
	price float64
}

type DemoOption func(*Demo)

// WithClock substitutes the scheduling clock (manual in tests/replays).
func WithClock(c clock.Clock) DemoOption {
	return func(d *Demo) { d.clk = c }
}

// WithInterval sets the subscription tick interval.
func WithInterval(iv time.Duration) DemoOption {
	return func(d *Demo) { d.interval = iv }
}

// WithLatency adds a simulated fetch delay to Quote calls.
func WithLatency(l time.Duration) DemoOption {
	return func(d *Demo) { d.latency = l }
}

// WithSymbols replaces the built-in instrument table.
func WithSymbols(symbols map[string]market.SymbolMeta) DemoOption {
	return func(d *Demo) {
		d.symbols = make(map[string]*symbolState, len(symbols))
		for k, m := range symbols {
			d.symbols[k] = &symbolState{meta: m, price: m.BasePrice}
		}
	}
}

// WithSeed makes quote generation reproducible.
func WithSeed(seed int64) DemoOption {
	return func(d *Demo) { d.rng = rand.New(rand.NewSource(seed)) }
}

// WithDrift lets the quote center wander as a random walk, clamped to ±5%
// of the base price, so long sessions show trends strategies can read.
// Without it every quote perturbs the fixed base price.
func WithDrift() DemoOption {
	return func(d *Demo) { d.drift = true }
}

func NewDemo(opts ...DemoOption) *Demo {
	d := &Demo{
		clk:      clock.Real(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		interval: defaultInterval,
		subs:     make(map[string]map[int]func(market.Quote)),
		feeds:    make(map[string]clock.Timer),
	}
	WithSymbols(market.Symbols)(d)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Demo) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = true
	return nil
}

// Disconnect stops every feed ticker and clears all subscriptions.
// Subsequent Quote calls fail with ErrNotConnected until reconnected.
func (d *Demo) Disconnect() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for sym, t := range d.feeds {
		t.Stop()
		delete(d.feeds, sym)
	}
	d.subs = make(map[string]map[int]func(market.Quote))
	d.connected = false
}

// Assets lists the registered instruments, sorted by symbol.
func (d *Demo) Assets() []market.SymbolMeta {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]market.SymbolMeta, 0, len(d.symbols))
	for _, s := range d.symbols {
		out = append(out, s.meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func (d *Demo) Quote(ctx context.Context, symbol string) (market.Quote, error) {
	if d.latency > 0 {
		select {
		case <-ctx.Done():
			return market.Quote{}, ctx.Err()
		case <-time.After(d.latency):
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quoteLocked(symbol)
}

func (d *Demo) quoteLocked(symbol string) (market.Quote, error) {
	if !d.connected {
		return market.Quote{}, fmt.Errorf("quote %s: %w", symbol, ErrNotConnected)
	}
	s, ok := d.symbols[symbol]
	if !ok {
		return market.Quote{}, fmt.Errorf("quote %s: %w", symbol, ErrUnknownSymbol)
	}

	change := (d.rng.Float64()*2 - 1) * s.meta.Volatility
	center := s.meta.BasePrice
	if d.drift {
		center = s.price
	}
	price := center + change

	if d.drift {
		lo := s.meta.BasePrice * (1 - maxDriftPct)
		hi := s.meta.BasePrice * (1 + maxDriftPct)
		if price < lo {
			price = lo
		}
		if price > hi {
			price = hi
		}
		s.price = price
	}

	return market.Quote{
		Symbol: symbol,
		Bid:    price - s.meta.HalfSpread,
		Ask:    price + s.meta.HalfSpread,
		Time:   d.clk.Now(),
	}, nil
}

func (d *Demo) Subscribe(symbol string, fn func(market.Quote)) (Subscription, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return Subscription{}, fmt.Errorf("subscribe %s: %w", symbol, ErrNotConnected)
	}
	if _, ok := d.symbols[symbol]; !ok {
		return Subscription{}, fmt.Errorf("subscribe %s: %w", symbol, ErrUnknownSymbol)
	}

	d.nextSub++
	sub := Subscription{Symbol: symbol, ID: d.nextSub}

	if d.subs[symbol] == nil {
		d.subs[symbol] = make(map[int]func(market.Quote))
	}
	d.subs[symbol][sub.ID] = fn

	// One ticker per symbol no matter how many subscribers.
	if _, running := d.feeds[symbol]; !running {
		d.feeds[symbol] = d.clk.AfterFunc(d.interval, func() { d.tick(symbol) })
	}

	return sub, nil
}

func (d *Demo) Unsubscribe(sub Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cbs, ok := d.subs[sub.Symbol]
	if !ok {
		return
	}
	delete(cbs, sub.ID)
	if len(cbs) > 0 {
		return
	}

	delete(d.subs, sub.Symbol)
	if t, running := d.feeds[sub.Symbol]; running {
		t.Stop()
		delete(d.feeds, sub.Symbol)
	}
}

// FeedCount reports how many symbol tickers are running.
func (d *Demo) FeedCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.feeds)
}

func (d *Demo) tick(symbol string) {
	d.mu.Lock()

	if _, running := d.feeds[symbol]; !running {
		// Stopped between firing and acquiring the lock.
		d.mu.Unlock()
		return
	}

	q, err := d.quoteLocked(symbol)
	if err != nil {
		delete(d.feeds, symbol)
		d.mu.Unlock()
		return
	}

	cbs := make([]func(market.Quote), 0, len(d.subs[symbol]))
	for _, fn := range d.subs[symbol] {
		cbs = append(cbs, fn)
	}

	d.feeds[symbol] = d.clk.AfterFunc(d.interval, func() { d.tick(symbol) })
	d.mu.Unlock()

	// Deliver outside the lock so callbacks may call back into the broker.
	for _, fn := range cbs {
		fn(q)
	}
}
