package platform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/optiondesk/broker"
	"github.com/rustyeddy/optiondesk/internal/clock"
	"github.com/rustyeddy/optiondesk/internal/id"
	"github.com/rustyeddy/optiondesk/journal"
	"github.com/rustyeddy/optiondesk/market"
	"github.com/rustyeddy/optiondesk/risk"
	"github.com/rustyeddy/optiondesk/strategies"
)

var ErrClosed = errors.New("platform closed")

const (
	defaultPayoutMultiplier = 1.85
	defaultMinStake         = 10
)

// Settings are the user-adjustable account limits.
type Settings struct {
	RiskLevel      risk.Level
	MaxTradeSize   float64
	DailyLossLimit float64
	AutoTrade      bool
}

func defaultSettings() Settings {
	return Settings{
		RiskLevel:      risk.Medium,
		MaxTradeSize:   1000,
		DailyLossLimit: 500,
	}
}

// Engine owns the account and the trade ledger. All mutation goes through
// its methods; price ticks and settlement timers funnel into the same
// mutex, and external callbacks (notification sink, journal, strategy
// registry) are invoked only after the lock is released.
type Engine struct {
	mu       sync.Mutex
	acct     broker.Account
	settings Settings
	provider broker.QuoteProvider
	clk      clock.Clock
	jrnl     journal.Journal
	registry *strategies.Registry
	onQuote  func(market.Quote)

	quotes       *market.QuoteStore
	open         map[string]*Trade
	history      []Trade
	subs         map[string]broker.Subscription
	settleTimers map[string]clock.Timer

	payout   float64
	minStake float64

	dayStart time.Time
	dayLoss  float64

	closed bool
}

type Option func(*Engine)

func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s }
}

func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clk = c }
}

func WithJournal(j journal.Journal) Option {
	return func(e *Engine) { e.jrnl = j }
}

func WithRegistry(r *strategies.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithQuoteListener sets the notification sink invoked after every price
// tick has been applied to the ledger.
func WithQuoteListener(fn func(market.Quote)) Option {
	return func(e *Engine) { e.onQuote = fn }
}

func WithPayoutMultiplier(m float64) Option {
	return func(e *Engine) { e.payout = m }
}

func WithMinStake(min float64) Option {
	return func(e *Engine) { e.minStake = min }
}

func New(acct broker.Account, provider broker.QuoteProvider, opts ...Option) *Engine {
	e := &Engine{
		acct:         acct,
		settings:     defaultSettings(),
		provider:     provider,
		clk:          clock.Real(),
		jrnl:         journal.Nop{},
		registry:     strategies.NewRegistry(),
		quotes:       market.NewQuoteStore(),
		open:         make(map[string]*Trade),
		subs:         make(map[string]broker.Subscription),
		settleTimers: make(map[string]clock.Timer),
		payout:       defaultPayoutMultiplier,
		minStake:     defaultMinStake,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.dayStart = startOfDay(e.clk.Now())
	return e
}

func (e *Engine) Registry() *strategies.Registry { return e.registry }

func (e *Engine) Account() broker.Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acct
}

func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// UpdateSettings applies a partial settings change.
func (e *Engine) UpdateSettings(apply func(*Settings)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	apply(&e.settings)
}

// PlaceTrade opens a manual binary-option trade.
func (e *Engine) PlaceTrade(ctx context.Context, symbol string, dir Direction, amount float64, expiry string) (Trade, error) {
	return e.place(ctx, symbol, dir, amount, expiry, "")
}

// PlaceStrategyTrade opens a trade on behalf of a named strategy; its
// settlement outcome is folded into that strategy's performance.
func (e *Engine) PlaceStrategyTrade(ctx context.Context, symbol string, dir Direction, amount float64, expiry, strategy string) (Trade, error) {
	return e.place(ctx, symbol, dir, amount, expiry, strategy)
}

func (e *Engine) place(ctx context.Context, symbol string, dir Direction, amount float64, expiry, origin string) (Trade, error) {
	dur, err := ParseExpiry(expiry)
	if err != nil {
		return Trade{}, fmt.Errorf("place trade: %w", err)
	}

	if err := e.validate(amount); err != nil {
		return Trade{}, err
	}

	// The quote fetch may block; a failure here surfaces to the caller
	// with no state changed.
	q, err := e.provider.Quote(ctx, symbol)
	if err != nil {
		return Trade{}, fmt.Errorf("place trade: %w", err)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return Trade{}, ErrClosed
	}
	// Re-check against current state: settlements may have moved the
	// balance while the quote was in flight.
	if err := e.validateLocked(amount); err != nil {
		e.mu.Unlock()
		return Trade{}, err
	}

	// Subscribe before committing so placement fails cleanly when the
	// feed is gone; one subscription per symbol, shared by all trades.
	if _, ok := e.subs[symbol]; !ok {
		sub, err := e.provider.Subscribe(symbol, e.handleTick)
		if err != nil {
			e.mu.Unlock()
			return Trade{}, fmt.Errorf("place trade: %w", err)
		}
		e.subs[symbol] = sub
	}

	now := e.clk.Now()
	t := &Trade{
		ID:         id.New(),
		Symbol:     symbol,
		Direction:  dir,
		Amount:     amount,
		EntryPrice: q.Bid,
		OpenTime:   now,
		ExpiresAt:  now.Add(dur),
		Payout:     amount * e.payout,
		Status:     StatusActive,
		Strategy:   origin,
		MarkPrice:  q.Bid,
	}
	t.MarkPL = markPL(dir, t.Amount, t.Payout, t.EntryPrice, t.MarkPrice)

	// Funds are committed at open, not at settlement.
	e.acct.Balance -= amount
	e.open[t.ID] = t
	e.quotes.Set(q)

	tradeID := t.ID
	e.settleTimers[tradeID] = e.clk.AfterFunc(dur, func() {
		e.settle(tradeID)
	})

	out := *t
	e.mu.Unlock()
	return out, nil
}

func (e *Engine) validate(amount float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.validateLocked(amount)
}

func (e *Engine) validateLocked(amount float64) error {
	if err := risk.CheckStake(amount, e.minStake, e.settings.MaxTradeSize, e.acct.Balance); err != nil {
		return fmt.Errorf("place trade: %w", err)
	}
	e.rollDayLocked()
	if err := risk.CheckDailyLoss(e.dayLoss, e.settings.DailyLossLimit); err != nil {
		return fmt.Errorf("place trade: %w", err)
	}
	return nil
}

// handleTick applies a feed quote to every open trade on its symbol, then
// notifies the external observer.
func (e *Engine) handleTick(q market.Quote) {
	e.mu.Lock()
	e.quotes.Set(q)
	for _, t := range e.open {
		if t.Symbol != q.Symbol || t.settling {
			continue
		}
		t.MarkPrice = q.Bid
		t.MarkPL = markPL(t.Direction, t.Amount, t.Payout, t.EntryPrice, q.Bid)
	}
	sink := e.onQuote
	e.mu.Unlock()

	if sink != nil {
		sink(q)
	}
}

// settle finalizes an expired trade. Calling it for a trade that is not
// open (already settled, mid-settlement, or unknown) is a no-op: the
// scheduled callback may race a second settlement path.
//
// Outcome rule: a call wins when exit > entry, a put when exit < entry.
// An exit exactly at entry settles as lost for both directions.
func (e *Engine) settle(tradeID string) error {
	e.mu.Lock()
	t, ok := e.open[tradeID]
	if !ok || t.settling {
		e.mu.Unlock()
		return nil
	}
	// Flagging before any blocking work means ticks and duplicate settle
	// calls see a consistent ledger throughout.
	t.settling = true
	if timer, ok := e.settleTimers[tradeID]; ok {
		timer.Stop()
		delete(e.settleTimers, tradeID)
	}
	symbol := t.Symbol
	e.mu.Unlock()

	q, qerr := e.provider.Quote(context.Background(), symbol)
	if qerr != nil {
		// One retry, then degrade to a conservative loss rather than
		// leaving the trade active forever.
		q, qerr = e.provider.Quote(context.Background(), symbol)
	}

	e.mu.Lock()
	now := e.clk.Now()
	e.rollDayLocked()

	if qerr != nil {
		// Conservative loss, marked at the last quote the feed delivered
		// for the symbol (the entry quote at worst).
		t.Status = StatusLost
		t.Profit = -t.Amount
		if last, lerr := e.quotes.Get(symbol); lerr == nil {
			t.ExitPrice = last.Bid
		}
	} else {
		t.ExitPrice = q.Bid
		won := (t.Direction == Call && t.ExitPrice > t.EntryPrice) ||
			(t.Direction == Put && t.ExitPrice < t.EntryPrice)
		if won {
			t.Status = StatusWon
			t.Profit = t.Payout - t.Amount
			e.acct.Balance += t.Payout
		} else {
			t.Status = StatusLost
			t.Profit = -t.Amount
		}
	}
	t.CloseTime = now
	t.MarkPrice = t.ExitPrice
	t.MarkPL = t.Profit
	if t.Status == StatusLost {
		e.dayLoss += t.Amount
	}

	// Atomic swap: the trade leaves the open set and enters history under
	// the same lock hold.
	delete(e.open, tradeID)
	e.history = append(e.history, *t)

	var unsub *broker.Subscription
	if !e.symbolOpenLocked(symbol) {
		if sub, ok := e.subs[symbol]; ok {
			delete(e.subs, symbol)
			s := sub
			unsub = &s
		}
	}

	rec := journal.TradeRecord{
		TradeID:    t.ID,
		Symbol:     t.Symbol,
		Direction:  t.Direction.String(),
		Amount:     t.Amount,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		OpenTime:   t.OpenTime,
		CloseTime:  t.CloseTime,
		Profit:     t.Profit,
		Outcome:    t.Status.String(),
		Strategy:   t.Strategy,
	}
	mark := journal.BalanceMark{
		Time:       now,
		Balance:    e.acct.Balance,
		Exposure:   e.exposureLocked(),
		OpenTrades: len(e.open),
	}
	origin := t.Strategy
	won := t.Status == StatusWon
	profit := t.Profit
	e.mu.Unlock()

	if unsub != nil {
		e.provider.Unsubscribe(*unsub)
	}
	if origin != "" {
		// Registry errors only mean the strategy was unregistered after
		// placing; the trade outcome itself stands.
		_ = e.registry.RecordOutcome(origin, won, profit)
	}
	if err := e.jrnl.RecordTrade(rec); err != nil {
		return err
	}
	return e.jrnl.RecordBalance(mark)
}

func (e *Engine) symbolOpenLocked(symbol string) bool {
	for _, t := range e.open {
		if t.Symbol == symbol {
			return true
		}
	}
	return false
}

func (e *Engine) exposureLocked() float64 {
	var sum float64
	for _, t := range e.open {
		sum += t.Amount
	}
	return sum
}

func (e *Engine) rollDayLocked() {
	now := e.clk.Now()
	y1, m1, d1 := e.dayStart.Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		e.dayStart = startOfDay(now)
		e.dayLoss = 0
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (e *Engine) hasOpenFromStrategy(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.open {
		if t.Strategy == name {
			return true
		}
	}
	return false
}

// Close stops every pending settlement timer and releases all feed
// subscriptions. Open trades are left unsettled; the engine rejects
// further placements.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	for id, timer := range e.settleTimers {
		timer.Stop()
		delete(e.settleTimers, id)
	}
	subs := make([]broker.Subscription, 0, len(e.subs))
	for sym, sub := range e.subs {
		subs = append(subs, sub)
		delete(e.subs, sym)
	}
	e.mu.Unlock()

	for _, sub := range subs {
		e.provider.Unsubscribe(sub)
	}
}
