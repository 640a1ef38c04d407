// Package replay runs scripted market scenarios through the trading
// engine on a manual clock, so settlements fire deterministically at the
// scripted timestamps.
package replay

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rustyeddy/optiondesk/broker"
	"github.com/rustyeddy/optiondesk/internal/clock"
	"github.com/rustyeddy/optiondesk/journal"
	"github.com/rustyeddy/optiondesk/market"
	"github.com/rustyeddy/optiondesk/platform"
)

// Options tunes a replay run.
type Options struct {
	// Journal receives trade and balance records as settlements land.
	Journal journal.Journal
	// Settings overrides the engine defaults when non-nil.
	Settings *platform.Settings
	// SettleRemaining advances the clock past the last open expiry after
	// the final row, so the run ends with an empty open set.
	SettleRemaining bool
}

type row struct {
	time   time.Time
	symbol string
	bid    float64
	ask    float64
	event  string
	args   []string
}

// CSV replays a scenario file through a fresh engine and returns the final
// platform state. Rows are `time,symbol,bid,ask,event,arg1,arg2,arg3`,
// oldest first; the only event is PLACE (direction, amount, expiry label),
// an empty event is a plain price tick.
//
// Due settlements fire before the row's quote is applied, so a trade
// expiring between rows settles on the last quote it could have observed.
func CSV(ctx context.Context, path string, acct broker.Account, opts Options) (platform.State, error) {
	rows, err := load(path)
	if err != nil {
		return platform.State{}, err
	}
	if len(rows) == 0 {
		return platform.State{}, fmt.Errorf("replay %s: no rows", path)
	}

	clk := clock.NewManual(rows[0].time)
	provider := newScriptProvider()

	eopts := []platform.Option{platform.WithClock(clk)}
	if opts.Journal != nil {
		eopts = append(eopts, platform.WithJournal(opts.Journal))
	}
	if opts.Settings != nil {
		eopts = append(eopts, platform.WithSettings(*opts.Settings))
	}
	engine := platform.New(acct, provider, eopts...)
	defer engine.Close()

	for i, r := range rows {
		clk.Set(r.time)
		provider.push(market.Quote{Symbol: r.symbol, Bid: r.bid, Ask: r.ask, Time: r.time})

		switch r.event {
		case "":
		case "PLACE":
			if len(r.args) < 3 {
				return platform.State{}, fmt.Errorf("replay %s row %d: PLACE needs direction, amount, expiry", path, i+2)
			}
			dir, err := platform.ParseDirection(r.args[0])
			if err != nil {
				return platform.State{}, fmt.Errorf("replay %s row %d: %w", path, i+2, err)
			}
			amount, err := strconv.ParseFloat(r.args[1], 64)
			if err != nil {
				return platform.State{}, fmt.Errorf("replay %s row %d: amount: %w", path, i+2, err)
			}
			if _, err := engine.PlaceTrade(ctx, r.symbol, dir, amount, r.args[2]); err != nil {
				return platform.State{}, fmt.Errorf("replay %s row %d: %w", path, i+2, err)
			}
		default:
			return platform.State{}, fmt.Errorf("replay %s row %d: unknown event %q", path, i+2, r.event)
		}
	}

	if opts.SettleRemaining {
		for {
			open := engine.GetState().OpenTrades
			if len(open) == 0 {
				break
			}
			last := open[0].ExpiresAt
			for _, t := range open[1:] {
				if t.ExpiresAt.After(last) {
					last = t.ExpiresAt
				}
			}
			clk.Set(last)
		}
	}

	return engine.GetState(), nil
}

func load(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // scenarios often omit trailing arg columns

	// Header row.
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("replay %s: header: %w", path, err)
	}

	var rows []row
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("replay %s row %d: %w", path, line, err)
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("replay %s row %d: need time,symbol,bid,ask", path, line)
		}

		tm, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, fmt.Errorf("replay %s row %d: time: %w", path, line, err)
		}
		bid, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("replay %s row %d: bid: %w", path, line, err)
		}
		ask, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("replay %s row %d: ask: %w", path, line, err)
		}

		rw := row{time: tm, symbol: rec[1], bid: bid, ask: ask}
		if len(rec) > 4 {
			rw.event = rec[4]
		}
		for _, a := range rec[5:] {
			if a != "" {
				rw.args = append(rw.args, a)
			}
		}
		rows = append(rows, rw)
	}
	return rows, nil
}

// scriptProvider serves whatever quote the scenario last pushed. It is the
// engine's only price source during a replay.
type scriptProvider struct {
	mu     sync.Mutex
	quotes map[string]market.Quote
	subs   map[string]map[int]func(market.Quote)
	next   int
}

func newScriptProvider() *scriptProvider {
	return &scriptProvider{
		quotes: make(map[string]market.Quote),
		subs:   make(map[string]map[int]func(market.Quote)),
	}
}

func (p *scriptProvider) push(q market.Quote) {
	p.mu.Lock()
	p.quotes[q.Symbol] = q
	cbs := make([]func(market.Quote), 0, len(p.subs[q.Symbol]))
	for _, fn := range p.subs[q.Symbol] {
		cbs = append(cbs, fn)
	}
	p.mu.Unlock()

	for _, fn := range cbs {
		fn(q)
	}
}

func (p *scriptProvider) Quote(ctx context.Context, symbol string) (market.Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q, ok := p.quotes[symbol]
	if !ok {
		return market.Quote{}, fmt.Errorf("quote %s: %w", symbol, broker.ErrUnknownSymbol)
	}
	return q, nil
}

func (p *scriptProvider) Subscribe(symbol string, fn func(market.Quote)) (broker.Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	if p.subs[symbol] == nil {
		p.subs[symbol] = make(map[int]func(market.Quote))
	}
	p.subs[symbol][p.next] = fn
	return broker.Subscription{Symbol: symbol, ID: p.next}, nil
}

func (p *scriptProvider) Unsubscribe(sub broker.Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cbs, ok := p.subs[sub.Symbol]; ok {
		delete(cbs, sub.ID)
		if len(cbs) == 0 {
			delete(p.subs, sub.Symbol)
		}
	}
}
