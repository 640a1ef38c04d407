package strategies

import (
	"fmt"
	"sort"
	"sync"
)

// Performance accumulates settled-outcome counters for one strategy.
// Win rate and average profit are derived on read so the two counters and
// the P/L sum can never drift apart.
type Performance struct {
	TotalTrades   int
	WinningTrades int
	TotalPL       float64
}

// WinRate returns the winning percentage, 0 when no trades settled yet.
func (p Performance) WinRate() float64 {
	if p.TotalTrades == 0 {
		return 0
	}
	return float64(p.WinningTrades) / float64(p.TotalTrades) * 100
}

func (p Performance) AvgProfit() float64 {
	if p.TotalTrades == 0 {
		return 0
	}
	return p.TotalPL / float64(p.TotalTrades)
}

// Proposal is one active strategy's non-Hold signal for a history snapshot.
type Proposal struct {
	Name   string
	Signal Signal
	Reason string
}

// Registry tracks named strategies, their active flag, and performance.
// Safe for concurrent use; settlement callbacks and readers race otherwise.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	cfg    Config
	active bool
	perf   Performance
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds a named strategy, inactive. Re-registering a name replaces
// its configuration and resets its performance.
func (r *Registry) Register(name string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = &entry{cfg: cfg}
	return nil
}

// Activate marks a strategy active. Accumulated performance is untouched.
func (r *Registry) Activate(name string) error {
	return r.setActive(name, true)
}

// Deactivate clears the active flag. Accumulated performance is untouched.
func (r *Registry) Deactivate(name string) error {
	return r.setActive(name, false)
}

func (r *Registry) setActive(name string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownStrategy)
	}
	e.active = active
	return nil
}

// Active returns the names of active strategies, sorted.
func (r *Registry) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for name, e := range r.entries {
		if e.active {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// RunActive evaluates every active strategy against the same history
// snapshot and returns the non-Hold proposals, ordered by strategy name.
func (r *Registry) RunActive(history []float64) []Proposal {
	r.mu.Lock()
	type pending struct {
		name string
		cfg  Config
	}
	var run []pending
	for name, e := range r.entries {
		if e.active {
			run = append(run, pending{name, e.cfg})
		}
	}
	r.mu.Unlock()

	sort.Slice(run, func(i, j int) bool { return run[i].name < run[j].name })

	var out []Proposal
	for _, p := range run {
		// Configs were validated at Register, so Evaluate cannot fail here.
		d, err := Evaluate(p.cfg, history)
		if err != nil || d.Signal == Hold {
			continue
		}
		out = append(out, Proposal{Name: p.name, Signal: d.Signal, Reason: d.Reason})
	}
	return out
}

// RecordOutcome folds one settled trade into a strategy's counters.
// profit is positive for a won trade and negative (the lost stake) otherwise.
func (r *Registry) RecordOutcome(name string, won bool, profit float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("record outcome %s: %w", name, ErrUnknownStrategy)
	}
	e.perf.TotalTrades++
	if won {
		e.perf.WinningTrades++
	}
	e.perf.TotalPL += profit
	return nil
}

func (r *Registry) Performance(name string) (Performance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return Performance{}, fmt.Errorf("%s: %w", name, ErrUnknownStrategy)
	}
	return e.perf, nil
}

// AllPerformance snapshots every registered strategy's counters.
func (r *Registry) AllPerformance() map[string]Performance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Performance, len(r.entries))
	for name, e := range r.entries {
		out[name] = e.perf
	}
	return out
}
