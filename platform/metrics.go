package platform

import (
	"sort"

	"github.com/rustyeddy/optiondesk/risk"
	"github.com/rustyeddy/optiondesk/strategies"
)

// PerformanceStats aggregates settled trade history. Pure view; always
// recomputed from the ledger, never stored.
type PerformanceStats struct {
	TotalTrades   int
	WinningTrades int
	WinRate       float64 // percent
	TotalProfit   float64
	AvgWin        float64
	AvgLoss       float64 // positive magnitude
	ProfitFactor  float64 // gross win / gross loss, 0 when nothing lost
}

// RiskMetrics aggregates the open set. Pure view.
type RiskMetrics struct {
	TotalExposure   float64
	PotentialProfit float64
	PotentialLoss   float64 // positive magnitude
	PortfolioAtRisk float64 // percent of balance
	Level           risk.Level
}

// State is a self-consistent snapshot of the whole platform, safe for the
// presentation layer to hold: the trade slices are copies.
type State struct {
	Balance     float64
	Settings    Settings
	OpenTrades  []Trade
	History     []Trade
	Performance PerformanceStats
	Risk        RiskMetrics
	Strategies  map[string]strategies.Performance
}

func (e *Engine) GetPerformanceStats() PerformanceStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.performanceLocked()
}

func (e *Engine) performanceLocked() PerformanceStats {
	var s PerformanceStats
	s.TotalTrades = len(e.history)

	var grossWin, grossLoss float64
	for _, t := range e.history {
		s.TotalProfit += t.Profit
		if t.Status == StatusWon {
			s.WinningTrades++
			grossWin += t.Profit
		} else {
			grossLoss += -t.Profit
		}
	}

	losing := s.TotalTrades - s.WinningTrades
	if s.TotalTrades > 0 {
		s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100
	}
	if s.WinningTrades > 0 {
		s.AvgWin = grossWin / float64(s.WinningTrades)
	}
	if losing > 0 {
		s.AvgLoss = grossLoss / float64(losing)
	}
	if grossLoss > 0 {
		s.ProfitFactor = grossWin / grossLoss
	}
	return s
}

func (e *Engine) GetRiskMetrics() RiskMetrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.riskLocked()
}

func (e *Engine) riskLocked() RiskMetrics {
	var m RiskMetrics
	for _, t := range e.open {
		m.TotalExposure += t.Amount
		if t.MarkPL > 0 {
			m.PotentialProfit += t.MarkPL
		} else {
			m.PotentialLoss += -t.MarkPL
		}
	}
	m.PortfolioAtRisk = risk.PortfolioAtRisk(e.acct.Balance, m.TotalExposure)
	m.Level = risk.LevelFor(e.acct.Balance, m.TotalExposure)
	return m
}

// GetState snapshots balance, ledger, and the derived views in one lock
// hold, so the pieces are mutually consistent.
func (e *Engine) GetState() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	open := make([]Trade, 0, len(e.open))
	for _, t := range e.open {
		open = append(open, *t)
	}
	sort.Slice(open, func(i, j int) bool {
		if open[i].OpenTime.Equal(open[j].OpenTime) {
			return open[i].ID < open[j].ID
		}
		return open[i].OpenTime.Before(open[j].OpenTime)
	})

	history := make([]Trade, len(e.history))
	copy(history, e.history)

	return State{
		Balance:     e.acct.Balance,
		Settings:    e.settings,
		OpenTrades:  open,
		History:     history,
		Performance: e.performanceLocked(),
		Risk:        e.riskLocked(),
		Strategies:  e.registry.AllPerformance(),
	}
}
