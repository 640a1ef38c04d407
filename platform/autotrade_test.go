package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/optiondesk/market"
	"github.com/rustyeddy/optiondesk/strategies"
)

func pushMid(p *fakeProvider, symbol string, mid float64, tm time.Time) {
	p.Push(market.Quote{Symbol: symbol, Bid: mid - 0.0001, Ask: mid + 0.0001, Time: tm})
}

func TestAutoTraderPlacesStrategyTrade(t *testing.T) {
	t.Parallel()

	e, p, clk := newTestEngine(t, 10000, WithSettings(Settings{
		MaxTradeSize: 1000,
		AutoTrade:    true,
	}))
	require.NoError(t, e.Registry().Register("trend", strategies.Config{
		Kind:      strategies.TrendFollowing,
		Period:    3,
		Threshold: 0.001,
	}))
	require.NoError(t, e.Registry().Activate("trend"))

	at := NewAutoTrader(e, AutoTraderConfig{Symbol: "EUR/USD", Stake: 100, Expiry: "1m"})
	require.NoError(t, at.Start())
	defer at.Stop()

	// Flat prices first, then a jump well above the moving average.
	pushMid(p, "EUR/USD", 1.0850, clk.Now())
	pushMid(p, "EUR/USD", 1.0850, clk.Now())
	assert.Empty(t, e.GetState().OpenTrades, "still warming up")

	pushMid(p, "EUR/USD", 1.0900, clk.Now())

	state := e.GetState()
	require.Len(t, state.OpenTrades, 1)
	tr := state.OpenTrades[0]
	assert.Equal(t, "trend", tr.Strategy)
	assert.Equal(t, Call, tr.Direction)
	assert.Equal(t, 100.0, tr.Amount)
	assert.Equal(t, 9900.0, state.Balance)
}

func TestAutoTraderOneOpenTradePerStrategy(t *testing.T) {
	t.Parallel()

	e, p, clk := newTestEngine(t, 10000, WithSettings(Settings{
		MaxTradeSize: 1000,
		AutoTrade:    true,
	}))
	require.NoError(t, e.Registry().Register("trend", strategies.Config{
		Kind:      strategies.TrendFollowing,
		Period:    3,
		Threshold: 0.001,
	}))
	require.NoError(t, e.Registry().Activate("trend"))

	at := NewAutoTrader(e, AutoTraderConfig{Symbol: "EUR/USD", Stake: 100, Expiry: "1m"})
	require.NoError(t, at.Start())
	defer at.Stop()

	pushMid(p, "EUR/USD", 1.0850, clk.Now())
	pushMid(p, "EUR/USD", 1.0850, clk.Now())
	pushMid(p, "EUR/USD", 1.0900, clk.Now())
	require.Len(t, e.GetState().OpenTrades, 1)

	// The signal keeps firing but the strategy already has an open trade.
	pushMid(p, "EUR/USD", 1.0950, clk.Now())
	pushMid(p, "EUR/USD", 1.1000, clk.Now())
	assert.Len(t, e.GetState().OpenTrades, 1)

	// Once that trade settles the strategy may enter again.
	clk.Advance(time.Minute)
	require.Empty(t, e.GetState().OpenTrades)

	pushMid(p, "EUR/USD", 1.1100, clk.Now())
	assert.Len(t, e.GetState().OpenTrades, 1)
}

func TestAutoTraderRespectsToggle(t *testing.T) {
	t.Parallel()

	e, p, clk := newTestEngine(t, 10000)
	require.NoError(t, e.Registry().Register("trend", strategies.Config{
		Kind:      strategies.TrendFollowing,
		Period:    3,
		Threshold: 0.001,
	}))
	require.NoError(t, e.Registry().Activate("trend"))

	at := NewAutoTrader(e, AutoTraderConfig{Symbol: "EUR/USD", Stake: 100, Expiry: "1m"})
	require.NoError(t, at.Start())
	defer at.Stop()

	// AutoTrade is off by default: history accumulates, nothing trades.
	pushMid(p, "EUR/USD", 1.0850, clk.Now())
	pushMid(p, "EUR/USD", 1.0850, clk.Now())
	pushMid(p, "EUR/USD", 1.0900, clk.Now())
	assert.Empty(t, e.GetState().OpenTrades)
	assert.Len(t, at.History(), 3)

	e.UpdateSettings(func(s *Settings) { s.AutoTrade = true })

	pushMid(p, "EUR/USD", 1.0950, clk.Now())
	assert.Len(t, e.GetState().OpenTrades, 1)
}

func TestAutoTraderSettlementFeedsPerformance(t *testing.T) {
	t.Parallel()

	e, p, clk := newTestEngine(t, 10000, WithSettings(Settings{
		MaxTradeSize: 1000,
		AutoTrade:    true,
	}))
	require.NoError(t, e.Registry().Register("trend", strategies.Config{
		Kind:      strategies.TrendFollowing,
		Period:    3,
		Threshold: 0.001,
	}))
	require.NoError(t, e.Registry().Activate("trend"))

	at := NewAutoTrader(e, AutoTraderConfig{Symbol: "EUR/USD", Stake: 100, Expiry: "1m"})
	require.NoError(t, at.Start())
	defer at.Stop()

	pushMid(p, "EUR/USD", 1.0850, clk.Now())
	pushMid(p, "EUR/USD", 1.0850, clk.Now())
	pushMid(p, "EUR/USD", 1.0900, clk.Now())
	require.Len(t, e.GetState().OpenTrades, 1)

	// Price keeps rising into expiry: the call wins.
	pushMid(p, "EUR/USD", 1.0950, clk.Now())
	clk.Advance(time.Minute)

	perf, err := e.Registry().Performance("trend")
	require.NoError(t, err)
	assert.Equal(t, 1, perf.TotalTrades)
	assert.Equal(t, 1, perf.WinningTrades)
	assert.InDelta(t, 85.0, perf.TotalPL, 1e-9)
	assert.InDelta(t, 100.0, perf.WinRate(), 1e-9)
}

func TestAutoTraderHistoryWindowBounded(t *testing.T) {
	t.Parallel()

	e, p, clk := newTestEngine(t, 10000)
	at := NewAutoTrader(e, AutoTraderConfig{Symbol: "EUR/USD", Stake: 100, Expiry: "1m", Window: 5})
	require.NoError(t, at.Start())
	defer at.Stop()

	for i := 0; i < 12; i++ {
		pushMid(p, "EUR/USD", 1.08+float64(i)*0.001, clk.Now())
	}

	h := at.History()
	require.Len(t, h, 5)
	assert.InDelta(t, 1.087, h[0], 1e-9, "oldest retained sample")
	assert.InDelta(t, 1.091, h[4], 1e-9)
}
