package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(id string, close time.Time) TradeRecord {
	return TradeRecord{
		TradeID:    id,
		Symbol:     "EUR/USD",
		Direction:  "call",
		Amount:     100,
		EntryPrice: 1.0850,
		ExitPrice:  1.0900,
		OpenTime:   close.Add(-time.Minute),
		CloseTime:  close,
		Profit:     85,
		Outcome:    "won",
		Strategy:   "Trend Following",
	}
}

func TestSQLiteRecordAndGet(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "desk.sqlite"))
	require.NoError(t, err)
	defer j.Close()

	close0 := time.Date(2026, 1, 24, 10, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(sampleRecord("T1", close0)))

	got, err := j.GetTrade("T1")
	require.NoError(t, err)
	assert.Equal(t, "EUR/USD", got.Symbol)
	assert.Equal(t, "call", got.Direction)
	assert.Equal(t, 85.0, got.Profit)
	assert.Equal(t, "won", got.Outcome)
	assert.Equal(t, "Trend Following", got.Strategy)

	_, err = j.GetTrade("missing")
	assert.Error(t, err)
}

func TestSQLiteListTradesClosedBetween(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "desk.sqlite"))
	require.NoError(t, err)
	defer j.Close()

	base := time.Date(2026, 1, 24, 10, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(sampleRecord("T1", base)))
	require.NoError(t, j.RecordTrade(sampleRecord("T2", base.Add(time.Hour))))
	require.NoError(t, j.RecordTrade(sampleRecord("T3", base.Add(2*time.Hour))))

	got, err := j.ListTradesClosedBetween(base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "T1", got[0].TradeID)
	assert.Equal(t, "T2", got[1].TradeID)
}

func TestSQLiteListTradesByStrategy(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "desk.sqlite"))
	require.NoError(t, err)
	defer j.Close()

	base := time.Date(2026, 1, 24, 10, 0, 0, 0, time.UTC)
	rec := sampleRecord("T1", base)
	require.NoError(t, j.RecordTrade(rec))

	manual := sampleRecord("T2", base.Add(time.Minute))
	manual.Strategy = ""
	require.NoError(t, j.RecordTrade(manual))

	got, err := j.ListTradesByStrategy("Trend Following")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T1", got[0].TradeID)
}

func TestSQLiteRecordBalance(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "desk.sqlite"))
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.RecordBalance(BalanceMark{
		Time:       time.Date(2026, 1, 24, 10, 0, 0, 0, time.UTC),
		Balance:    10085,
		Exposure:   200,
		OpenTrades: 2,
	}))
}
