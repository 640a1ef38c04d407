package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	close := time.Date(2026, 1, 24, 9, 31, 0, 0, time.UTC)
	rec := sampleRecord("01HV3ZXKQ8R9T2M4N6P8Q0S2U4", close)

	result := FormatTradeOrg(rec)

	assert.Contains(t, result, "** Trade: EUR/USD (01HV3ZXK)")

	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":TRADE_ID: 01HV3ZXKQ8R9T2M4N6P8Q0S2U4")
	assert.Contains(t, result, ":SYMBOL: EUR/USD")
	assert.Contains(t, result, ":DIRECTION: call")
	assert.Contains(t, result, ":AMOUNT: 100.00")
	assert.Contains(t, result, ":ENTRY_PRICE: 1.08500")
	assert.Contains(t, result, ":EXIT_PRICE: 1.09000")
	assert.Contains(t, result, ":OPEN_TIME: 2026-01-24T09:30:00Z")
	assert.Contains(t, result, ":CLOSE_TIME: 2026-01-24T09:31:00Z")
	assert.Contains(t, result, ":PROFIT: 85.00")
	assert.Contains(t, result, ":OUTCOME: won")
	assert.Contains(t, result, ":STRATEGY: Trend Following")
	assert.Contains(t, result, ":END:")

	assert.Contains(t, result, "*** Thesis")
	assert.Contains(t, result, "*** Execution")
	assert.Contains(t, result, "*** Review")
}

func TestFormatTradeOrgShortID(t *testing.T) {
	t.Parallel()

	rec := sampleRecord("short", time.Now())
	assert.Contains(t, FormatTradeOrg(rec), "** Trade: EUR/USD (short)")
}

func TestFormatTradeOrgLoss(t *testing.T) {
	t.Parallel()

	rec := sampleRecord("loss-trade", time.Now())
	rec.Outcome = "lost"
	rec.Profit = -100

	result := FormatTradeOrg(rec)
	assert.Contains(t, result, ":PROFIT: -100.00")
	assert.Contains(t, result, ":OUTCOME: lost")
}

func TestFormatTradeOrgNoStrategy(t *testing.T) {
	t.Parallel()

	rec := sampleRecord("manual-trade", time.Now())
	rec.Strategy = ""

	assert.NotContains(t, FormatTradeOrg(rec), ":STRATEGY:")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	close := time.Date(2026, 1, 24, 9, 31, 0, 0, time.UTC)
	trades := []TradeRecord{
		sampleRecord("trade-001", close),
		sampleRecord("trade-002", close.Add(time.Hour)),
	}

	result := FormatTradesOrg(trades)

	assert.Contains(t, result, "trade-001")
	assert.Contains(t, result, "trade-002")

	parts := strings.Split(result, "\n\n\n")
	assert.Len(t, parts, 2, "expected two trades separated by blank lines")
}

func TestFormatTradesOrgEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FormatTradesOrg(nil))
}
