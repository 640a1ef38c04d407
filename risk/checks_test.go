package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckStakeOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		amount  float64
		wantErr error
	}{
		{"valid", 100, nil},
		{"below minimum", 5, ErrBelowMinimum},
		{"over max size", 1500, ErrExceedsMaxTradeSize},
		{"over balance", 900, ErrInsufficientBalance},
		// Below minimum wins even though it is also under every other limit.
		{"zero amount", 0, ErrBelowMinimum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckStake(tt.amount, 10, 1000, 800)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckStakeMaxBeforeBalance(t *testing.T) {
	t.Parallel()

	// 5000 violates both max size and balance; max size is checked first.
	err := CheckStake(5000, 10, 1000, 800)
	assert.ErrorIs(t, err, ErrExceedsMaxTradeSize)
}

func TestCheckDailyLoss(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckDailyLoss(400, 500))
	assert.ErrorIs(t, CheckDailyLoss(500, 500), ErrDailyLossLimit)
	assert.ErrorIs(t, CheckDailyLoss(600, 500), ErrDailyLossLimit)

	// Zero limit disables the breaker.
	assert.NoError(t, CheckDailyLoss(1e9, 0))
}

func TestLevelFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		balance  float64
		exposure float64
		want     Level
	}{
		{"no exposure", 10000, 0, Low},
		{"just under ten pct", 10000, 999, Low},
		{"medium band", 10000, 1500, Medium},
		{"high", 10000, 2500, High},
		{"depleted balance with exposure", 0, 100, High},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFor(tt.balance, tt.exposure))
		})
	}
}

func TestPortfolioAtRisk(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 3.0, PortfolioAtRisk(10000, 300), 1e-9)
	assert.Equal(t, 100.0, PortfolioAtRisk(0, 1))
	assert.Equal(t, 0.0, PortfolioAtRisk(0, 0))
}
