package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(Config{Kind: "martingale", Period: 5}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestTrendFollowing(t *testing.T) {
	t.Parallel()

	cfg := Config{Kind: TrendFollowing, Period: 4, Threshold: 0.001}

	tests := []struct {
		name    string
		history []float64
		want    Signal
	}{
		{
			name:    "too few samples holds",
			history: []float64{1.0850, 1.0851, 1.0852},
			want:    Hold,
		},
		{
			name: "latest well above sma calls",
			// sma of last 4 = 1.0850; latest 1.0870 is ~0.18% above.
			history: []float64{1.0840, 1.0845, 1.0845, 1.0870},
			want:    Call,
		},
		{
			name:    "latest well below sma puts",
			history: []float64{1.0860, 1.0855, 1.0855, 1.0830},
			want:    Put,
		},
		{
			name:    "inside band holds",
			history: []float64{1.0850, 1.0850, 1.0850, 1.0850},
			want:    Hold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Evaluate(cfg, tt.history)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Signal, d.Reason)
		})
	}
}

func TestMeanReversionRSIBoundary(t *testing.T) {
	t.Parallel()

	cfg := Config{Kind: MeanReversion, Period: 14}

	// Strictly increasing window: avgLoss = 0, RSI must be exactly 100,
	// which is overbought and therefore PUT, never CALL.
	history := make([]float64, 15)
	for i := range history {
		history[i] = 1.0800 + float64(i)*0.0005
	}

	assert.Equal(t, 100.0, RSI(history, 14))

	d, err := Evaluate(cfg, history)
	require.NoError(t, err)
	assert.Equal(t, Put, d.Signal)
}

func TestMeanReversionOversold(t *testing.T) {
	t.Parallel()

	cfg := Config{Kind: MeanReversion, Period: 14}

	history := make([]float64, 15)
	for i := range history {
		history[i] = 1.0900 - float64(i)*0.0005
	}

	d, err := Evaluate(cfg, history)
	require.NoError(t, err)
	assert.Equal(t, Call, d.Signal)
}

func TestMeanReversionWarmup(t *testing.T) {
	t.Parallel()

	cfg := Config{Kind: MeanReversion, Period: 14}

	// 14 samples give only 13 deltas; that is still warming up.
	d, err := Evaluate(cfg, make([]float64, 14))
	require.NoError(t, err)
	assert.Equal(t, Hold, d.Signal)
}

func TestBreakout(t *testing.T) {
	t.Parallel()

	cfg := Config{Kind: Breakout, Period: 3, BreakoutThreshold: 0.001}

	flat := []float64{1.0850, 1.0851, 1.0849}

	tests := []struct {
		name   string
		recent []float64
		want   Signal
	}{
		{"breaks above previous high", []float64{1.0850, 1.0855, 1.0880}, Call},
		{"breaks below previous low", []float64{1.0850, 1.0845, 1.0820}, Put},
		{"stays inside range", []float64{1.0850, 1.0851, 1.0850}, Hold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Evaluate(cfg, append(append([]float64{}, flat...), tt.recent...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Signal, d.Reason)
		})
	}
}

func TestBreakoutWarmup(t *testing.T) {
	t.Parallel()

	cfg := Config{Kind: Breakout, Period: 10, BreakoutThreshold: 0.001}

	d, err := Evaluate(cfg, make([]float64, 19))
	require.NoError(t, err)
	assert.Equal(t, Hold, d.Signal)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"valid trend", Config{Kind: TrendFollowing, Period: 20, Threshold: 0.001}, nil},
		{"valid rsi", Config{Kind: MeanReversion, Period: 14}, nil},
		{"valid breakout", Config{Kind: Breakout, Period: 10, BreakoutThreshold: 0.0015}, nil},
		{"zero period", Config{Kind: MeanReversion}, ErrMissingPeriod},
		{"trend without threshold", Config{Kind: TrendFollowing, Period: 20}, ErrMissingThreshold},
		{"breakout without threshold", Config{Kind: Breakout, Period: 10}, ErrMissingThreshold},
		{"unknown kind", Config{Kind: "grid", Period: 5}, ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
