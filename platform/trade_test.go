package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseExpiry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  time.Duration
		ok    bool
	}{
		{"30s", 30 * time.Second, true},
		{"1m", time.Minute, true},
		{"5m", 5 * time.Minute, true},
		{"15m", 15 * time.Minute, true},
		{"1h", time.Hour, true},
		{"", DefaultExpiry, true},
		{"45m", 0, false},
		{"60s", 0, false},
		{"1M", 0, false},
		{"2h", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseExpiry(tt.label)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrBadExpiry, tt.label)
			continue
		}
		assert.NoError(t, err, tt.label)
		assert.Equal(t, tt.want, got, tt.label)
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	d, err := ParseDirection("call")
	assert.NoError(t, err)
	assert.Equal(t, Call, d)

	d, err = ParseDirection("PUT")
	assert.NoError(t, err)
	assert.Equal(t, Put, d)

	_, err = ParseDirection("straddle")
	assert.Error(t, err)
}

func TestMarkPL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		dir   Direction
		entry float64
		mark  float64
		want  float64
	}{
		{"call above entry", Call, 1.0850, 1.0900, 85},
		{"call below entry", Call, 1.0850, 1.0800, -100},
		{"call at entry", Call, 1.0850, 1.0850, -100},
		{"put below entry", Put, 1.0850, 1.0800, 85},
		{"put above entry", Put, 1.0850, 1.0900, -100},
		{"put at entry", Put, 1.0850, 1.0850, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := markPL(tt.dir, 100, 185, tt.entry, tt.mark)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "active", StatusActive.String())
	assert.Equal(t, "won", StatusWon.String())
	assert.Equal(t, "lost", StatusLost.String())
	assert.Equal(t, "call", Call.String())
	assert.Equal(t, "put", Put.String())
}
