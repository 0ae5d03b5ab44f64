package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewRoundingMethod(t *testing.T) {
	m, err := NewRoundingMethod("HALF_EVEN")
	require.NoError(t, err)
	assert.True(t, m.Equal(RoundHalfEven))

	_, err = NewRoundingMethod("NEAREST_PRIME")
	assert.Error(t, err)
}

func TestRound_Methods(t *testing.T) {
	tests := []struct {
		name   string
		method RoundingMethod
		in     string
		want   string
	}{
		{"half even ties to even down", RoundHalfEven, "2.125", "2.12"},
		{"half even ties to even up", RoundHalfEven, "2.135", "2.14"},
		{"half even non-tie", RoundHalfEven, "2.126", "2.13"},
		{"half up positive tie", RoundHalfUp, "2.125", "2.13"},
		{"half up negative tie goes toward +inf", RoundHalfUp, "-2.125", "-2.12"},
		{"half down positive tie", RoundHalfDown, "2.125", "2.12"},
		{"half down negative tie goes toward -inf", RoundHalfDown, "-2.125", "-2.13"},
		{"up is ceiling", RoundUp, "2.121", "2.13"},
		{"up negative", RoundUp, "-2.129", "-2.12"},
		{"down is floor", RoundDown, "2.129", "2.12"},
		{"down negative", RoundDown, "-2.121", "-2.13"},
		{"half away from zero positive", RoundHalfAwayFromZero, "2.125", "2.13"},
		{"half away from zero negative", RoundHalfAwayFromZero, "-2.125", "-2.13"},
		{"half toward zero positive", RoundHalfTowardZero, "2.125", "2.12"},
		{"half toward zero negative", RoundHalfTowardZero, "-2.125", "-2.12"},
		{"half toward zero above tie", RoundHalfTowardZero, "2.126", "2.13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := RoundingConfig{Method: tt.method, DecimalPlaces: 2}
			got := Round(dec(tt.in), cfg)
			assert.True(t, got.Equal(dec(tt.want)),
				"Round(%s, %s) = %s, want %s", tt.in, tt.method, got, tt.want)
		})
	}
}

func TestRound_Idempotent(t *testing.T) {
	values := []string{"2.125", "-2.125", "0.005", "99.999", "-0.005", "1234.5678"}

	for _, m := range []RoundingMethod{
		RoundHalfEven, RoundHalfUp, RoundHalfDown,
		RoundUp, RoundDown, RoundHalfAwayFromZero, RoundHalfTowardZero,
	} {
		cfg := RoundingConfig{Method: m, DecimalPlaces: 2}
		for _, v := range values {
			once := Round(dec(v), cfg)
			twice := Round(once, cfg)
			assert.True(t, once.Equal(twice),
				"rounding %s with %s is not idempotent: %s != %s", v, m, once, twice)
		}
	}
}

func TestRound_ZeroPlaces(t *testing.T) {
	cfg := RoundingConfig{Method: RoundHalfEven, DecimalPlaces: 0}
	assert.True(t, Round(dec("2.5"), cfg).Equal(dec("2")))
	assert.True(t, Round(dec("3.5"), cfg).Equal(dec("4")))
}

func TestRound_DefaultsToBankers(t *testing.T) {
	// Zero-value method falls back to HALF_EVEN at the configured precision.
	got := Round(dec("2.135"), RoundingConfig{DecimalPlaces: 2})
	assert.True(t, got.Equal(dec("2.14")))
}

func TestRound_UnsupportedMethodPanics(t *testing.T) {
	assert.Panics(t, func() {
		Round(dec("1.23"), RoundingConfig{Method: RoundingMethod{value: "BOGUS"}, DecimalPlaces: 2})
	})
}

func TestSafeDivide(t *testing.T) {
	assert.True(t, SafeDivide(dec("10"), dec("4"), decimal.Zero).Equal(dec("2.5")))
	assert.True(t, SafeDivide(dec("10"), decimal.Zero, decimal.Zero).Equal(decimal.Zero))
	assert.True(t, SafeDivide(dec("10"), decimal.Zero, dec("7")).Equal(dec("7")))
}

func TestPercent(t *testing.T) {
	assert.True(t, Percent(dec("5.25")).Equal(dec("0.0525")))
	assert.True(t, Percent(decimal.Zero).Equal(decimal.Zero))
}

func TestDefaultRounding(t *testing.T) {
	cfg := DefaultRounding()
	assert.True(t, cfg.Method.Equal(RoundHalfEven))
	assert.EqualValues(t, 2, cfg.DecimalPlaces)
}
