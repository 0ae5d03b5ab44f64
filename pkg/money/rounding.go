// Package money provides the decimal arithmetic primitives shared by every
// calculation component: a configurable rounding discipline and division
// helpers with defined behavior for degenerate denominators.
//
// All monetary values flow through shopspring/decimal; binary floating point
// is never used for amounts or rates. Rounding configuration is always passed
// explicitly so that concurrent calculations can never observe each other's
// rounding mode.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// RoundingMethod – immutable value object
// ---------------------------------------------------------------------------

// RoundingMethod selects how a value is rounded to a fixed number of
// decimal places.
type RoundingMethod struct {
	value string
}

const (
	methodHalfEven         = "HALF_EVEN"
	methodHalfUp           = "HALF_UP"
	methodHalfDown         = "HALF_DOWN"
	methodUp               = "UP"
	methodDown             = "DOWN"
	methodHalfAwayFromZero = "HALF_AWAY_FROM_ZERO"
	methodHalfTowardZero   = "HALF_TOWARD_ZERO"
)

var (
	// RoundHalfEven is banker's rounding: ties go to the even neighbour.
	RoundHalfEven = RoundingMethod{value: methodHalfEven}
	// RoundHalfUp rounds ties toward positive infinity.
	RoundHalfUp = RoundingMethod{value: methodHalfUp}
	// RoundHalfDown rounds ties toward negative infinity.
	RoundHalfDown = RoundingMethod{value: methodHalfDown}
	// RoundUp always rounds toward positive infinity (ceiling).
	RoundUp = RoundingMethod{value: methodUp}
	// RoundDown always rounds toward negative infinity (floor).
	RoundDown = RoundingMethod{value: methodDown}
	// RoundHalfAwayFromZero rounds ties away from zero.
	RoundHalfAwayFromZero = RoundingMethod{value: methodHalfAwayFromZero}
	// RoundHalfTowardZero rounds ties toward zero.
	RoundHalfTowardZero = RoundingMethod{value: methodHalfTowardZero}
)

var validRoundingMethods = map[string]RoundingMethod{
	methodHalfEven:         RoundHalfEven,
	methodHalfUp:           RoundHalfUp,
	methodHalfDown:         RoundHalfDown,
	methodUp:               RoundUp,
	methodDown:             RoundDown,
	methodHalfAwayFromZero: RoundHalfAwayFromZero,
	methodHalfTowardZero:   RoundHalfTowardZero,
}

// NewRoundingMethod creates a RoundingMethod from a raw string.
func NewRoundingMethod(s string) (RoundingMethod, error) {
	m, ok := validRoundingMethods[s]
	if !ok {
		return RoundingMethod{}, fmt.Errorf("invalid rounding method: %q", s)
	}
	return m, nil
}

// String returns the string representation of the method.
func (m RoundingMethod) String() string { return m.value }

// IsZero returns true if the method has not been initialised.
func (m RoundingMethod) IsZero() bool { return m.value == "" }

// Equal returns true when both methods carry the same value.
func (m RoundingMethod) Equal(other RoundingMethod) bool {
	return m.value == other.value
}

// ---------------------------------------------------------------------------
// RoundingConfig
// ---------------------------------------------------------------------------

// DefaultDecimalPlaces is the monetary precision used when no explicit
// configuration is supplied.
const DefaultDecimalPlaces = 2

// RoundingConfig pairs a rounding method with a fixed number of decimal
// places. Every monetary intermediate result is rounded through one of these
// immediately after it is computed, never deferred, so schedules cannot
// accumulate drift.
type RoundingConfig struct {
	Method        RoundingMethod
	DecimalPlaces int32
}

// DefaultRounding returns the standard configuration: banker's rounding at
// two decimal places.
func DefaultRounding() RoundingConfig {
	return RoundingConfig{Method: RoundHalfEven, DecimalPlaces: DefaultDecimalPlaces}
}

// normalized fills zero-value fields with defaults.
func (c RoundingConfig) normalized() RoundingConfig {
	if c.Method.IsZero() {
		c.Method = RoundHalfEven
	}
	return c
}

// ---------------------------------------------------------------------------
// Rounding
// ---------------------------------------------------------------------------

var decimalHalf = decimal.NewFromFloat(0.5)

// Round rounds d to cfg.DecimalPlaces fractional digits using cfg.Method.
// It panics on an unrecognised method: that indicates a caller/engine version
// mismatch, not user input.
func Round(d decimal.Decimal, cfg RoundingConfig) decimal.Decimal {
	cfg = cfg.normalized()
	places := cfg.DecimalPlaces

	switch cfg.Method.value {
	case methodHalfEven:
		return d.RoundBank(places)
	case methodHalfAwayFromZero:
		return d.Round(places)
	case methodUp:
		return d.RoundCeil(places)
	case methodDown:
		return d.RoundFloor(places)
	case methodHalfUp:
		return roundHalfUp(d, places)
	case methodHalfDown:
		return roundHalfDown(d, places)
	case methodHalfTowardZero:
		return roundHalfTowardZero(d, places)
	default:
		panic(fmt.Sprintf("money: unsupported rounding method %q", cfg.Method.value))
	}
}

// roundHalfUp rounds ties toward positive infinity: 2.5 -> 3, -2.5 -> -2.
func roundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	shifted := d.Shift(places)
	floor := shifted.Floor()
	if shifted.Sub(floor).Cmp(decimalHalf) >= 0 {
		floor = floor.Add(decimal.New(1, 0))
	}
	return floor.Shift(-places)
}

// roundHalfDown rounds ties toward negative infinity: 2.5 -> 2, -2.5 -> -3.
func roundHalfDown(d decimal.Decimal, places int32) decimal.Decimal {
	shifted := d.Shift(places)
	floor := shifted.Floor()
	if shifted.Sub(floor).Cmp(decimalHalf) > 0 {
		floor = floor.Add(decimal.New(1, 0))
	}
	return floor.Shift(-places)
}

// roundHalfTowardZero rounds ties toward zero: 2.5 -> 2, -2.5 -> -2.
func roundHalfTowardZero(d decimal.Decimal, places int32) decimal.Decimal {
	shifted := d.Abs().Shift(places)
	floor := shifted.Floor()
	if shifted.Sub(floor).Cmp(decimalHalf) > 0 {
		floor = floor.Add(decimal.New(1, 0))
	}
	result := floor.Shift(-places)
	if d.IsNegative() {
		return result.Neg()
	}
	return result
}

// ---------------------------------------------------------------------------
// Division helpers
// ---------------------------------------------------------------------------

// SafeDivide returns a/b, or dflt when b is zero. A zero denominator is an
// expected edge case (for example a zero regular-payment baseline), not a
// fault.
func SafeDivide(a, b, dflt decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return dflt
	}
	return a.Div(b)
}

// Percent converts a percentage-point value (5.25 meaning 5.25%) to its
// fractional rate (0.0525).
func Percent(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(decimal.NewFromInt(100))
}
