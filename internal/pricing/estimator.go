// Package pricing turns a laundry weight bracket into a price estimate.
package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/washday/laundry-backend/pkg/enums"
)

var (
	DefaultRatePerPound  = decimal.RequireFromString("1.75")
	DefaultMinimumCharge = decimal.RequireFromString("17.50")
)

// Estimator applies a per-pound rate to the bracket midpoint, floored at a minimum charge.
type Estimator struct {
	rate    decimal.Decimal
	minimum decimal.Decimal
}

// NewEstimator validates and stores the rate and minimum.
func NewEstimator(ratePerPound, minimum decimal.Decimal) (*Estimator, error) {
	if !ratePerPound.IsPositive() {
		return nil, fmt.Errorf("rate per pound must be positive, got %s", ratePerPound)
	}
	if minimum.IsNegative() {
		return nil, fmt.Errorf("minimum charge must not be negative, got %s", minimum)
	}
	return &Estimator{rate: ratePerPound, minimum: minimum}, nil
}

// Default uses the catalogue rate of $1.75/lb with a $17.50 floor.
func Default() *Estimator {
	return &Estimator{rate: DefaultRatePerPound, minimum: DefaultMinimumCharge}
}

func (e *Estimator) RatePerPound() decimal.Decimal  { return e.rate }
func (e *Estimator) MinimumCharge() decimal.Decimal { return e.minimum }

// Estimate returns the dollar amount for the bracket, rounded to cents.
func (e *Estimator) Estimate(bracket enums.WeightBracket) (decimal.Decimal, error) {
	midpoint, err := Midpoint(bracket)
	if err != nil {
		return decimal.Zero, err
	}
	amount := decimal.Max(midpoint.Mul(e.rate), e.minimum)
	return amount.Round(2), nil
}

// MinorUnits converts a dollar amount into integer cents.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

// FromMinorUnits is the inverse of MinorUnits.
func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatAmount renders a dollar amount with exactly two decimals, e.g. "27.13".
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Midpoint parses "low-high" or "low+" and returns the point estimate in pounds.
// A bracket with no high end uses its low value.
func Midpoint(bracket enums.WeightBracket) (decimal.Decimal, error) {
	raw := strings.TrimSpace(string(bracket))
	if raw == "" {
		return decimal.Zero, fmt.Errorf("weight bracket is required")
	}
	if low, ok := strings.CutSuffix(raw, "+"); ok {
		v, err := parseBound(low)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse weight bracket %q: %w", raw, err)
		}
		return v, nil
	}
	lowRaw, highRaw, found := strings.Cut(raw, "-")
	if !found {
		v, err := parseBound(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse weight bracket %q: %w", raw, err)
		}
		return v, nil
	}
	low, err := parseBound(lowRaw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse weight bracket %q: %w", raw, err)
	}
	high, err := parseBound(highRaw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse weight bracket %q: %w", raw, err)
	}
	if high.LessThan(low) {
		return decimal.Zero, fmt.Errorf("weight bracket %q has high below low", raw)
	}
	return low.Add(high).Div(decimal.NewFromInt(2)), nil
}

func parseBound(value string) (decimal.Decimal, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, err
	}
	if n < 0 {
		return decimal.Zero, fmt.Errorf("negative bound %d", n)
	}
	return decimal.NewFromInt(int64(n)), nil
}
