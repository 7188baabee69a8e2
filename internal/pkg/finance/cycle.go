package finance

import (
	"errors"
	"fmt"
	"math"
)

// Cycle is the recurrence period of a subscription charge.
type Cycle string

const (
	CycleWeekly    Cycle = "weekly"
	CycleMonthly   Cycle = "monthly"
	CycleQuarterly Cycle = "quarterly"
	CycleYearly    Cycle = "yearly"
)

// ErrUnknownCycle is returned when a billing cycle outside the fixed enum
// reaches the normalizer. Validation happens upstream, so hitting this is a
// caller bug and must not produce a silently wrong number.
var ErrUnknownCycle = errors.New("unknown billing cycle")

// Cycles lists every valid billing cycle.
func Cycles() []Cycle {
	return []Cycle{CycleWeekly, CycleMonthly, CycleQuarterly, CycleYearly}
}

// IsValidCycle reports whether c is one of the four defined billing cycles.
func IsValidCycle(c Cycle) bool {
	switch c {
	case CycleWeekly, CycleMonthly, CycleQuarterly, CycleYearly:
		return true
	}
	return false
}

// MonthlyFactor returns the multiplier that converts a per-cycle cost into a
// monthly-equivalent cost. Weekly uses the average-weeks-per-month
// approximation 4.33.
func MonthlyFactor(c Cycle) (float64, error) {
	switch c {
	case CycleWeekly:
		return 4.33, nil
	case CycleMonthly:
		return 1, nil
	case CycleQuarterly:
		return 1.0 / 3, nil
	case CycleYearly:
		return 1.0 / 12, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCycle, c)
}

// MonthlyCost converts a (cost, cycle) pair into its monthly-equivalent cost.
func MonthlyCost(cost float64, c Cycle) (float64, error) {
	factor, err := MonthlyFactor(c)
	if err != nil {
		return 0, err
	}
	return cost * factor, nil
}

// YearlyCost converts a (cost, cycle) pair into its yearly-equivalent cost.
func YearlyCost(cost float64, c Cycle) (float64, error) {
	monthly, err := MonthlyCost(cost, c)
	if err != nil {
		return 0, err
	}
	return monthly * 12, nil
}

// Round2 rounds to two decimal places, half away from zero. Used at output
// boundaries only; intermediate sums keep full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundPercent rounds a percentage to one decimal place.
func roundPercent(v float64) float64 {
	return math.Round(v*1000) / 10
}
