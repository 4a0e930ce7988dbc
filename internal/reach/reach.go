// Package reach is the only sanctioned way to combine reach values. Reach
// counts unique people per week, so across weeks it is averaged, never summed.
package reach

import (
	"fmt"

	"socialpulse/internal/numeric"
)

// DefaultSuspiciousThreshold is the combined reach above which a multi-week
// value is flagged as a probable sum.
const DefaultSuspiciousThreshold int64 = 10_000_000

// Interpretation labels a week-to-week reach comparison.
type Interpretation string

const (
	Increase Interpretation = "increase"
	Decrease Interpretation = "decrease"
	Neutral  Interpretation = "neutral"
)

// significantChange is the percent change beyond which a comparison is not neutral.
const significantChange = 5.0

// Average returns round(sum/count) half-up, 0 for no values.
func Average(values []int64) int64 {
	return numeric.MeanInt(values)
}

// Bounds is the min/max of a set of reach values.
type Bounds struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Range returns the min and max, zero values for no input.
func Range(values []int64) Bounds {
	if len(values) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		if v < b.Min {
			b.Min = v
		}
		if v > b.Max {
			b.Max = v
		}
	}
	return b
}

// Comparison is the change in reach between two weeks.
type Comparison struct {
	Difference     int64          `json:"difference"`
	PercentChange  float64        `json:"percent_change"`
	Interpretation Interpretation `json:"interpretation"`
}

// CompareBetweenWeeks compares reach a (earlier) with b (later).
func CompareBetweenWeeks(a, b int64) Comparison {
	c := Comparison{Difference: b - a, Interpretation: Neutral}
	if a > 0 {
		c.PercentChange = numeric.PercentOf(float64(b-a), float64(a))
	}
	switch {
	case c.PercentChange > significantChange:
		c.Interpretation = Increase
	case c.PercentChange < -significantChange:
		c.Interpretation = Decrease
	}
	return c
}

// Warning is an advisory flag on a reach value that looks like a sum.
type Warning struct {
	// Figure names the flagged value in the caller's output, if set.
	Figure      string `json:"figure,omitempty"`
	Value       int64  `json:"value"`
	PeriodCount int    `json:"period_count"`
	Threshold   int64  `json:"threshold"`
	Message     string `json:"message"`
}

// Detector flags combined reach values that were probably summed.
// It is a heuristic; smaller erroneous sums go unnoticed.
type Detector struct {
	threshold int64
}

// NewDetector creates a detector. A non-positive threshold selects
// DefaultSuspiciousThreshold.
func NewDetector(threshold int64) *Detector {
	if threshold <= 0 {
		threshold = DefaultSuspiciousThreshold
	}
	return &Detector{threshold: threshold}
}

// Threshold returns the configured threshold.
func (d *Detector) Threshold() int64 {
	return d.threshold
}

// Detect returns a warning when candidate spans more than one period and
// exceeds the threshold, nil otherwise.
func (d *Detector) Detect(candidate int64, periodCount int) *Warning {
	if periodCount <= 1 || candidate <= d.threshold {
		return nil
	}
	return &Warning{
		Value:       candidate,
		PeriodCount: periodCount,
		Threshold:   d.threshold,
		Message: fmt.Sprintf("reach %d over %d periods exceeds %d; reach may have been summed instead of averaged",
			candidate, periodCount, d.threshold),
	}
}

// DetectIncorrectSum applies the default threshold.
func DetectIncorrectSum(candidate int64, periodCount int) *Warning {
	return NewDetector(DefaultSuspiciousThreshold).Detect(candidate, periodCount)
}
