package domain

import "fmt"

// MetricKey identifies a field of a weekly record known to the metric registry.
type MetricKey string

// Numeric metrics.
const (
	MetricReach       MetricKey = "reach"
	MetricEngagements MetricKey = "engagements"
)

// Metadata fields.
const (
	MetricPageID   MetricKey = "page_id"
	MetricPageName MetricKey = "page_name"
	MetricStatus   MetricKey = "status"
	MetricComment  MetricKey = "comment"
)

// NumericMetrics returns the metric keys that carry values.
func NumericMetrics() []MetricKey {
	return []MetricKey{MetricReach, MetricEngagements}
}

// IsNumeric reports whether the key carries a numeric value.
func (k MetricKey) IsNumeric() bool {
	return k == MetricReach || k == MetricEngagements
}

// String implements fmt.Stringer.
func (k MetricKey) String() string {
	return string(k)
}

// ParseMetricKey converts a string to a numeric metric key.
func ParseMetricKey(s string) (MetricKey, error) {
	k := MetricKey(s)
	if !k.IsNumeric() {
		return "", fmt.Errorf("unknown metric %q", s)
	}
	return k, nil
}

// Metrics is the metric pair for one page in one week.
// Reach must never be summed across periods; engagements may be.
type Metrics struct {
	Reach       int64 `json:"reach" validate:"min=0"`
	Engagements int64 `json:"engagements" validate:"min=0"`
}

// Value returns the value of a numeric metric, 0 for any other key.
func (m Metrics) Value(key MetricKey) int64 {
	switch key {
	case MetricReach:
		return m.Reach
	case MetricEngagements:
		return m.Engagements
	default:
		return 0
	}
}
