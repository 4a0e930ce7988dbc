// Package classification is the metric registry. Every component that
// combines metric values across more than one week resolves the combination
// method here instead of choosing sum or average itself.
package classification

import (
	"fmt"

	apierrors "socialpulse/internal/errors"
	"socialpulse/pkg/contracts/domain"
)

// Category groups metrics by how they may be combined.
type Category string

const (
	CategorySummable    Category = "summable"
	CategoryNonSummable Category = "non_summable"
	CategoryMetadata    Category = "metadata"
)

// Method is the aggregation method registered for a metric.
type Method string

const (
	MethodSum     Method = "sum"
	MethodAverage Method = "average"
	MethodNone    Method = "none"
)

// ParseMethod converts a string to a Method.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodSum, MethodAverage, MethodNone:
		return m, nil
	default:
		return "", fmt.Errorf("unknown aggregation method %q", s)
	}
}

// FormatType tells presenters how to render a metric value.
type FormatType string

const (
	FormatNumber FormatType = "number"
	FormatString FormatType = "string"
)

// MetricDefinition is one registry entry.
type MetricDefinition struct {
	Key               domain.MetricKey `json:"key"`
	DisplayName       string           `json:"display_name"`
	Category          Category         `json:"category"`
	CanSum            bool             `json:"can_sum"`
	AggregationMethod Method           `json:"aggregation_method"`
	Unit              string           `json:"unit,omitempty"`
	FormatType        FormatType       `json:"format_type"`
	Description       string           `json:"description,omitempty"`
}

// definitions is the registry, in presentation order. Adding a metric means
// adding a domain.MetricKey constant and one entry here.
var definitions = []MetricDefinition{
	{
		Key:               domain.MetricReach,
		DisplayName:       "Reach",
		Category:          CategoryNonSummable,
		CanSum:            false,
		AggregationMethod: MethodAverage,
		Unit:              "people",
		FormatType:        FormatNumber,
		Description:       "Unique people reached in the week. Not additive across weeks.",
	},
	{
		Key:               domain.MetricEngagements,
		DisplayName:       "Engagements",
		Category:          CategorySummable,
		CanSum:            true,
		AggregationMethod: MethodSum,
		Unit:              "interactions",
		FormatType:        FormatNumber,
		Description:       "Interactions in the week. Additive across weeks.",
	},
	{
		Key:               domain.MetricPageID,
		DisplayName:       "Page ID",
		Category:          CategoryMetadata,
		AggregationMethod: MethodNone,
		FormatType:        FormatString,
	},
	{
		Key:               domain.MetricPageName,
		DisplayName:       "Page Name",
		Category:          CategoryMetadata,
		AggregationMethod: MethodNone,
		FormatType:        FormatString,
	},
	{
		Key:               domain.MetricStatus,
		DisplayName:       "Status",
		Category:          CategoryMetadata,
		AggregationMethod: MethodNone,
		FormatType:        FormatString,
	},
	{
		Key:               domain.MetricComment,
		DisplayName:       "Comment",
		Category:          CategoryMetadata,
		AggregationMethod: MethodNone,
		FormatType:        FormatString,
	},
}

var byKey = func() map[domain.MetricKey]MetricDefinition {
	m := make(map[domain.MetricKey]MetricDefinition, len(definitions))
	for _, d := range definitions {
		if _, dup := m[d.Key]; dup {
			panic(fmt.Sprintf("classification: metric %q registered twice", d.Key))
		}
		if d.CanSum != (d.AggregationMethod == MethodSum) {
			panic(fmt.Sprintf("classification: metric %q has can_sum=%t with method %s", d.Key, d.CanSum, d.AggregationMethod))
		}
		m[d.Key] = d
	}
	return m
}()

// Definitions returns a copy of the registry in presentation order.
func Definitions() []MetricDefinition {
	out := make([]MetricDefinition, len(definitions))
	copy(out, definitions)
	return out
}

// Definition returns the registry entry for a metric.
func Definition(key domain.MetricKey) (MetricDefinition, error) {
	d, ok := byKey[key]
	if !ok {
		return MetricDefinition{}, apierrors.NewAppValidationError(fmt.Sprintf("unknown metric %q", key)).
			WithContext("metric", string(key))
	}
	return d, nil
}

// CanSum reports whether a metric may be summed across weeks. Unknown
// metrics are never summable.
func CanSum(key domain.MetricKey) bool {
	d, ok := byKey[key]
	return ok && d.CanSum
}

// AggregationMethodFor returns the registered aggregation method.
func AggregationMethodFor(key domain.MetricKey) (Method, error) {
	d, err := Definition(key)
	if err != nil {
		return "", err
	}
	return d.AggregationMethod, nil
}

// ByCategory lists metric keys per category.
type ByCategory struct {
	Summable    []domain.MetricKey `json:"summable"`
	NonSummable []domain.MetricKey `json:"non_summable"`
	Metadata    []domain.MetricKey `json:"metadata"`
}

// MetricsByCategory partitions the registry by category.
func MetricsByCategory() ByCategory {
	out := ByCategory{
		Summable:    []domain.MetricKey{},
		NonSummable: []domain.MetricKey{},
		Metadata:    []domain.MetricKey{},
	}
	for _, d := range definitions {
		switch d.Category {
		case CategorySummable:
			out.Summable = append(out.Summable, d.Key)
		case CategoryNonSummable:
			out.NonSummable = append(out.NonSummable, d.Key)
		case CategoryMetadata:
			out.Metadata = append(out.Metadata, d.Key)
		}
	}
	return out
}

// SelectableMetrics returns the metrics a consumer may offer for selection:
// every registry entry with a numeric format.
func SelectableMetrics() []MetricDefinition {
	var out []MetricDefinition
	for _, d := range definitions {
		if d.FormatType == FormatNumber {
			out = append(out, d)
		}
	}
	return out
}

// ValidateAggregationMethod fails when attempted differs from the method
// registered for key. The returned *errors.AppError has type AGGREGATION and
// names the registered method.
func ValidateAggregationMethod(key domain.MetricKey, attempted Method) error {
	d, err := Definition(key)
	if err != nil {
		return err
	}
	if _, err := ParseMethod(string(attempted)); err != nil {
		return apierrors.NewAppValidationError(err.Error()).WithContext("method", string(attempted))
	}
	if attempted == d.AggregationMethod {
		return nil
	}

	msg := fmt.Sprintf("metric %q cannot be aggregated with %s: registered method is %s",
		key, attempted, d.AggregationMethod)
	if attempted == MethodSum && d.Category == CategoryNonSummable {
		msg += fmt.Sprintf(" (%s is not additive across weeks)", d.DisplayName)
	}
	return apierrors.NewAggregationError(msg).
		WithContext("metric", string(key)).
		WithContext("attempted_method", string(attempted)).
		WithContext("registered_method", string(d.AggregationMethod))
}
