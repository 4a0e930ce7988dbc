package classification

import (
	"fmt"

	apierrors "socialpulse/internal/errors"
	"socialpulse/internal/numeric"
	"socialpulse/internal/reach"
	"socialpulse/pkg/contracts/domain"
)

// Policy combines one metric's values across weeks using the registered method.
type Policy struct {
	Metric domain.MetricKey
	Method Method
}

// PolicyFor resolves the combination policy for a metric.
func PolicyFor(key domain.MetricKey) (Policy, error) {
	method, err := AggregationMethodFor(key)
	if err != nil {
		return Policy{}, err
	}
	return Policy{Metric: key, Method: method}, nil
}

// MustPolicy is PolicyFor for package-level initialization. It panics on an
// unregistered metric.
func MustPolicy(key domain.MetricKey) Policy {
	p, err := PolicyFor(key)
	if err != nil {
		panic(fmt.Sprintf("classification: %v", err))
	}
	return p
}

// Combine aggregates values with the policy's method. Average goes through
// reach.Average; a metric registered as none cannot be combined.
func (p Policy) Combine(values []int64) (int64, error) {
	switch p.Method {
	case MethodSum:
		return numeric.Sum(values), nil
	case MethodAverage:
		return reach.Average(values), nil
	default:
		return 0, apierrors.NewAggregationError(fmt.Sprintf("metric %q has no aggregation method", p.Metric)).
			WithContext("metric", string(p.Metric)).
			WithContext("registered_method", string(p.Method))
	}
}

// MustCombine is Combine for policies known to be numeric.
func (p Policy) MustCombine(values []int64) int64 {
	v, err := p.Combine(values)
	if err != nil {
		panic(err)
	}
	return v
}

// CombineRecords extracts the policy's metric from each record and combines them.
func (p Policy) CombineRecords(records []domain.WeeklyRecord) (int64, error) {
	values := make([]int64, len(records))
	for i, r := range records {
		values[i] = r.Value(p.Metric)
	}
	return p.Combine(values)
}
