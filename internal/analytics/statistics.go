package analytics

import (
	"math"
	"sort"

	"socialpulse/internal/classification"
	"socialpulse/internal/numeric"
	"socialpulse/pkg/contracts/domain"
)

// BestWorst holds the highest and lowest week for a metric.
type BestWorst struct {
	Best  *domain.WeeklyRecord `json:"best"`
	Worst *domain.WeeklyRecord `json:"worst"`
}

// BestAndWorstWeek scans records once. Ties keep the first record
// encountered; presort the input for a different tie-break.
func BestAndWorstWeek(records []domain.WeeklyRecord, metric domain.MetricKey) BestWorst {
	if len(records) == 0 {
		return BestWorst{}
	}
	best, worst := 0, 0
	for i := 1; i < len(records); i++ {
		v := records[i].Value(metric)
		if v > records[best].Value(metric) {
			best = i
		}
		if v < records[worst].Value(metric) {
			worst = i
		}
	}
	b, w := records[best], records[worst]
	return BestWorst{Best: &b, Worst: &w}
}

// Statistics are descriptive statistics of one metric.
//
// Total is the plain sum and is reported for every metric. It is not a valid
// aggregate for reach; Aggregate carries the value combined with the
// registered method.
type Statistics struct {
	Metric    domain.MetricKey      `json:"metric"`
	Count     int                   `json:"count"`
	Min       int64                 `json:"min"`
	Max       int64                 `json:"max"`
	Average   int64                 `json:"average"`
	Median    float64               `json:"median"`
	Total     int64                 `json:"total"`
	Method    classification.Method `json:"method,omitempty"`
	Aggregate int64                 `json:"aggregate"`
}

// MetricStatistics computes min, max, average, median and total.
// Empty input yields zeros.
func MetricStatistics(records []domain.WeeklyRecord, metric domain.MetricKey) Statistics {
	stats := Statistics{Metric: metric, Count: len(records)}
	policy, err := classification.PolicyFor(metric)
	if err == nil {
		stats.Method = policy.Method
	}
	if len(records) == 0 {
		return stats
	}

	values := Values(records, metric)
	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.Total = numeric.Sum(values)
	stats.Average = numeric.RoundInt(float64(stats.Total) / float64(len(values)))

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		stats.Median = float64(sorted[mid-1]+sorted[mid]) / 2
	} else {
		stats.Median = float64(sorted[mid])
	}

	if err == nil {
		if agg, cerr := policy.Combine(values); cerr == nil {
			stats.Aggregate = agg
		}
	}
	return stats
}

// Volatility is the population standard deviation of a metric, rounded to
// the nearest integer. Fewer than two records yield 0.
func Volatility(records []domain.WeeklyRecord, metric domain.MetricKey) int64 {
	if len(records) < 2 {
		return 0
	}
	values := Values(records, metric)
	mean := float64(numeric.Sum(values)) / float64(len(values))

	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return numeric.RoundInt(math.Sqrt(sq / float64(len(values))))
}

// Ranking is one record's position in a ranking.
type Ranking struct {
	Rank   int               `json:"rank"`
	Page   domain.Page       `json:"page"`
	Period domain.WeekPeriod `json:"period"`
	Value  int64             `json:"value"`
}

// RankPagesByMetric orders records by metric descending. Ranks are 1..n
// with no sharing; ties keep input order.
func RankPagesByMetric(records []domain.WeeklyRecord, metric domain.MetricKey) []Ranking {
	sorted := make([]domain.WeeklyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value(metric) > sorted[j].Value(metric)
	})

	out := make([]Ranking, len(sorted))
	for i, r := range sorted {
		out[i] = Ranking{Rank: i + 1, Page: r.Page, Period: r.Period, Value: r.Value(metric)}
	}
	return out
}
