package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/classification"
	"socialpulse/internal/shared/testutil"
	"socialpulse/pkg/contracts/domain"
)

func engagementSeries(values ...int64) []domain.WeeklyRecord {
	records := make([]domain.WeeklyRecord, len(values))
	for i, v := range values {
		records[i] = testutil.Record("P1", 2025, i+1, v*100, v)
	}
	return records
}

func TestBestAndWorstWeek(t *testing.T) {
	records := engagementSeries(30, 50, 10, 50, 10)

	bw := BestAndWorstWeek(records, domain.MetricEngagements)
	require.NotNil(t, bw.Best)
	require.NotNil(t, bw.Worst)
	assert.Equal(t, "2025_2", bw.Best.Period.Key(), "first of the tied best weeks")
	assert.Equal(t, "2025_3", bw.Worst.Period.Key(), "first of the tied worst weeks")

	empty := BestAndWorstWeek(nil, domain.MetricReach)
	assert.Nil(t, empty.Best)
	assert.Nil(t, empty.Worst)
}

func TestBestAndWorstWeek_AllEqual(t *testing.T) {
	records := engagementSeries(5, 5, 5)
	bw := BestAndWorstWeek(records, domain.MetricEngagements)
	assert.Equal(t, "2025_1", bw.Best.Period.Key())
	assert.Equal(t, "2025_1", bw.Worst.Period.Key())
}

func TestMetricStatistics(t *testing.T) {
	tests := []struct {
		name       string
		values     []int64
		wantMedian float64
		wantAvg    int64
		wantTotal  int64
	}{
		{name: "odd count", values: []int64{30, 10, 20}, wantMedian: 20, wantAvg: 20, wantTotal: 60},
		{name: "even count", values: []int64{10, 40, 20, 30}, wantMedian: 25, wantAvg: 25, wantTotal: 100},
		{name: "fractional median", values: []int64{1, 2}, wantMedian: 1.5, wantAvg: 2, wantTotal: 3},
		{name: "single", values: []int64{9}, wantMedian: 9, wantAvg: 9, wantTotal: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := MetricStatistics(engagementSeries(tt.values...), domain.MetricEngagements)
			assert.Equal(t, tt.wantMedian, stats.Median)
			assert.Equal(t, tt.wantAvg, stats.Average)
			assert.Equal(t, tt.wantTotal, stats.Total)
			assert.Equal(t, len(tt.values), stats.Count)
			assert.Equal(t, classification.MethodSum, stats.Method)
			assert.Equal(t, tt.wantTotal, stats.Aggregate)
		})
	}
}

func TestMetricStatistics_ReachAggregateIsAverage(t *testing.T) {
	records := []domain.WeeklyRecord{
		testutil.Record("P1", 2025, 1, 100000, 500),
		testutil.Record("P1", 2025, 2, 120000, 700),
	}

	stats := MetricStatistics(records, domain.MetricReach)
	assert.Equal(t, int64(220000), stats.Total)
	assert.Equal(t, int64(110000), stats.Aggregate)
	assert.Equal(t, classification.MethodAverage, stats.Method)
	assert.Equal(t, int64(100000), stats.Min)
	assert.Equal(t, int64(120000), stats.Max)
}

func TestMetricStatistics_Empty(t *testing.T) {
	stats := MetricStatistics(nil, domain.MetricReach)
	assert.Equal(t, 0, stats.Count)
	assert.Zero(t, stats.Median)
	assert.Zero(t, stats.Total)
}

func TestVolatility(t *testing.T) {
	assert.Equal(t, int64(0), Volatility(engagementSeries(42), domain.MetricEngagements))
	assert.Equal(t, int64(0), Volatility(engagementSeries(5, 5, 5), domain.MetricEngagements))
	// population stddev of 2,4,4,4,5,5,7,9 is exactly 2
	assert.Equal(t, int64(2), Volatility(engagementSeries(2, 4, 4, 4, 5, 5, 7, 9), domain.MetricEngagements))
	// stddev of 1,2 is 0.5, rounds up
	assert.Equal(t, int64(1), Volatility(engagementSeries(1, 2), domain.MetricEngagements))
}

func TestRankPagesByMetric(t *testing.T) {
	records := []domain.WeeklyRecord{
		testutil.Record("A", 2025, 1, 10, 300),
		testutil.Record("B", 2025, 1, 10, 500),
		testutil.Record("C", 2025, 1, 10, 300),
		testutil.Record("D", 2025, 1, 10, 900),
	}

	ranked := RankPagesByMetric(records, domain.MetricEngagements)
	require.Len(t, ranked, 4)

	var ids []string
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].Value, r.Value)
		}
		ids = append(ids, r.Page.PageID)
	}
	assert.Equal(t, []string{"D", "B", "A", "C"}, ids, "ties keep input order")
	assert.Equal(t, "A", records[0].Page.PageID, "input must not be reordered")
}

func TestIdempotence(t *testing.T) {
	records := engagementSeries(3, 1, 4, 1, 5, 9, 2, 6)

	assert.Equal(t, MetricStatistics(records, domain.MetricEngagements), MetricStatistics(records, domain.MetricEngagements))
	assert.Equal(t, RankPagesByMetric(records, domain.MetricReach), RankPagesByMetric(records, domain.MetricReach))
	assert.Equal(t, GeneratePageSummary(records), GeneratePageSummary(records))
}
