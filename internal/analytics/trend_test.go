package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/internal/shared/testutil"
	"socialpulse/pkg/contracts/domain"
)

func TestWeekOverWeekChange(t *testing.T) {
	tests := []struct {
		name              string
		current, previous int64
		want              float64
	}{
		{name: "unchanged", current: 500, previous: 500, want: 0},
		{name: "both zero", current: 0, previous: 0, want: 0},
		{name: "from zero", current: 42, previous: 0, want: 100},
		{name: "increase", current: 120, previous: 100, want: 20},
		{name: "decrease", current: 25, previous: 100, want: -75},
		{name: "one decimal", current: 4, previous: 3, want: 33.3},
		{name: "negative fraction", current: 3, previous: 8, want: -62.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekOverWeekChange(tt.current, tt.previous))
		})
	}
}

func TestAverageTrend(t *testing.T) {
	tests := []struct {
		name   string
		values []int64
		want   TrendSummary
	}{
		{name: "empty", values: nil, want: TrendSummary{Trend: TrendNeutral}},
		{name: "single", values: []int64{7}, want: TrendSummary{Average: 7, Trend: TrendNeutral}},
		{name: "increasing", values: []int64{100, 110, 120}, want: TrendSummary{Average: 110, Trend: TrendIncreasing, ChangePercent: 20}},
		{name: "decreasing", values: []int64{100, 50, 90}, want: TrendSummary{Average: 80, Trend: TrendDecreasing, ChangePercent: -10}},
		{name: "neutral", values: []int64{100, 300, 104}, want: TrendSummary{Average: 168, Trend: TrendNeutral, ChangePercent: 4}},
		{name: "average keeps one decimal", values: []int64{1, 2}, want: TrendSummary{Average: 1.5, Trend: TrendIncreasing, ChangePercent: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AverageTrend(tt.values))
		})
	}
}

func TestWeekToWeekTrend(t *testing.T) {
	// Out of order and across a year boundary.
	records := []domain.WeeklyRecord{
		testutil.Record("P1", 2026, 2, 150, 30),
		testutil.Record("P1", 2025, 52, 100, 10),
		testutil.Record("P1", 2026, 1, 200, 20),
	}

	series := WeekToWeekTrend(records)
	require.Len(t, series, 3)

	assert.Equal(t, "2025_52", series[0].PeriodKey)
	assert.Equal(t, "2026_1", series[1].PeriodKey)
	assert.Equal(t, "2026_2", series[2].PeriodKey)

	assert.Zero(t, series[0].ReachChange)
	assert.Zero(t, series[0].EngagementsChange)
	assert.Equal(t, 100.0, series[1].ReachChange)
	assert.Equal(t, 100.0, series[1].EngagementsChange)
	assert.Equal(t, -25.0, series[2].ReachChange)
	assert.Equal(t, 50.0, series[2].EngagementsChange)

	assert.Equal(t, "2026_2", records[0].Period.Key(), "input must not be reordered")
}

func TestWeekToWeekTrend_Empty(t *testing.T) {
	assert.Empty(t, WeekToWeekTrend(nil))
}
