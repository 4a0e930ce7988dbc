package analytics

import (
	"sort"

	"socialpulse/internal/numeric"
	"socialpulse/pkg/contracts/domain"
)

// Trend classifies the direction of a value series.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendNeutral    Trend = "neutral"
)

// trendThreshold is the percent change beyond which a series is not neutral.
const trendThreshold = 5.0

func classify(changePercent float64) Trend {
	switch {
	case changePercent > trendThreshold:
		return TrendIncreasing
	case changePercent < -trendThreshold:
		return TrendDecreasing
	default:
		return TrendNeutral
	}
}

// WeekOverWeekChange returns the percent change from previous to current,
// rounded half-up to one decimal. A zero previous yields 100 when current is
// positive, else 0.
func WeekOverWeekChange(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return numeric.PercentOf(float64(current-previous), float64(previous))
}

// TrendSummary describes an ordered series.
type TrendSummary struct {
	Average       float64 `json:"average"`
	Trend         Trend   `json:"trend"`
	ChangePercent float64 `json:"change_percent"`
}

// AverageTrend returns the mean (one decimal) and the trend from the first to
// the last value. Fewer than two values are neutral with no change.
func AverageTrend(values []int64) TrendSummary {
	if len(values) == 0 {
		return TrendSummary{Trend: TrendNeutral}
	}
	avg := numeric.RoundTenth(float64(numeric.Sum(values)) / float64(len(values)))
	if len(values) == 1 {
		return TrendSummary{Average: avg, Trend: TrendNeutral}
	}
	change := WeekOverWeekChange(values[len(values)-1], values[0])
	return TrendSummary{Average: avg, Trend: classify(change), ChangePercent: change}
}

// WeekChange is one point of a week-to-week series.
type WeekChange struct {
	Period            domain.WeekPeriod `json:"period"`
	PeriodKey         string            `json:"period_key"`
	PageID            string            `json:"page_id"`
	Reach             int64             `json:"reach"`
	Engagements       int64             `json:"engagements"`
	ReachChange       float64           `json:"reach_change"`
	EngagementsChange float64           `json:"engagements_change"`
}

// WeekToWeekTrend orders records by start date and computes each record's
// change against the one before it. The first record's change is 0.
func WeekToWeekTrend(records []domain.WeeklyRecord) []WeekChange {
	sorted := SortByStartDate(records)
	out := make([]WeekChange, len(sorted))
	for i, r := range sorted {
		wc := WeekChange{
			Period:      r.Period,
			PeriodKey:   r.Period.Key(),
			PageID:      r.Page.PageID,
			Reach:       r.Metrics.Reach,
			Engagements: r.Metrics.Engagements,
		}
		if i > 0 {
			prev := sorted[i-1]
			wc.ReachChange = WeekOverWeekChange(r.Metrics.Reach, prev.Metrics.Reach)
			wc.EngagementsChange = WeekOverWeekChange(r.Metrics.Engagements, prev.Metrics.Engagements)
		}
		out[i] = wc
	}
	return out
}

// SortByStartDate returns a copy of records ordered by start date. ISO date
// strings sort chronologically, across year boundaries too.
func SortByStartDate(records []domain.WeeklyRecord) []domain.WeeklyRecord {
	sorted := make([]domain.WeeklyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Period.StartDate < sorted[j].Period.StartDate
	})
	return sorted
}

// Values extracts one metric from each record, in order.
func Values(records []domain.WeeklyRecord, metric domain.MetricKey) []int64 {
	values := make([]int64, len(records))
	for i, r := range records {
		values[i] = r.Value(metric)
	}
	return values
}
