package analytics

import (
	"socialpulse/pkg/contracts/domain"
)

// MetricSummary bundles the statistics of one metric for a page.
type MetricSummary struct {
	Statistics Statistics   `json:"statistics"`
	BestWeek   BestWorst    `json:"best_and_worst"`
	Volatility int64        `json:"volatility"`
	Trend      TrendSummary `json:"trend"`
}

// PageSummary is one page's full-history report.
type PageSummary struct {
	Page        domain.Page       `json:"page"`
	TotalWeeks  int               `json:"total_weeks"`
	FirstPeriod domain.WeekPeriod `json:"first_period"`
	LastPeriod  domain.WeekPeriod `json:"last_period"`
	Reach       MetricSummary     `json:"reach"`
	Engagements MetricSummary     `json:"engagements"`
	WeeklyTrend []WeekChange      `json:"weekly_trend"`
}

// GeneratePageSummary summarizes one page's records. It returns nil for
// empty input.
func GeneratePageSummary(records []domain.WeeklyRecord) *PageSummary {
	if len(records) == 0 {
		return nil
	}
	sorted := SortByStartDate(records)

	return &PageSummary{
		Page:        sorted[0].Page,
		TotalWeeks:  len(sorted),
		FirstPeriod: sorted[0].Period,
		LastPeriod:  sorted[len(sorted)-1].Period,
		Reach:       summarizeMetric(sorted, domain.MetricReach),
		Engagements: summarizeMetric(sorted, domain.MetricEngagements),
		WeeklyTrend: WeekToWeekTrend(sorted),
	}
}

func summarizeMetric(sorted []domain.WeeklyRecord, metric domain.MetricKey) MetricSummary {
	return MetricSummary{
		Statistics: MetricStatistics(sorted, metric),
		BestWeek:   BestAndWorstWeek(sorted, metric),
		Volatility: Volatility(sorted, metric),
		Trend:      AverageTrend(Values(sorted, metric)),
	}
}
