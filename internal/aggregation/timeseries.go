package aggregation

import (
	"sort"

	"github.com/samber/lo"

	"socialpulse/internal/numeric"
	"socialpulse/pkg/contracts/domain"
)

// TimeseriesPoint is one week of a page's series.
type TimeseriesPoint struct {
	PeriodKey   string `json:"period_key"`
	Year        int    `json:"year"`
	Week        int    `json:"week"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reach       int64  `json:"reach"`
	Engagements int64  `json:"engagements"`
}

// PageTimeseries is a page's chronological series with its combined metrics.
type PageTimeseries struct {
	Page    domain.Page       `json:"page"`
	Weeks   int               `json:"weeks"`
	Points  []TimeseriesPoint `json:"points"`
	Summary SummaryMetrics    `json:"summary"`
}

// AggregatePageTimeseries builds one series per page, ordered by page id,
// with points ordered by start date.
func AggregatePageTimeseries(records []domain.WeeklyRecord) []PageTimeseries {
	byPage := AggregateByPage(records)

	out := make([]PageTimeseries, len(byPage))
	for i, g := range byPage {
		sorted := make([]domain.WeeklyRecord, len(g.Records))
		copy(sorted, g.Records)
		sort.SliceStable(sorted, func(a, b int) bool {
			return sorted[a].Period.StartDate < sorted[b].Period.StartDate
		})

		out[i] = PageTimeseries{
			Page:  sorted[0].Page,
			Weeks: len(sorted),
			Points: lo.Map(sorted, func(r domain.WeeklyRecord, _ int) TimeseriesPoint {
				return TimeseriesPoint{
					PeriodKey:   r.Period.Key(),
					Year:        r.Period.Year,
					Week:        r.Period.Week,
					StartDate:   r.Period.StartDate,
					EndDate:     r.Period.EndDate,
					Reach:       r.Metrics.Reach,
					Engagements: r.Metrics.Engagements,
				}
			}),
			Summary: SummaryMetrics{
				TotalEngagements: g.TotalEngagements,
				AverageReach:     g.AverageReach,
			},
		}
	}
	return out
}

// AggregateForWeekComparison returns the records of one week ordered by
// engagements, highest first. Ties keep input order.
func AggregateForWeekComparison(records []domain.WeeklyRecord, year, week int) []domain.WeeklyRecord {
	selected := lo.Filter(records, func(r domain.WeeklyRecord, _ int) bool {
		return r.Period.Year == year && r.Period.Week == week
	})
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Metrics.Engagements > selected[j].Metrics.Engagements
	})
	return selected
}

// DistributionEntry is one page's share of all engagements.
type DistributionEntry struct {
	Page        domain.Page `json:"page"`
	Engagements int64       `json:"engagements"`
	Percentage  float64     `json:"percentage"`
}

// EngagementDistribution totals engagements per page and reports each
// page's percentage of the grand total, highest first. A zero total yields
// 0% for every page.
func EngagementDistribution(records []domain.WeeklyRecord) []DistributionEntry {
	byPage := lo.GroupBy(records, func(r domain.WeeklyRecord) string { return r.Page.PageID })
	order := lo.Uniq(lo.Map(records, func(r domain.WeeklyRecord, _ int) string { return r.Page.PageID }))
	grand := SumEngagements(records)

	out := make([]DistributionEntry, len(order))
	for i, id := range order {
		members := byPage[id]
		total := SumEngagements(members)
		out[i] = DistributionEntry{
			Page:        members[0].Page,
			Engagements: total,
			Percentage:  numeric.PercentOf(float64(total), float64(grand)),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Engagements > out[j].Engagements
	})
	return out
}
