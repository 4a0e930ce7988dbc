// Package aggregation regroups weekly records by page, week, month and
// quarter and builds distributions, comparisons and pivot tables.
//
// Every combination of values across weeks goes through the classification
// policies, so reach is averaged and engagements are summed.
package aggregation

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"socialpulse/internal/classification"
	"socialpulse/pkg/contracts/domain"
)

var (
	reachPolicy      = classification.MustPolicy(domain.MetricReach)
	engagementPolicy = classification.MustPolicy(domain.MetricEngagements)
)

// Granularity selects the grouping key.
type Granularity string

const (
	ByPage    Granularity = "page"
	ByWeek    Granularity = "week"
	ByMonth   Granularity = "month"
	ByQuarter Granularity = "quarter"
)

// IsValid reports whether g is a known granularity.
func (g Granularity) IsValid() bool {
	switch g {
	case ByPage, ByWeek, ByMonth, ByQuarter:
		return true
	}
	return false
}

// ParseGranularity converts a string to a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(s)
	if !g.IsValid() {
		return "", fmt.Errorf("unknown granularity %q (want page, week, month or quarter)", s)
	}
	return g, nil
}

// Group is one partition of records with its combined metrics.
type Group struct {
	Key              string                `json:"key"`
	Label            string                `json:"label"`
	Count            int                   `json:"count"`
	TotalEngagements int64                 `json:"total_engagements"`
	AverageReach     int64                 `json:"average_reach"`
	Records          []domain.WeeklyRecord `json:"records"`
}

func newGroup(key, label string, records []domain.WeeklyRecord) Group {
	return Group{
		Key:              key,
		Label:            label,
		Count:            len(records),
		TotalEngagements: SumEngagements(records),
		AverageReach:     TotalReach(records),
		Records:          records,
	}
}

// groupBy partitions records by key, keeping input order inside each group,
// and returns the groups ordered by less.
func groupBy(
	records []domain.WeeklyRecord,
	key func(domain.WeeklyRecord) string,
	label func(domain.WeeklyRecord) string,
	less func(a, b domain.WeeklyRecord) bool,
) []Group {
	partitions := lo.GroupBy(records, key)

	groups := make([]Group, 0, len(partitions))
	for k, members := range partitions {
		groups = append(groups, newGroup(k, label(members[0]), members))
	}
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i].Records[0], groups[j].Records[0]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// AggregateByPage groups records by page id.
func AggregateByPage(records []domain.WeeklyRecord) []Group {
	return groupBy(records,
		func(r domain.WeeklyRecord) string { return r.Page.PageID },
		func(r domain.WeeklyRecord) string { return r.Page.PageName },
		func(a, b domain.WeeklyRecord) bool { return a.Page.PageID < b.Page.PageID },
	)
}

// AggregateByWeek groups records by period key, ordered by year then week.
func AggregateByWeek(records []domain.WeeklyRecord) []Group {
	return groupBy(records,
		func(r domain.WeeklyRecord) string { return r.Period.Key() },
		func(r domain.WeeklyRecord) string {
			return fmt.Sprintf("Week %d, %d (%s to %s)", r.Period.Week, r.Period.Year, r.Period.StartDate, r.Period.EndDate)
		},
		func(a, b domain.WeeklyRecord) bool { return a.Period.Before(b.Period) },
	)
}

// AggregateByMonth groups records by the "{year}_{MM}" key of their start date.
func AggregateByMonth(records []domain.WeeklyRecord) []Group {
	return groupBy(records,
		func(r domain.WeeklyRecord) string { return r.Period.MonthKey() },
		func(r domain.WeeklyRecord) string {
			return fmt.Sprintf("%s %d", r.Period.MonthName(), r.Period.Start().Year())
		},
		func(a, b domain.WeeklyRecord) bool { return a.Period.MonthKey() < b.Period.MonthKey() },
	)
}

// AggregateByQuarter groups records by the "{year}_Q{n}" key of their start date.
func AggregateByQuarter(records []domain.WeeklyRecord) []Group {
	return groupBy(records,
		func(r domain.WeeklyRecord) string { return r.Period.QuarterKey() },
		func(r domain.WeeklyRecord) string {
			return fmt.Sprintf("Q%d %d", r.Period.Quarter(), r.Period.Start().Year())
		},
		func(a, b domain.WeeklyRecord) bool { return a.Period.QuarterKey() < b.Period.QuarterKey() },
	)
}

// Aggregate dispatches on granularity.
func Aggregate(records []domain.WeeklyRecord, g Granularity) ([]Group, error) {
	switch g {
	case ByPage:
		return AggregateByPage(records), nil
	case ByWeek:
		return AggregateByWeek(records), nil
	case ByMonth:
		return AggregateByMonth(records), nil
	case ByQuarter:
		return AggregateByQuarter(records), nil
	default:
		return nil, fmt.Errorf("unknown granularity %q", g)
	}
}

// Index keys groups by their key.
func Index(groups []Group) map[string]Group {
	return lo.KeyBy(groups, func(g Group) string { return g.Key })
}

// SumEngagements sums engagements across records.
func SumEngagements(records []domain.WeeklyRecord) int64 {
	v, _ := engagementPolicy.CombineRecords(records)
	return v
}

// TotalReach is the user-facing "total reach" of a set of records, which is
// the average weekly reach. It never sums.
func TotalReach(records []domain.WeeklyRecord) int64 {
	v, _ := reachPolicy.CombineRecords(records)
	return v
}

// SummaryMetrics are the combined metrics of a record set.
type SummaryMetrics struct {
	TotalEngagements int64 `json:"total_engagements"`
	AverageReach     int64 `json:"average_reach"`
}

// Summary describes a whole record set.
type Summary struct {
	TotalWeeks      int            `json:"total_weeks"`
	TotalPages      int            `json:"total_pages"`
	TotalDataPoints int            `json:"total_data_points"`
	Metrics         SummaryMetrics `json:"metrics"`
}

// CreateSummary counts distinct weeks and pages and combines the metrics.
func CreateSummary(records []domain.WeeklyRecord) Summary {
	weeks := lo.Uniq(lo.Map(records, func(r domain.WeeklyRecord, _ int) string { return r.Period.Key() }))
	pages := lo.Uniq(lo.Map(records, func(r domain.WeeklyRecord, _ int) string { return r.Page.PageID }))

	return Summary{
		TotalWeeks:      len(weeks),
		TotalPages:      len(pages),
		TotalDataPoints: len(records),
		Metrics: SummaryMetrics{
			TotalEngagements: SumEngagements(records),
			AverageReach:     TotalReach(records),
		},
	}
}
