package exporter

import (
	"fmt"

	"socialpulse/internal/aggregation"
	"socialpulse/internal/analytics"
	"socialpulse/internal/classification"
	"socialpulse/pkg/contracts/domain"
)

// Table is a header plus rows of typed cells (string, int, int64, float64
// or nil for an empty cell). CSV renders one table, XLSX one sheet per table.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// GroupsTable lists aggregated groups.
func GroupsTable(g aggregation.Granularity, groups []aggregation.Group) Table {
	t := Table{
		Name:    "by_" + string(g),
		Headers: []string{"key", "label", "records", "total_engagements", "average_reach"},
		Rows:    make([][]any, 0, len(groups)),
	}
	for _, grp := range groups {
		t.Rows = append(t.Rows, []any{grp.Key, grp.Label, grp.Count, grp.TotalEngagements, grp.AverageReach})
	}
	return t
}

// PivotTable renders pages × weeks with weeks in chronological order. The
// last column combines each page's weeks with the metric's registered
// method, so reach is averaged and engagements summed.
func PivotTable(pt aggregation.PivotTable) (Table, error) {
	policy, err := classification.PolicyFor(pt.Metric)
	if err != nil {
		return Table{}, err
	}

	headers := []string{"page_id", "page_name"}
	for _, p := range pt.Periods {
		headers = append(headers, p.Key())
	}
	headers = append(headers, string(policy.Method))

	t := Table{Name: "pivot_" + string(pt.Metric), Headers: headers, Rows: make([][]any, 0, len(pt.Pages))}
	for _, page := range pt.Pages {
		row := []any{page.PageID, page.PageName}
		var values []int64
		for _, p := range pt.Periods {
			v, ok := pt.Value(page.PageID, p.Key())
			if !ok {
				row = append(row, nil)
				continue
			}
			row = append(row, v)
			values = append(values, v)
		}
		combined, err := policy.Combine(values)
		if err != nil {
			return Table{}, fmt.Errorf("combine %s for page %s: %w", pt.Metric, page.PageID, err)
		}
		t.Rows = append(t.Rows, append(row, combined))
	}
	return t, nil
}

// RankingsTable lists ranked weekly values.
func RankingsTable(metric domain.MetricKey, rankings []analytics.Ranking) Table {
	t := Table{
		Name:    "rankings_" + string(metric),
		Headers: []string{"rank", "page_id", "page_name", "period", string(metric)},
		Rows:    make([][]any, 0, len(rankings)),
	}
	for _, r := range rankings {
		t.Rows = append(t.Rows, []any{r.Rank, r.Page.PageID, r.Page.PageName, r.Period.Key(), r.Value})
	}
	return t
}

// GrowthTable lists pages with consistent growth.
func GrowthTable(metric domain.MetricKey, growth []analytics.Growth) Table {
	t := Table{
		Name:    "growth_" + string(metric),
		Headers: []string{"page_id", "page_name", "consecutive_weeks", "total_weeks"},
		Rows:    make([][]any, 0, len(growth)),
	}
	for _, g := range growth {
		t.Rows = append(t.Rows, []any{g.Page.PageID, g.Page.PageName, g.ConsecutiveWeeks, g.TotalWeeks})
	}
	return t
}

// DistributionTable lists each page's share of engagements.
func DistributionTable(entries []aggregation.DistributionEntry) Table {
	t := Table{
		Name:    "distribution",
		Headers: []string{"page_id", "page_name", "engagements", "percentage"},
		Rows:    make([][]any, 0, len(entries)),
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, []any{e.Page.PageID, e.Page.PageName, e.Engagements, e.Percentage})
	}
	return t
}

// TimeseriesTable flattens per-page timeseries into one row per page-week.
func TimeseriesTable(series []aggregation.PageTimeseries) Table {
	t := Table{
		Name:    "timeseries",
		Headers: []string{"page_id", "page_name", "period", "start_date", "end_date", "reach", "engagements"},
	}
	for _, s := range series {
		for _, p := range s.Points {
			t.Rows = append(t.Rows, []any{s.Page.PageID, s.Page.PageName, p.PeriodKey, p.StartDate, p.EndDate, p.Reach, p.Engagements})
		}
	}
	return t
}

// StringRows renders every cell as CSV text.
func (t Table) StringRows() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatCell(v)
		}
		out[i] = cells
	}
	return out
}
