package aggregation

import (
	"sort"

	"socialpulse/pkg/contracts/domain"
)

// PivotRow holds one page's value per period key.
type PivotRow struct {
	Page  domain.Page      `json:"page"`
	Weeks map[string]int64 `json:"weeks"`
}

// PivotTable is a page × week matrix of one metric.
//
// Weeks lists period keys in lexicographic order, so "2025_10" sorts before
// "2025_2". Periods lists the same weeks chronologically.
type PivotTable struct {
	Metric  domain.MetricKey    `json:"metric"`
	Pages   []domain.Page       `json:"pages"`
	Weeks   []string            `json:"weeks"`
	Periods []domain.WeekPeriod `json:"periods"`
	Data    map[string]PivotRow `json:"data"`
}

// CreatePivotTable places each record's metric value at
// Data[pageId].Weeks[periodKey]. Pages keep first-seen order.
func CreatePivotTable(records []domain.WeeklyRecord, metric domain.MetricKey) PivotTable {
	pt := PivotTable{
		Metric:  metric,
		Pages:   []domain.Page{},
		Weeks:   []string{},
		Periods: []domain.WeekPeriod{},
		Data:    make(map[string]PivotRow),
	}

	seenWeeks := make(map[string]bool)
	for _, r := range records {
		row, ok := pt.Data[r.Page.PageID]
		if !ok {
			row = PivotRow{Page: r.Page, Weeks: make(map[string]int64)}
			pt.Data[r.Page.PageID] = row
			pt.Pages = append(pt.Pages, r.Page)
		}
		key := r.Period.Key()
		row.Weeks[key] = r.Value(metric)

		if !seenWeeks[key] {
			seenWeeks[key] = true
			pt.Weeks = append(pt.Weeks, key)
			pt.Periods = append(pt.Periods, r.Period)
		}
	}

	sort.Strings(pt.Weeks)
	sort.SliceStable(pt.Periods, func(i, j int) bool {
		return pt.Periods[i].Before(pt.Periods[j])
	})
	return pt
}

// Value looks up one cell.
func (pt PivotTable) Value(pageID, periodKey string) (int64, bool) {
	row, ok := pt.Data[pageID]
	if !ok {
		return 0, false
	}
	v, ok := row.Weeks[periodKey]
	return v, ok
}
