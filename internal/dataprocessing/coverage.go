package dataprocessing

import (
	"sort"

	"socialpulse/pkg/contracts/domain"
)

// PageCoverage lists the dataset weeks one page has no record for.
type PageCoverage struct {
	Page           domain.Page `json:"page"`
	WeeksPresent   int         `json:"weeks_present"`
	WeeksMissing   int         `json:"weeks_missing"`
	MissingPeriods []string    `json:"missing_periods"`
	NoActivity     []string    `json:"no_activity_periods"`
}

// CoverageReport is the page × week completeness of a dataset.
type CoverageReport struct {
	Periods  []string       `json:"periods"`
	Pages    []PageCoverage `json:"pages"`
	Complete bool           `json:"complete"`
}

// CoverageProcessor checks which pages are missing which weeks.
type CoverageProcessor struct{}

// NewCoverageProcessor creates a coverage processor
func NewCoverageProcessor() *CoverageProcessor {
	return &CoverageProcessor{}
}

// Analyze compares every page against every period in the dataset. Pages are
// ordered by id and periods chronologically.
func (c *CoverageProcessor) Analyze(ds *domain.Dataset) CoverageReport {
	periods := ds.Periods()
	keys := make([]string, len(periods))
	for i, p := range periods {
		keys[i] = p.Key()
	}

	pages := ds.Pages()
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].PageID < pages[j].PageID })

	report := CoverageReport{Periods: keys, Pages: make([]PageCoverage, 0, len(pages)), Complete: true}
	for _, page := range pages {
		pc := PageCoverage{Page: page, MissingPeriods: []string{}, NoActivity: []string{}}
		for _, key := range keys {
			r, ok := ds.Lookup(key, page.PageID)
			switch {
			case !ok:
				pc.MissingPeriods = append(pc.MissingPeriods, key)
			case r.Status == domain.StatusNoActivity:
				pc.NoActivity = append(pc.NoActivity, key)
				pc.WeeksPresent++
			default:
				pc.WeeksPresent++
			}
		}
		pc.WeeksMissing = len(pc.MissingPeriods)
		if pc.WeeksMissing > 0 {
			report.Complete = false
		}
		report.Pages = append(report.Pages, pc)
	}
	return report
}
