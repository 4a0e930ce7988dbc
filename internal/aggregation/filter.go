package aggregation

import (
	"github.com/samber/lo"

	"socialpulse/pkg/contracts/domain"
)

// Filter narrows a record set. Zero-valued fields do not filter. From and To
// are inclusive "YYYY-MM-DD" bounds on a week's start date.
type Filter struct {
	PageIDs  []string              `json:"page_ids,omitempty"`
	From     string                `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To       string                `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Statuses []domain.RecordStatus `json:"statuses,omitempty"`
}

// IsZero reports whether the filter keeps every record.
func (f Filter) IsZero() bool {
	return len(f.PageIDs) == 0 && f.From == "" && f.To == "" && len(f.Statuses) == 0
}

// Matches reports whether r passes the filter.
func (f Filter) Matches(r domain.WeeklyRecord) bool {
	if len(f.PageIDs) > 0 && !lo.Contains(f.PageIDs, r.Page.PageID) {
		return false
	}
	if f.From != "" && r.Period.StartDate < f.From {
		return false
	}
	if f.To != "" && r.Period.StartDate > f.To {
		return false
	}
	if len(f.Statuses) > 0 && !lo.Contains(f.Statuses, r.Status) {
		return false
	}
	return true
}

// Apply returns the records that pass f, in input order.
func Apply(records []domain.WeeklyRecord, f Filter) []domain.WeeklyRecord {
	if f.IsZero() {
		out := make([]domain.WeeklyRecord, len(records))
		copy(out, records)
		return out
	}
	return lo.Filter(records, func(r domain.WeeklyRecord, _ int) bool {
		return f.Matches(r)
	})
}
