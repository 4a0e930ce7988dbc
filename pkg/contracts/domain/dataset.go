package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrDuplicateRecord is returned when a dataset already holds a record for
// the same (periodKey, pageId).
var ErrDuplicateRecord = errors.New("duplicate weekly record")

// Dataset is an ordered, append-only collection of weekly records.
// Append is not safe for concurrent use; readers may share a dataset once
// ingestion has finished.
type Dataset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	records []WeeklyRecord
	index   map[RecordKey]int
}

// NewDataset creates an empty dataset.
func NewDataset(id, name string) *Dataset {
	return &Dataset{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		index:     make(map[RecordKey]int),
	}
}

// Append adds a record, rejecting duplicates of (periodKey, pageId).
func (d *Dataset) Append(r WeeklyRecord) error {
	if d.index == nil {
		d.index = make(map[RecordKey]int)
	}
	key := r.Key()
	if _, exists := d.index[key]; exists {
		return fmt.Errorf("%w: page %s period %s", ErrDuplicateRecord, key.PageID, key.PeriodKey)
	}
	d.index[key] = len(d.records)
	d.records = append(d.records, r)
	return nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of all records in insertion order.
func (d *Dataset) Records() []WeeklyRecord {
	out := make([]WeeklyRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Lookup returns the record for a page in a period.
func (d *Dataset) Lookup(periodKey, pageID string) (WeeklyRecord, bool) {
	i, ok := d.index[RecordKey{PeriodKey: periodKey, PageID: pageID}]
	if !ok {
		return WeeklyRecord{}, false
	}
	return d.records[i], true
}

// ByPage returns the records of one page in insertion order.
func (d *Dataset) ByPage(pageID string) []WeeklyRecord {
	var out []WeeklyRecord
	for _, r := range d.records {
		if r.Page.PageID == pageID {
			out = append(out, r)
		}
	}
	return out
}

// ByPeriod returns the records of one period key in insertion order.
func (d *Dataset) ByPeriod(periodKey string) []WeeklyRecord {
	var out []WeeklyRecord
	for _, r := range d.records {
		if r.Period.Key() == periodKey {
			out = append(out, r)
		}
	}
	return out
}

// Pages returns the distinct pages in first-seen order.
func (d *Dataset) Pages() []Page {
	seen := make(map[string]bool)
	var pages []Page
	for _, r := range d.records {
		if seen[r.Page.PageID] {
			continue
		}
		seen[r.Page.PageID] = true
		pages = append(pages, r.Page)
	}
	return pages
}

// Periods returns the distinct periods sorted by year, then week.
func (d *Dataset) Periods() []WeekPeriod {
	seen := make(map[string]bool)
	var periods []WeekPeriod
	for _, r := range d.records {
		key := r.Period.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		periods = append(periods, r.Period)
	}
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].Before(periods[j])
	})
	return periods
}
