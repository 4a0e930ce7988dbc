package domain

import "strings"

// RecordStatus is the activity status reported for a page in a week.
type RecordStatus string

const (
	StatusOK         RecordStatus = "OK"
	StatusNoActivity RecordStatus = "NO_ACTIVITY"
	StatusUnknown    RecordStatus = "UNKNOWN"
)

// ParseRecordStatus normalizes a raw status cell. Empty means OK and
// unrecognized values map to UNKNOWN.
func ParseRecordStatus(raw string) RecordStatus {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	switch s {
	case "", "OK", "ACTIVE":
		return StatusOK
	case "NO_ACTIVITY", "NOACTIVITY", "INACTIVE":
		return StatusNoActivity
	default:
		return StatusUnknown
	}
}

// WeeklyRecord is one page's metrics for one week, created from one export row.
type WeeklyRecord struct {
	Page    Page         `json:"page"`
	Period  WeekPeriod   `json:"period"`
	Metrics Metrics      `json:"metrics"`
	Status  RecordStatus `json:"status" validate:"required,oneof=OK NO_ACTIVITY UNKNOWN"`
	Comment string       `json:"comment,omitempty"`
}

// RecordKey uniquely identifies a weekly record.
type RecordKey struct {
	PeriodKey string
	PageID    string
}

// Key returns the (periodKey, pageId) identity of the record.
func (r WeeklyRecord) Key() RecordKey {
	return RecordKey{PeriodKey: r.Period.Key(), PageID: r.Page.PageID}
}

// Value returns the record's value for a numeric metric.
func (r WeeklyRecord) Value(key MetricKey) int64 {
	return r.Metrics.Value(key)
}
